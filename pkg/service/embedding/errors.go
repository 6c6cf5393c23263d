package embedding

import "github.com/m-mizutani/goerr/v2"

func errDimensionMismatch(got, want int) error {
	return goerr.New("remote embedding has unexpected shape",
		goerr.V("batches", got),
		goerr.V("expected_dim", want))
}
