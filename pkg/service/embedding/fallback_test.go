package embedding_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/olucvolkan/haberai-mvp/pkg/service/embedding"
)

func l2Norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func TestFallback(t *testing.T) {
	t.Run("exact dimension", func(t *testing.T) {
		for _, dim := range []int{8, 128, 1536} {
			vec := embedding.Fallback("breaking news from the capital", dim)
			gt.Array(t, vec).Length(dim)
		}
	})

	t.Run("non-positive dimension yields nil", func(t *testing.T) {
		gt.Value(t, embedding.Fallback("breaking news from the capital", 0)).Nil()
		gt.Value(t, embedding.Fallback("breaking news from the capital", -3)).Nil()
	})

	t.Run("unit L2 norm", func(t *testing.T) {
		vec := embedding.Fallback("some article text about the economy", 256)
		norm := l2Norm(vec)
		gt.Bool(t, math.Abs(norm-1.0) < 1e-5).True()
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "the central bank raised interest rates again"
		a := embedding.Fallback(text, 512)
		b := embedding.Fallback(text, 512)
		gt.Value(t, a).Equal(b)
	})

	t.Run("different texts differ", func(t *testing.T) {
		a := embedding.Fallback("football match results", 128)
		b := embedding.Fallback("parliament passed the budget", 128)
		gt.Value(t, a).NotEqual(b)
	})

	t.Run("empty and whitespace input yield zero vector", func(t *testing.T) {
		for _, text := range []string{"", "   ", "\n\t"} {
			vec := embedding.Fallback(text, 64)
			gt.Array(t, vec).Length(64)
			gt.Value(t, l2Norm(vec)).Equal(0.0)
		}
	})

	t.Run("no NaN or Inf values", func(t *testing.T) {
		vec := embedding.Fallback("a", 16)
		for _, v := range vec {
			gt.Bool(t, math.IsNaN(float64(v))).False()
			gt.Bool(t, math.IsInf(float64(v), 0)).False()
		}
	})
}
