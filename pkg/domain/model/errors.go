package model

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by repositories when the requested record does not
// exist. Both the Postgres and memory backends wrap it, so callers check with
// errors.Is regardless of backend.
var ErrNotFound = goerr.New("record not found")
