package core

import (
	"errors"
	"fmt"
)

// EmbeddingError marks a failed or malformed response from the external
// embedding provider. The sync engine treats it as a per-chunk failure:
// skip the chunk, keep the sync going. Storage errors stay untyped and
// propagate to the caller.
type EmbeddingError struct {
	Op  string
	Err error
}

func (e *EmbeddingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("embedding provider: %s", e.Op)
	}
	return fmt.Sprintf("embedding provider: %s: %v", e.Op, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// IsEmbeddingError reports whether err wraps an EmbeddingError.
func IsEmbeddingError(err error) bool {
	var ee *EmbeddingError
	return errors.As(err, &ee)
}
