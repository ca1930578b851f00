package safe_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/mirrorkeep/mirrorkeep/pkg/utils/safe"
)

func TestClose(t *testing.T) {
	t.Run("close valid reader", func(t *testing.T) {
		reader := io.NopCloser(bytes.NewReader([]byte("test")))
		safe.Close(reader) // Should not panic
	})

	t.Run("close nil reader", func(t *testing.T) {
		safe.Close(nil) // Should not panic
	})
}

func TestCloseWithError(t *testing.T) {
	t.Run("close reader that returns error", func(t *testing.T) {
		safe.Close(&errorCloser{}) // Should not panic, should log
	})

	t.Run("close reader that returns EOF", func(t *testing.T) {
		safe.Close(&eofCloser{}) // Should not panic, should not log
	})
}

type errorCloser struct{}

func (e *errorCloser) Close() error {
	return io.ErrUnexpectedEOF
}

type eofCloser struct{}

func (e *eofCloser) Close() error {
	return io.EOF
}
