package genref_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// recoverError runs fn, which must panic with an error, and returns it.
func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")

		e, ok := r.(error)
		require.True(t, ok, "expected panic value to be an error, got %T", r)
		err = e
	}()

	fn()
	return nil
}
