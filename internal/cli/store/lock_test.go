package store

import (
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"
)

func lockFor(t *testing.T, path string) *flock.Flock {
	t.Helper()
	l := flock.New(path + ".lock")
	ok, err := l.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	return l
}
