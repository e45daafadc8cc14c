package repofake_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gongxings/ai-creator/storage"
	"github.com/gongxings/ai-creator/storage/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeRepo(t *testing.T) {
	repo := repofake.NewFakeRepo()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, storage.KeyAccessToken, "T1"))
	v, ok, err := repo.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1", v)

	require.NoError(t, repo.Remove(ctx, storage.KeyAccessToken))
	require.Equal(t, 0, repo.Len())

	sets, removes := repo.Writes()
	require.Equal(t, 1, sets)
	require.Equal(t, 1, removes)

	boom := errors.New("disk full")
	repo.FailWith = boom
	require.ErrorIs(t, repo.Set(ctx, storage.KeyAccessToken, "T2"), boom)
}
