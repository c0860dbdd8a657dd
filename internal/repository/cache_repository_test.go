package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "opsdash", nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "stats:cleaning", &dest)
	require.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	require.NoError(t, repo.Set(ctx, "stats:cleaning", map[string]int{"total": 1}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "stats:*"))
	require.NoError(t, repo.Close())
	require.Equal(t, "opsdash:stats:cleaning", repo.key("stats:cleaning"))
}
