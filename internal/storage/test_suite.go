package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite defines a test suite that all claim store implementations must pass
type TestSuite struct {
	NewStore func() (ClaimStore, error)
}

// Run executes all storage interface compliance tests
func (s *TestSuite) Run(t *testing.T) {
	t.Run("ClaimID", s.testClaimID)
	t.Run("Lifecycle", s.testLifecycle)
	t.Run("ConcurrentAccess", s.testConcurrentAccess)
}

func (s *TestSuite) testClaimID(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, err = store.LoadClaimID(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SaveClaimID(ctx, 0))
	id, err := store.LoadClaimID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	require.NoError(t, store.SaveClaimID(ctx, 12))
	id, err = store.LoadClaimID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
}

func (s *TestSuite) testLifecycle(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveClaimID(ctx, 5))

	require.NoError(t, store.Close())
	// closing twice is a no-op
	require.NoError(t, store.Close())

	err = store.SaveClaimID(ctx, 6)
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = store.LoadClaimID(ctx)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func (s *TestSuite) testConcurrentAccess(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id uint64) {
			defer wg.Done()
			errs <- store.SaveClaimID(ctx, id)
		}(uint64(i))
		go func() {
			defer wg.Done()
			if _, err := store.LoadClaimID(ctx); err != nil && err != ErrNotFound {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	id, err := store.LoadClaimID(ctx)
	require.NoError(t, err)
	assert.Less(t, id, uint64(10))
}
