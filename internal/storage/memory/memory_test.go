package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/disputectl/internal/storage"
	"github.com/Layr-Labs/disputectl/internal/storage/memory"
)

func TestInMemoryClaimStore(t *testing.T) {
	suite := &storage.TestSuite{
		NewStore: func() (storage.ClaimStore, error) {
			return memory.NewInMemoryClaimStore(), nil
		},
	}
	suite.Run(t)
}

func TestInMemoryClaimStore_Independent(t *testing.T) {
	ctx := context.Background()
	store1 := memory.NewInMemoryClaimStore()
	store2 := memory.NewInMemoryClaimStore()

	require.NoError(t, store1.SaveClaimID(ctx, 3))

	_, err := store2.LoadClaimID(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
