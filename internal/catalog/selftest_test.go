package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"CatalogStore/internal/storage"
)

func TestSelfTest_LeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	s, err := Open(storage.NewJSONFile(filepath.Join(t.TempDir(), "products.json")), Options{})
	require.NoError(t, err)

	keep, err := s.Add(ctx, sampleProduct("other"))
	require.NoError(t, err)

	require.NoError(t, SelfTest(ctx, s, zaptest.NewLogger(t)))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep, list[0].ID)
}

func TestSelfTest_FailsWhenCodeTaken(t *testing.T) {
	ctx := context.Background()
	s, err := Open(NewMemBackend(), Options{})
	require.NoError(t, err)

	_, err = s.Add(ctx, sampleProduct(selfTestCode))
	require.NoError(t, err)

	err = SelfTest(ctx, s, nil)
	assert.ErrorIs(t, err, ErrDuplicateCode)
}
