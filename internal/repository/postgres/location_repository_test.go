package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-map/internal/repository/postgres"
	"github.com/location-map/internal/repository/postgres/testhelpers"
)

func ptrString(s string) *string    { return &s }
func ptrFloat64(f float64) *float64 { return &f }

func TestLocationRepository_ListLocations(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	require.NoError(t, tdb.Cleanup(ctx))
	defer tdb.Cleanup(ctx)

	cafeID, err := tdb.SeedLocation(ctx, ptrString("Cafe"), ptrString("1 Main St"), ptrString("https://x"), ptrFloat64(40.7), ptrFloat64(-74.0))
	require.NoError(t, err)
	blankID, err := tdb.SeedLocation(ctx, nil, nil, nil, nil, ptrFloat64(12.5))
	require.NoError(t, err)

	repo := postgres.NewLocationRepository(postgres.NewDBForTest(tdb.DB, tdb.Logger))

	rows, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, cafeID, rows[0].ID)
	assert.Equal(t, "Cafe", rows[0].DisplayName())
	assert.Equal(t, "https://x", rows[0].Link())
	assert.Equal(t, 40.7, *rows[0].Latitude)
	assert.NotNil(t, rows[0].CreatedAt)

	assert.Equal(t, blankID, rows[1].ID)
	assert.Nil(t, rows[1].Name)
	assert.Nil(t, rows[1].Latitude)
	assert.Equal(t, 12.5, *rows[1].Longitude)
}

func TestLocationRepository_EmptyTable(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	require.NoError(t, tdb.Cleanup(ctx))

	repo := postgres.NewLocationRepository(postgres.NewDBForTest(tdb.DB, nil))

	rows, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
