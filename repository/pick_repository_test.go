package repository

import (
	"context"
	"testing"
	"time"

	"picktrack/models"
	"picktrack/repository/testutil"
	"picktrack/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPickRepository(testDB.DB)
	ctx := context.Background()

	t.Run("round trips a pick", func(t *testing.T) {
		pick := testutil.CreateTestSpreadPick("Yankees", "Red Sox", "Yankees", -1.5)
		pick.EventID = "evt-123"

		err := repo.Create(ctx, pick)
		require.NoError(t, err)
		assert.False(t, pick.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, pick.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, pick.ID, got.ID)
		assert.Equal(t, "Yankees", got.HomeTeam)
		assert.Equal(t, models.MarketSpread, got.Market)
		require.NotNil(t, got.Line)
		assert.Equal(t, -1.5, *got.Line)
		assert.Equal(t, -110, got.Odds)
		assert.True(t, got.Stake.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Nil(t, got.SettledAt)
	})

	t.Run("missing pick returns nil without error", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("negative stake violates check constraint", func(t *testing.T) {
		pick := testutil.CreateTestPick("Yankees", "Red Sox", "Yankees")
		pick.Stake = decimal.NewFromInt(-5)

		err := repo.Create(ctx, pick)
		assert.Error(t, err)
	})
}

func TestPickRepository_FindPending(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPickRepository(testDB.DB)
	ctx := context.Background()

	gameTime := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)

	seed := func(homeTeam, awayTeam string, startTime time.Time, status models.PickStatus) *models.Pick {
		pick := testutil.CreateTestPick(homeTeam, awayTeam, homeTeam)
		pick.StartTime = startTime
		pick.Status = status
		require.NoError(t, repo.Create(ctx, pick))
		return pick
	}

	match := seed("Yankees", "Red Sox", gameTime, models.StatusPending)
	seed("Yankees", "Red Sox", gameTime, models.StatusWon)           // settled, excluded
	seed("Mets", "Red Sox", gameTime, models.StatusPending)          // wrong pair
	outside := seed("Yankees", "Red Sox", gameTime.Add(24*time.Hour), models.StatusPending)

	t.Run("matches case-insensitively", func(t *testing.T) {
		picks, err := repo.FindPending(ctx, "YANKEES", "red sox", nil)
		require.NoError(t, err)
		require.Len(t, picks, 2)
		assert.Equal(t, match.ID, picks[0].ID)
		assert.Equal(t, outside.ID, picks[1].ID)
	})

	t.Run("window bounds the start time", func(t *testing.T) {
		window := &service.TimeWindow{
			From: gameTime.Add(-12 * time.Hour),
			To:   gameTime.Add(12 * time.Hour),
		}
		picks, err := repo.FindPending(ctx, "Yankees", "Red Sox", window)
		require.NoError(t, err)
		require.Len(t, picks, 1)
		assert.Equal(t, match.ID, picks[0].ID)
	})

	t.Run("no matches returns empty", func(t *testing.T) {
		picks, err := repo.FindPending(ctx, "Cubs", "Cardinals", nil)
		require.NoError(t, err)
		assert.Empty(t, picks)
	})
}

func TestPickRepository_UpdateSettlement(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPickRepository(testDB.DB)
	ctx := context.Background()

	t.Run("persists status, detail and settled-at", func(t *testing.T) {
		pick := testutil.CreateTestPick("Yankees", "Red Sox", "Yankees")
		require.NoError(t, repo.Create(ctx, pick))

		settledAt := time.Now().UTC().Truncate(time.Second)
		pick.Status = models.StatusWon
		pick.OutcomeDetail = "Red Sox 3 @ Yankees 5"
		pick.SettledAt = &settledAt

		require.NoError(t, repo.UpdateSettlement(ctx, pick))

		got, err := repo.GetByID(ctx, pick.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWon, got.Status)
		assert.Equal(t, "Red Sox 3 @ Yankees 5", got.OutcomeDetail)
		require.NotNil(t, got.SettledAt)
		assert.True(t, got.SettledAt.Equal(settledAt))
	})

	t.Run("clears settlement on undo", func(t *testing.T) {
		pick := testutil.CreateTestPick("Dodgers", "Giants", "Dodgers")
		require.NoError(t, repo.Create(ctx, pick))

		settledAt := time.Now().UTC()
		pick.Status = models.StatusLost
		pick.OutcomeDetail = "Giants 4 @ Dodgers 2"
		pick.SettledAt = &settledAt
		require.NoError(t, repo.UpdateSettlement(ctx, pick))

		pick.Status = models.StatusPending
		pick.OutcomeDetail = ""
		pick.SettledAt = nil
		require.NoError(t, repo.UpdateSettlement(ctx, pick))

		got, err := repo.GetByID(ctx, pick.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Empty(t, got.OutcomeDetail)
		assert.Nil(t, got.SettledAt)
	})

	t.Run("unknown pick errors", func(t *testing.T) {
		pick := testutil.CreateTestPick("Yankees", "Red Sox", "Yankees")
		err := repo.UpdateSettlement(ctx, pick)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestPickRepository_ListAndCount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPickRepository(testDB.DB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		pick := testutil.CreateTestPick("Yankees", "Red Sox", "Yankees")
		require.NoError(t, repo.Create(ctx, pick))
	}
	won := testutil.CreateTestPick("Mets", "Braves", "Mets")
	won.Status = models.StatusWon
	require.NoError(t, repo.Create(ctx, won))

	t.Run("list all respects limit", func(t *testing.T) {
		picks, err := repo.List(ctx, nil, 2)
		require.NoError(t, err)
		assert.Len(t, picks, 2)
	})

	t.Run("list filters by status", func(t *testing.T) {
		status := models.StatusWon
		picks, err := repo.List(ctx, &status, 10)
		require.NoError(t, err)
		require.Len(t, picks, 1)
		assert.Equal(t, won.ID, picks[0].ID)
	})

	t.Run("counts by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, counts[models.StatusPending])
		assert.Equal(t, 1, counts[models.StatusWon])
		assert.Zero(t, counts[models.StatusLost])
	})
}
