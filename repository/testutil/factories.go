package testutil

import (
	"time"

	"picktrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestPick creates a pending moneyline pick with default values
func CreateTestPick(homeTeam, awayTeam, selection string) *models.Pick {
	return &models.Pick{
		ID:                 uuid.New(),
		Sport:              "baseball",
		League:             "MLB",
		HomeTeam:           homeTeam,
		AwayTeam:           awayTeam,
		StartTime:          time.Now().UTC().Truncate(time.Second),
		Market:             models.MarketMoneyline,
		Selection:          selection,
		Odds:               -110,
		Stake:              decimal.NewFromInt(10),
		ImpliedProbability: 110.0 / 210.0,
		ToWin:              decimal.RequireFromString("9.09"),
		Status:             models.StatusPending,
	}
}

// CreateTestSpreadPick creates a pending spread pick with the given line
func CreateTestSpreadPick(homeTeam, awayTeam, selection string, line float64) *models.Pick {
	pick := CreateTestPick(homeTeam, awayTeam, selection)
	pick.Market = models.MarketSpread
	pick.Line = &line
	return pick
}

// CreateTestTotalPick creates a pending total pick with the given line
func CreateTestTotalPick(homeTeam, awayTeam, selection string, line float64) *models.Pick {
	pick := CreateTestPick(homeTeam, awayTeam, selection)
	pick.Market = models.MarketTotal
	pick.Line = &line
	return pick
}

// CreateTestTransaction creates a ledger row tied to a pick
func CreateTestTransaction(pickID uuid.UUID, txType models.TransactionType, amount decimal.Decimal) *models.BankrollTransaction {
	return &models.BankrollTransaction{
		Type:   txType,
		Amount: amount,
		PickID: &pickID,
		Note:   "test entry",
	}
}
