package localstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// seedSnapshot returns the demo data served when no snapshot exists yet. It
// is only ever used before the first local-mode write; once a snapshot is
// durable its contents are authoritative, empty or not.
func seedSnapshot() snapshot {
	date := func(value string) time.Time {
		d, _ := time.Parse("2006-01-02", value)
		return d
	}
	return snapshot{
		Accounts: []domain.Account{
			{
				ID:           "acc-1",
				Name:         "Main Checking",
				Balance:      decimal.NewFromInt(52000),
				Institution:  "First National",
				AccountClass: "checking",
				Color:        "#006400",
			},
			{
				ID:           "acc-2",
				Name:         "Everyday Card",
				Balance:      decimal.NewFromInt(8500),
				Institution:  "Metro Bank",
				AccountClass: "digital",
				Color:        "#ff0000",
			},
		},
		Transactions: []domain.Transaction{
			{ID: "t1", AccountID: "acc-1", CategoryID: "cat-6", Amount: decimal.NewFromInt(45000), Kind: domain.KindInflow, Date: date("2024-03-01"), Note: "March salary"},
			{ID: "t2", AccountID: "acc-2", CategoryID: "cat-1", Amount: decimal.NewFromInt(150), Kind: domain.KindOutflow, Date: date("2024-03-02"), Note: "Lunch"},
			{ID: "t3", AccountID: "acc-2", CategoryID: "cat-2", Amount: decimal.NewFromInt(50), Kind: domain.KindOutflow, Date: date("2024-03-02"), Note: "Metro fare"},
			{ID: "t4", AccountID: "acc-2", CategoryID: "cat-1", Amount: decimal.NewFromInt(800), Kind: domain.KindOutflow, Date: date("2024-03-03"), Note: "Weekend dinner"},
			{ID: "t5", AccountID: "acc-1", CategoryID: "cat-7", Amount: decimal.NewFromInt(10000), Kind: domain.KindOutflow, Date: date("2024-03-04"), Note: "Monthly index fund"},
		},
		Categories: domain.DefaultCategories,
	}
}
