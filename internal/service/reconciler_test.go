package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hweliang/finbook-backend/internal/domain"
	"github.com/hweliang/finbook-backend/internal/gateway"
	"github.com/hweliang/finbook-backend/internal/testutil"
)

func newLocalFixture() (*Reconciler, *testutil.MockStore) {
	store := testutil.NewMockStore()
	gw := gateway.New(store, nil)
	return NewReconciler(gw), store
}

func demoSession() domain.Session {
	return domain.Session{}
}

func txDate() time.Time {
	d, _ := time.Parse("2006-01-02", "2024-03-15")
	return d
}

func findAccount(t *testing.T, accounts []domain.Account, id string) domain.Account {
	t.Helper()
	for _, account := range accounts {
		if account.ID == id {
			return account
		}
	}
	t.Fatalf("Account %s not in result", id)
	return domain.Account{}
}

func TestCreate_AdjustsBalanceAndPersistsTransaction(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(1000)})

	result, err := reconciler.Create(context.Background(), demoSession(), domain.ModeLocal, domain.Transaction{
		AccountID:  account.ID,
		CategoryID: "cat-1",
		Amount:     decimal.NewFromInt(200),
		Kind:       domain.KindOutflow,
		Date:       txDate(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := findAccount(t, result.Accounts, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected balance 800, got %s", got.Balance.String())
	}

	if len(result.Transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(result.Transactions))
	}
	if result.Transactions[0].ID == "" {
		t.Error("Expected a stable id on the persisted transaction")
	}
	if !result.Transactions[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected amount 200, got %s", result.Transactions[0].Amount.String())
	}
}

func TestCreate_InflowAddsToBalance(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(100)})

	result, err := reconciler.Create(context.Background(), demoSession(), domain.ModeLocal, domain.Transaction{
		AccountID:  account.ID,
		CategoryID: "cat-6",
		Amount:     decimal.NewFromInt(50),
		Kind:       domain.KindInflow,
		Date:       txDate(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := findAccount(t, result.Accounts, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected balance 150, got %s", got.Balance.String())
	}
}

func TestCreate_UnknownAccount(t *testing.T) {
	reconciler, _ := newLocalFixture()

	_, err := reconciler.Create(context.Background(), demoSession(), domain.ModeLocal, domain.Transaction{
		AccountID:  "missing",
		CategoryID: "cat-1",
		Amount:     decimal.NewFromInt(10),
		Kind:       domain.KindOutflow,
		Date:       txDate(),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(100)})

	tests := []struct {
		name        string
		transaction domain.Transaction
		expected    error
	}{
		{
			name: "negative amount",
			transaction: domain.Transaction{
				AccountID: account.ID, CategoryID: "cat-1",
				Amount: decimal.NewFromInt(-5), Kind: domain.KindOutflow, Date: txDate(),
			},
			expected: domain.ErrInvalidAmount,
		},
		{
			name: "invalid kind",
			transaction: domain.Transaction{
				AccountID: account.ID, CategoryID: "cat-1",
				Amount: decimal.NewFromInt(5), Kind: "TRANSFER", Date: txDate(),
			},
			expected: domain.ErrInvalidKind,
		},
		{
			name: "unknown category",
			transaction: domain.Transaction{
				AccountID: account.ID, CategoryID: "cat-999",
				Amount: decimal.NewFromInt(5), Kind: domain.KindOutflow, Date: txDate(),
			},
			expected: domain.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconciler.Create(context.Background(), demoSession(), domain.ModeLocal, tt.transaction)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestEdit_SameAccount(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(1000)})

	created, err := reconciler.Create(context.Background(), demoSession(), domain.ModeLocal, domain.Transaction{
		AccountID:  account.ID,
		CategoryID: "cat-1",
		Amount:     decimal.NewFromInt(200),
		Kind:       domain.KindOutflow,
		Date:       txDate(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Balance is now 800.

	updated := created.Transactions[0]
	updated.Amount = decimal.NewFromInt(300)
	updated.Kind = domain.KindInflow

	result, err := reconciler.Edit(context.Background(), demoSession(), domain.ModeLocal, updated)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 800 reversed by +200 = 1000, then +300 applied = 1300. Applying the
	// new delta to a pre-reversal snapshot would have produced 1100.
	got := findAccount(t, result.Accounts, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("Expected balance 1300, got %s", got.Balance.String())
	}

	if len(result.Transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(result.Transactions))
	}
	if result.Transactions[0].ID != updated.ID {
		t.Errorf("Expected the replacement to keep id %s, got %s", updated.ID, result.Transactions[0].ID)
	}
	if result.Transactions[0].Kind != domain.KindInflow {
		t.Errorf("Expected kind INFLOW, got %s", result.Transactions[0].Kind)
	}
}

func TestEdit_AcrossAccounts(t *testing.T) {
	reconciler, store := newLocalFixture()
	accountA := store.SeedAccount("", domain.Account{Name: "A", Balance: decimal.NewFromInt(500)})
	accountB := store.SeedAccount("", domain.Account{Name: "B", Balance: decimal.NewFromInt(2000)})
	transaction := store.SeedTransaction("", domain.Transaction{
		AccountID:  accountA.ID,
		CategoryID: "cat-1",
		Amount:     decimal.NewFromInt(200),
		Kind:       domain.KindOutflow,
		Date:       txDate(),
	})

	updated := transaction
	updated.AccountID = accountB.ID
	updated.Amount = decimal.NewFromInt(150)

	result, err := reconciler.Edit(context.Background(), demoSession(), domain.ModeLocal, updated)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A gets the reversal only, B the application only.
	gotA := findAccount(t, result.Accounts, accountA.ID)
	if !gotA.Balance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected A balance 700, got %s", gotA.Balance.String())
	}
	gotB := findAccount(t, result.Accounts, accountB.ID)
	if !gotB.Balance.Equal(decimal.NewFromInt(1850)) {
		t.Errorf("Expected B balance 1850, got %s", gotB.Balance.String())
	}
}

func TestEdit_UnknownTransaction(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(100)})

	_, err := reconciler.Edit(context.Background(), demoSession(), domain.ModeLocal, domain.Transaction{
		ID:         "missing",
		AccountID:  account.ID,
		CategoryID: "cat-1",
		Amount:     decimal.NewFromInt(5),
		Kind:       domain.KindOutflow,
		Date:       txDate(),
		Persisted:  true,
	})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDelete_ReversesBalance(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(1300)})
	transaction := store.SeedTransaction("", domain.Transaction{
		AccountID:  account.ID,
		CategoryID: "cat-6",
		Amount:     decimal.NewFromInt(300),
		Kind:       domain.KindInflow,
		Date:       txDate(),
	})

	result, err := reconciler.Delete(context.Background(), demoSession(), domain.ModeLocal, transaction.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := findAccount(t, result.Accounts, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected balance 1000, got %s", got.Balance.String())
	}
	if len(result.Transactions) != 0 {
		t.Errorf("Expected no transactions left, got %d", len(result.Transactions))
	}

	// Repeating the delete is a no-op on balances and on the list.
	again, err := reconciler.Delete(context.Background(), demoSession(), domain.ModeLocal, transaction.ID)
	if err != nil {
		t.Fatalf("Expected no error on repeated delete, got %v", err)
	}
	got = findAccount(t, again.Accounts, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected balance unchanged at 1000, got %s", got.Balance.String())
	}
	if len(again.Transactions) != 0 {
		t.Errorf("Expected no transactions, got %d", len(again.Transactions))
	}
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	reconciler, store := newLocalFixture()
	store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(42)})

	result, err := reconciler.Delete(context.Background(), demoSession(), domain.ModeLocal, "never-existed")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(result.Accounts))
	}
	if !result.Accounts[0].Balance.Equal(decimal.NewFromInt(42)) {
		t.Errorf("Expected balance untouched at 42, got %s", result.Accounts[0].Balance.String())
	}
}

func TestCreate_TransactionWriteFailureResynchronizes(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(1000)})
	store.InsertTransactionErr = errors.New("store down")

	result, err := reconciler.Create(context.Background(), demoSession(), domain.ModeLocal, domain.Transaction{
		AccountID:  account.ID,
		CategoryID: "cat-1",
		Amount:     decimal.NewFromInt(200),
		Kind:       domain.KindOutflow,
		Date:       txDate(),
	})
	if err == nil {
		t.Fatal("Expected an error")
	}
	if result == nil {
		t.Fatal("Expected the reloaded authoritative state alongside the error")
	}

	// The account write completed before the transaction write failed, and
	// recovery is resynchronization rather than rollback: the reloaded
	// state reflects the already-adjusted balance with no matching
	// transaction. This is the documented invariant gap of the multi-step
	// sequence.
	got := findAccount(t, result.Accounts, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected reloaded balance 800, got %s", got.Balance.String())
	}
	if len(result.Transactions) != 0 {
		t.Errorf("Expected no transactions after failed insert, got %d", len(result.Transactions))
	}
}

func TestDelete_RecordDeleteFailureResynchronizes(t *testing.T) {
	reconciler, store := newLocalFixture()
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: decimal.NewFromInt(500)})
	transaction := store.SeedTransaction("", domain.Transaction{
		AccountID:  account.ID,
		CategoryID: "cat-1",
		Amount:     decimal.NewFromInt(100),
		Kind:       domain.KindOutflow,
		Date:       txDate(),
	})
	store.DeleteTransactionErr = errors.New("store down")

	result, err := reconciler.Delete(context.Background(), demoSession(), domain.ModeLocal, transaction.ID)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if result == nil {
		t.Fatal("Expected the reloaded authoritative state alongside the error")
	}

	// Reversal happened, record removal did not.
	got := findAccount(t, result.Accounts, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected reloaded balance 600, got %s", got.Balance.String())
	}
	if len(result.Transactions) != 1 {
		t.Errorf("Expected the transaction still present, got %d", len(result.Transactions))
	}
}

// The balance invariant: after any sequence of creates, edits and deletes,
// balance == initialBalance + sum of signed amounts of the transactions
// currently attributed to the account.
func TestMutationSequence_BalanceInvariantHolds(t *testing.T) {
	reconciler, store := newLocalFixture()
	ctx := context.Background()
	sess := demoSession()

	initial := decimal.NewFromInt(1000)
	account := store.SeedAccount("", domain.Account{Name: "Checking", Balance: initial})

	mk := func(amount int64, kind domain.TransactionKind) domain.Transaction {
		return domain.Transaction{
			AccountID:  account.ID,
			CategoryID: "cat-8",
			Amount:     decimal.NewFromInt(amount),
			Kind:       kind,
			Date:       txDate(),
		}
	}

	var last *MutationResult
	var err error
	for _, transaction := range []domain.Transaction{
		mk(250, domain.KindOutflow),
		mk(4000, domain.KindInflow),
		mk(125, domain.KindOutflow),
	} {
		last, err = reconciler.Create(ctx, sess, domain.ModeLocal, transaction)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Edit the first transaction, delete the second.
	edited := last.Transactions[0]
	edited.Amount = decimal.NewFromInt(75)
	edited.Kind = domain.KindInflow
	if last, err = reconciler.Edit(ctx, sess, domain.ModeLocal, edited); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if last, err = reconciler.Delete(ctx, sess, domain.ModeLocal, last.Transactions[1].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	sum := decimal.Zero
	for _, transaction := range last.Transactions {
		sum = sum.Add(transaction.SignedAmount())
	}

	got := findAccount(t, last.Accounts, account.ID)
	want := initial.Add(sum)
	if !got.Balance.Equal(want) {
		t.Errorf("Invariant broken: balance %s, initial+sum %s", got.Balance.String(), want.String())
	}
}
