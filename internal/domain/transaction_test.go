package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionKind_Valid(t *testing.T) {
	tests := []struct {
		kind  TransactionKind
		valid bool
	}{
		{KindInflow, true},
		{KindOutflow, true},
		{"TRANSFER", false},
		{"inflow", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.valid {
			t.Errorf("Kind %q: expected valid=%v, got %v", tt.kind, tt.valid, got)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	inflow := Transaction{Amount: decimal.NewFromInt(250), Kind: KindInflow}
	if !inflow.SignedAmount().Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected +250, got %s", inflow.SignedAmount().String())
	}

	outflow := Transaction{Amount: decimal.NewFromInt(250), Kind: KindOutflow}
	if !outflow.SignedAmount().Equal(decimal.NewFromInt(-250)) {
		t.Errorf("Expected -250, got %s", outflow.SignedAmount().String())
	}
}

func TestAccount_ApplyDeltaDoesNotMutateReceiver(t *testing.T) {
	account := Account{ID: "a", Balance: decimal.NewFromInt(100)}
	adjusted := account.ApplyDelta(decimal.NewFromInt(-30))

	if !adjusted.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Expected 70, got %s", adjusted.Balance.String())
	}
	if !account.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected the receiver untouched at 100, got %s", account.Balance.String())
	}
}

func TestSession_DefaultMode(t *testing.T) {
	if mode := (Session{}).DefaultMode(); mode != ModeLocal {
		t.Errorf("Expected anonymous sessions to default to local, got %s", mode)
	}
	if mode := (Session{OwnerID: "auth0|u1"}).DefaultMode(); mode != ModeRemote {
		t.Errorf("Expected authenticated sessions to default to remote, got %s", mode)
	}
}
