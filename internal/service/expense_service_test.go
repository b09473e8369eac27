package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildSharesEqualSplit(t *testing.T) {
	members := []ExpenseMemberInput{
		{UserID: uuid.New().String()},
		{UserID: uuid.New().String()},
		{UserID: uuid.New().String()},
	}

	shares, err := buildShares(decimal.NewFromInt(100), members)
	if err != nil {
		t.Fatalf("buildShares: %v", err)
	}

	want := []string{"33.34", "33.33", "33.33"}
	sum := decimal.Zero
	for i, s := range shares {
		if got := s.Share.StringFixed(2); got != want[i] {
			t.Errorf("share[%d] = %s, want %s", i, got, want[i])
		}
		sum = sum.Add(s.Share)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		t.Errorf("shares sum to %s, want 100", sum)
	}
}

func TestBuildSharesExplicit(t *testing.T) {
	members := []ExpenseMemberInput{
		{UserID: uuid.New().String(), Share: "60.00"},
		{UserID: uuid.New().String(), Share: "40.00"},
	}

	shares, err := buildShares(decimal.NewFromInt(100), members)
	if err != nil {
		t.Fatalf("buildShares: %v", err)
	}
	if shares[0].Share.StringFixed(2) != "60.00" || shares[1].Share.StringFixed(2) != "40.00" {
		t.Errorf("shares = %s, %s", shares[0].Share, shares[1].Share)
	}
}

func TestBuildSharesExplicitMismatchFails(t *testing.T) {
	members := []ExpenseMemberInput{
		{UserID: uuid.New().String(), Share: "60.00"},
		{UserID: uuid.New().String(), Share: "30.00"},
	}

	if _, err := buildShares(decimal.NewFromInt(100), members); err == nil {
		t.Fatal("expected error for shares not summing to amount")
	}
}

func TestBuildSharesInvalidUserID(t *testing.T) {
	members := []ExpenseMemberInput{{UserID: "not-a-uuid"}}
	if _, err := buildShares(decimal.NewFromInt(10), members); err == nil {
		t.Fatal("expected error for invalid user id")
	}
}
