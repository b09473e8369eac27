package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEqualSplit(t *testing.T) {
	cases := []struct {
		name  string
		total string
		n     int
		want  []string
	}{
		{"even division", "90.00", 3, []string{"30", "30", "30"}},
		{"remainder to earliest members", "100.00", 3, []string{"33.34", "33.33", "33.33"}},
		{"two cents remainder", "0.05", 3, []string{"0.02", "0.02", "0.01"}},
		{"single member", "42.42", 1, []string{"42.42"}},
		{"negative total", "-100.00", 3, []string{"-33.34", "-33.33", "-33.33"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EqualSplit(dec(tc.total), tc.n)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d shares, want %d", len(got), len(tc.want))
			}

			sum := decimal.Zero
			for i, share := range got {
				assertEq(t, "share", share, dec(tc.want[i]))
				sum = sum.Add(share)
			}
			assertEq(t, "sum of shares", sum, dec(tc.total))
		})
	}
}

func TestEqualSplitInvalidCount(t *testing.T) {
	if got := EqualSplit(dec("10"), 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
	if got := EqualSplit(dec("10"), -2); got != nil {
		t.Errorf("expected nil for negative n, got %v", got)
	}
}
