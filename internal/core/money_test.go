package core

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"-12.5", "-12.50", true},
		{" 2.50 ", "2.50", true},
		{"0", "0.00", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestParseTransactionAmount(t *testing.T) {
	if _, err := ParseTransactionAmount("0.00"); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	m, err := ParseTransactionAmount("-20")
	if err != nil || !m.IsNegative() {
		t.Fatalf("expected negative amount, got %s (%v)", m, err)
	}
}

func TestParseGoalAmount(t *testing.T) {
	for _, in := range []string{"0", "-1", "x"} {
		if _, err := ParseGoalAmount(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%q expected validation error, got %v", in, err)
		}
	}
	m, err := ParseGoalAmount("45")
	if err != nil || m.String() != "45.00" {
		t.Fatalf("expected 45.00, got %s (%v)", m, err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	total := Sum(MoneyFromCents(1000), MoneyFromCents(550), MoneyFromCents(2000))
	if total.String() != "35.50" {
		t.Fatalf("expected 35.50, got %s", total)
	}
	// 0.1 + 0.2 must stay exact
	a, _ := ParseMoney("0.1")
	b, _ := ParseMoney("0.2")
	c, _ := ParseMoney("0.3")
	if !a.Add(b).Equal(c) {
		t.Fatalf("expected exact decimal addition")
	}
	r, _ := ParseMoney("2.345")
	if r.Round2().String() != "2.35" {
		t.Fatalf("expected half-up rounding, got %s", r.Round2())
	}
	if MoneyFromCents(4500).Sub(MoneyFromCents(2000)).String() != "25.00" {
		t.Fatalf("unexpected subtraction result")
	}
}
