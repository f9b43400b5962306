package format

import (
	"math"
	"testing"
	"time"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{150000, "₹1,50,000"},
		{123456.5, "₹1,23,456.50"},
		{-2500, "-₹2,500"},
		{math.NaN(), "₹0"},
		{math.Inf(1), "₹0"},
	}
	for _, tc := range cases {
		if got := Price(tc.in); got != tc.want {
			t.Errorf("Price(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPriceMinor(t *testing.T) {
	if got := PriceMinor(49900); got != "₹499" {
		t.Fatalf("PriceMinor(49900) = %q", got)
	}
	if got := PriceMinor(49950); got != "₹499.50" {
		t.Fatalf("PriceMinor(49950) = %q", got)
	}
}

func TestCurrency(t *testing.T) {
	if got := Currency(49900, "INR"); got != "₹499" {
		t.Errorf("INR = %q", got)
	}
	if got := Currency(49900, ""); got != "₹499" {
		t.Errorf("default = %q", got)
	}
	if got := Currency(123450, "USD"); got != "$1,234.50" {
		t.Errorf("USD = %q", got)
	}
	if got := Currency(-123450, "USD"); got != "-$1,234.50" {
		t.Errorf("negative USD = %q", got)
	}
	if got := Currency(500, "JPY"); got != "JPY 500" {
		t.Errorf("JPY = %q", got)
	}
}

func TestCompactPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{500, "₹500"},
		{1500, "₹1.5K"},
		{2000, "₹2K"},
		{250000, "₹2.5L"},
		{30000000, "₹3Cr"},
		{math.NaN(), "₹0"},
	}
	for _, tc := range cases {
		if got := CompactPrice(tc.in); got != tc.want {
			t.Errorf("CompactPrice(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	if got := Date(ts); got != "7 Mar 2026" {
		t.Fatalf("Date = %q", got)
	}
	if got := Date(time.Time{}); got != "" {
		t.Fatalf("zero date = %q", got)
	}
}
