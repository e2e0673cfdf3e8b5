package parser

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"250,00", 250.00, true},
		{"1250,00", 1250.00, true},
		{"25.99", 25.99, true},
		{"-1.000,00", -1000.00, true},
		{"-$ 1.000,00", -1000.00, true},
		{"$ 0,50", 0.50, true},
		{"1.234.567,89", 1234567.89, true},
		// A comma is always decimal when it is the only separator kind;
		// a lone dot with three trailing digits is a thousands group.
		{"1,234", 1.23, true},
		{"0,5", 0.50, true},
		{"1.234", 1234, true},
		{"", 0, false},
		{"-", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAmount(%q): ok=%v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParseAmount(%q): got %f, want %f", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMoneyTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"15/01/24 TRANSFERENCIA RECIBIDA 250,00 1250,00", []string{"250,00", "1250,00"}},
		{"SALDO FINAL 1.248,00", []string{"1.248,00"}},
		{"IMPUESTO LEY 25413", nil},
		{"sin importes", nil},
	}

	for _, tt := range tests {
		got := MoneyTokens(tt.input)
		if len(got) != len(tt.expected) {
			t.Fatalf("MoneyTokens(%q): got %v, want %v", tt.input, got, tt.expected)
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("MoneyTokens(%q)[%d]: got %q, want %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		ok       bool
	}{
		{"15/01/24", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"31/12/23", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"99/99/99", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.input)
		if ok != tt.ok {
			t.Fatalf("ParseDate(%q): ok=%v, want %v", tt.input, ok, tt.ok)
		}
		if ok && !got.Equal(tt.expected) {
			t.Errorf("ParseDate(%q): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestStartsWithDate(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"15/01/24 TRANSFERENCIA", true},
		{"  15/01/2024 PAGO", true},
		{"TRANSFERENCIA 15/01/24", false},
		{"sin fecha", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := StartsWithDate(tt.input); got != tt.expected {
			t.Errorf("StartsWithDate(%q): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestStripTokens(t *testing.T) {
	got := StripTokens("15/01/24 TRANSFERENCIA RECIBIDA 250,00 1250,00")
	if got != "TRANSFERENCIA RECIBIDA" {
		t.Errorf("got %q, want %q", got, "TRANSFERENCIA RECIBIDA")
	}
}
