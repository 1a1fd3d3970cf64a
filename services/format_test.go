package services

import "testing"

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"small", 12.5, "$12.50"},
		{"hundreds", 150, "$150.00"},
		{"thousands", 1612.50, "$1,612.50"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"negative", -300, "-$300.00"},
		{"rounds half up", 0.005, "$0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatUSD(tt.amount)
			if got != tt.expect {
				t.Errorf("FormatUSD(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		qty    float64
		expect string
	}{
		{525, "525"},
		{2, "2"},
		{12.5, "12.50"},
		{0.25, "0.25"},
		{0, "0"},
	}

	for _, tt := range tests {
		got := FormatQty(tt.qty)
		if got != tt.expect {
			t.Errorf("FormatQty(%v) = %q, want %q", tt.qty, got, tt.expect)
		}
	}
}

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "Zero Dollars Only"},
		{"single digit", 7, "Seven Dollars Only"},
		{"teens", 15, "Fifteen Dollars Only"},
		{"tens with ones", 42, "Forty Two Dollars Only"},
		{"hundred and", 112, "One Hundred and Twelve Dollars Only"},
		{"thousand", 1612.50, "One Thousand Six Hundred and Thirteen Dollars Only"},
		{"even thousand", 5000, "Five Thousand Dollars Only"},
		{"million", 2500000, "Two Million Five Hundred Thousand Dollars Only"},
		{"rounds cents", 99.49, "Ninety Nine Dollars Only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountToWords(tt.amount)
			if got != tt.expect {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}
