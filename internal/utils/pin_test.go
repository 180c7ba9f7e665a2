package utils

import "testing"

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 100; i++ {
		pin, err := GeneratePIN()
		if err != nil {
			t.Fatalf("GeneratePIN() error: %v", err)
		}
		if !ValidPIN(pin) {
			t.Fatalf("GeneratePIN() = %q, not a valid 4-digit PIN", pin)
		}
	}
}

func TestValidPIN(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"0000", true},
		{"1234", true},
		{"9999", true},
		{"", false},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"12.4", false},
		{"１２３４", false},
	}

	for _, tt := range tests {
		if got := ValidPIN(tt.pin); got != tt.want {
			t.Errorf("ValidPIN(%q) = %v, want %v", tt.pin, got, tt.want)
		}
	}
}
