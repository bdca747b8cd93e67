package news

import "testing"

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"abc", 5},
		{"3.5", 5},
		{"3", 3},
		{" 7 ", 7},
		{"0", 1},
		{"-4", 1},
		{"11", 10},
		{"1000", 10},
		{"1", 1},
		{"10", 10},
		{"99999999999999999999", 10},
		{"+99999999999999999999", 10},
		{"-99999999999999999999", 1},
	}

	for _, tt := range tests {
		if got := ParseDisplay(tt.raw); got != tt.want {
			t.Errorf("ParseDisplay(%q) = %d, expected %d", tt.raw, got, tt.want)
		}
	}
}
