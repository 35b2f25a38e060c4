package cards

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Lightning Bolt", "lightning bolt"},
		{"collapses whitespace", "Lightning   Bolt", "lightning bolt"},
		{"trims", "  Shock \t", "shock"},
		{"tabs and newlines", "Young\tPyromancer", "young pyromancer"},
		{"empty", "", ""},
		{"nfkc fullwidth", "Ｌightning Bolt", "lightning bolt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Lightning   Bolt",
		"  MONASTERY swiftspear ",
		"Fable of the Mirror-Breaker",
		"Ajani, Nacatl Pariah",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
