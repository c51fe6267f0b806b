package games

import "testing"

func TestByName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"bubbles", "bubbles"},
		{"letters", "letters"},
		{"trail", "trail"},
		{"", "bubbles"},
		{"unknown", "bubbles"},
	}
	for _, testCase := range cases {
		if got := ByName(testCase.name).Name(); got != testCase.want {
			t.Errorf("ByName(%q).Name() = %q, want %q", testCase.name, got, testCase.want)
		}
	}
}

func TestDisplayGlyph(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"a", "A"},
		{"Z", "Z"},
		{"7", "7"},
		{"ArrowUp", "↑"},
		{"ArrowRight", "→"},
		{"Space", "☁"},
		{"Enter", "★"},
		{"Control", "♪"},
		{"Escape", "♪"},
	}
	for _, testCase := range cases {
		if got := displayGlyph(testCase.key); got != testCase.want {
			t.Errorf("displayGlyph(%q) = %q, want %q", testCase.key, got, testCase.want)
		}
	}
}
