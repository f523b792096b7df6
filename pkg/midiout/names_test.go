package midiout

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Grand Piano", want: "GrandPiano"},
		{name: "punctuation stripped", in: "My Song! (v2)", want: "MySongv2"},
		{name: "kept characters", in: "a.b_c-d", want: "a.b_c-d"},
		{name: "empty", in: "", want: ""},
		{name: "capped at 24 runes", in: "abcdefghijklmnopqrstuvwxyz", want: "abcdefghijklmnopqrstuvwx"},
		{name: "unicode letters survive", in: "Stück", want: "Stück"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.in); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanName_NormalisesComposition(t *testing.T) {
	composed := "Café"
	decomposed := "Cafe\u0301"
	if CleanName(composed) != CleanName(decomposed) {
		t.Errorf("composed %q and decomposed %q disagree", CleanName(composed), CleanName(decomposed))
	}
}

func TestNoteName(t *testing.T) {
	opts := Options{RenameTracks: true, TrackMap: DefaultTrackMap}
	if got := opts.NoteName(38); got != "Snare" {
		t.Errorf("NoteName(38) = %q, want Snare", got)
	}
	if got := opts.NoteName(127); got != "127" {
		t.Errorf("NoteName(127) = %q, want the note number", got)
	}

	plain := Options{RenameTracks: false, TrackMap: DefaultTrackMap}
	if got := plain.NoteName(38); got != "38" {
		t.Errorf("NoteName(38) without renaming = %q, want 38", got)
	}
}
