// SPDX-License-Identifier: MIT

package catalog

import "testing"

func TestFoldTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Halo", "halo"},
		{"trims_and_lowers", "  The Last Of Us ", "the last of us"},
		{"strips_diacritics", "Señor del Anillo", "senor del anillo"},
		{"accented_vowels", "Pokémon Edición", "pokemon edicion"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldTitle(tt.in); got != tt.want {
				t.Errorf("FoldTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFoldTitleEquivalence(t *testing.T) {
	if FoldTitle("RESEÑA") != FoldTitle("resena") {
		t.Error("expected diacritic-insensitive equality")
	}
}

func TestTitleCaseGenre(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"accion", "Accion"},
		{"ROLE PLAYING", "Role Playing"},
		{"  deportes ", "Deportes"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleCaseGenre(tt.in); got != tt.want {
			t.Errorf("TitleCaseGenre(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
