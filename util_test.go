package main

import (
	"regexp"
	"testing"
)

func TestGenerateID(t *testing.T) {
	hexRe := regexp.MustCompile(`^[0-9a-f]+$`)

	id := GenerateID(4)
	if len(id) != 8 {
		t.Errorf("GenerateID(4) length = %d, want 8", len(id))
	}
	if !hexRe.MatchString(id) {
		t.Errorf("GenerateID(4) = %q, want lowercase hex", id)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID(4)
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}

func TestGenerateRoomCode(t *testing.T) {
	codeRe := regexp.MustCompile(`^[A-Z2-9]{5}$`)
	for i := 0; i < 50; i++ {
		code := GenerateRoomCode(5)
		if !codeRe.MatchString(code) {
			t.Fatalf("room code %q does not match expected format", code)
		}
		// Ambiguous glyphs are excluded from the alphabet
		for _, c := range code {
			switch c {
			case 'I', 'O', '0', '1':
				t.Fatalf("room code %q contains ambiguous glyph %q", code, c)
			}
		}
	}
}

func TestNormalizeDeg(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{359, 359},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
	}
	for _, tc := range cases {
		if got := NormalizeDeg(tc.in); got != tc.want {
			t.Errorf("NormalizeDeg(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %v, want 5", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %v, want 0", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11,0,10) = %v, want 10", got)
	}
}

func TestRandFloatRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := randFloat()
		if v < 0 || v >= 1 {
			t.Fatalf("randFloat() = %v, want [0, 1)", v)
		}
	}
}
