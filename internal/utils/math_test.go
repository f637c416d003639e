package utils

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(3, 0.2, 2); got != 2 {
		t.Fatalf("got %v want 2", got)
	}
	if got := Clamp(0.1, 0.2, 2); got != 0.2 {
		t.Fatalf("got %v want 0.2", got)
	}
	if got := Clamp(1.3, 0.2, 2); got != 1.3 {
		t.Fatalf("got %v want 1.3", got)
	}
}

func TestCapitalize(t *testing.T) {
	for in, want := range map[string]string{"trigger": "Trigger", "": "", "Action": "Action", "9x": "9x"} {
		if got := Capitalize(in); got != want {
			t.Fatalf("Capitalize(%q)=%q want %q", in, got, want)
		}
	}
}

func TestRoundPercent(t *testing.T) {
	if got := RoundPercent(1.2000000000000002); got != 120 {
		t.Fatalf("got %d want 120", got)
	}
}
