package identity

import "testing"

func TestNew_TrimsAndBuildsKey(t *testing.T) {
	k, ok := New("owner-1", "  Rosie ", " Grammostola rosea ")
	if !ok {
		t.Fatalf("expected key")
	}
	if got, want := k.String(), "owner-1::Rosie::Grammostola rosea"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if got, want := k.CoverKey().String(), "owner-1::Rosie"; got != want {
		t.Fatalf("cover key = %q, want %q", got, want)
	}
}

func TestNew_EmptySpeciesLeavesEmptySegment(t *testing.T) {
	k, ok := New("o", "Luna", "   ")
	if !ok {
		t.Fatalf("expected key")
	}
	if got, want := k.String(), "o::Luna::"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

func TestNew_UnnamedIsSkipped(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, ok := New("o", name, "sp"); ok {
			t.Fatalf("expected %q to be skipped", name)
		}
	}
}

func TestNew_PreservesCase(t *testing.T) {
	a, _ := New("o", "rosie", "")
	b, _ := New("o", "Rosie", "")
	if a.String() == b.String() {
		t.Fatalf("keys must preserve case: %q", a.String())
	}
}

func TestMatchName(t *testing.T) {
	cases := []struct {
		stored, wanted string
		want           bool
	}{
		{"Rosie", "rosie", true},
		{"ROSIE", " Rosie ", true},
		{"Rosie ", "rosie", true},
		{"  ", " ", false},
		{"Rosie Jr", "Rosie", false},
		{"Rosie", "Ros.e", false},
		{"", "", false},
	}
	for _, c := range cases {
		if got := MatchName(c.stored, c.wanted); got != c.want {
			t.Fatalf("MatchName(%q, %q) = %v, want %v", c.stored, c.wanted, got, c.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("  "); got != Unnamed {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName(" Luna "); got != "Luna" {
		t.Fatalf("got %q", got)
	}
}
