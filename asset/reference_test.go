package asset

import "testing"

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"rusty_metal", "rusty_metal"},
		{"Rusty Metal!!!", "rusty_metal___"},
		{"  Chair-01  ", "chair-01"},
		{"UPPER", "upper"},
		{"snake_case-ok123", "snake_case-ok123"},
		{"", ""},
		{"   ", ""},
		{"\t\n", ""},
	}
	for _, c := range cases {
		if got := SanitizeName(c.in); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeNameIdempotent(t *testing.T) {
	names := []string{"Rusty Metal!!!", "Chair 02", "weird/name\\here"}
	for _, name := range names {
		once := SanitizeName(name)
		if twice := SanitizeName(once); twice != once {
			t.Errorf("sanitizing %q twice gave %q, want %q", name, twice, once)
		}
	}
}

func TestDeriveReference(t *testing.T) {
	ref, ok := DeriveReference(CategoryMaterials, 42, "Rusty Metal")
	if !ok {
		t.Fatal("expected a reference")
	}
	if ref != "quoll://materials/42/rusty_metal" {
		t.Errorf("unexpected reference %q", ref)
	}

	again, _ := DeriveReference(CategoryMaterials, 42, "Rusty Metal")
	if again != ref {
		t.Error("equal inputs must produce equal references")
	}
}

func TestDeriveReferenceEmptyName(t *testing.T) {
	if _, ok := DeriveReference(CategoryMeshes, 1, "   "); ok {
		t.Error("whitespace name must not produce a reference")
	}
	if _, ok := DeriveReference(CategoryMeshes, 1, ""); ok {
		t.Error("empty name must not produce a reference")
	}
}
