package slug

import "testing"

func TestGenerate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Corp!", "acme-corp"},
		{"special chars stripped", "Hello, World & Co.", "hello-world-co"},
		{"collapse hyphens", "a --- b", "a-b"},
		{"trim hyphens", "-acme-", "acme"},
		{"multiple spaces", "big   blue   box", "big-blue-box"},
		{"already valid", "acme-corp", "acme-corp"},
		{"empty", "", ""},
		{"only specials", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Generate(tc.in); got != tc.want {
				t.Fatalf("Generate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// Derivation must be idempotent and its output must always satisfy the
// slug charset with no leading/trailing/double hyphens.
func TestGenerateIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Corp!", "  spaces  everywhere  ", "UPPER case", "汉字 name", "a-b-c",
		"trailing-", "-leading", "double--hyphen", "mix 3D & 2D",
	}
	for _, in := range inputs {
		once := Generate(in)
		twice := Generate(once)
		if once != twice {
			t.Fatalf("Generate not idempotent for %q: %q != %q", in, once, twice)
		}
		if once == "" {
			continue
		}
		if !IsValid(once) {
			t.Fatalf("Generate(%q) = %q violates slug charset", in, once)
		}
		if once[0] == '-' || once[len(once)-1] == '-' {
			t.Fatalf("Generate(%q) = %q has leading/trailing hyphen", in, once)
		}
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{"acme", "acme-corp", "a1-b2"}
	invalid := []string{"", "Acme", "acme corp", "acme_corp", "acme!"}
	for _, s := range valid {
		if !IsValid(s) {
			t.Fatalf("IsValid(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValid(s) {
			t.Fatalf("IsValid(%q) = true, want false", s)
		}
	}
}
