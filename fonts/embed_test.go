package fonts

import "testing"

func TestLoadBuiltinStyles(t *testing.T) {
	for _, path := range []string{"embed:sans/regular", "sans/bold", "mono", "embed:mono/bold-italic"} {
		data, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", path, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned empty font", path)
		}
	}
}

func TestLoadUnknownFont(t *testing.T) {
	if _, err := Load("serif/regular"); err == nil {
		t.Fatalf("expected error for unknown builtin font")
	}
}

func TestGenericFamilies(t *testing.T) {
	cases := map[string]string{
		"monospace":  "mono",
		" Monospace": "mono",
		"sans-serif": "sans",
		"serif":      "sans",
		"Arial":      "sans",
	}
	for in, want := range cases {
		if got := Generic(in); got != want {
			t.Fatalf("Generic(%q) = %q, want %q", in, got, want)
		}
	}
}
