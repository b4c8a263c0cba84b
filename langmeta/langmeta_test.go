package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pt_br", want: "pt-BR"},
		{in: " EN-us ", want: "en-US"},
		{in: "zh_hant", want: "zh-HANT"},
		{in: "ru", want: "ru"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		got := Resolve("de")
		if got.Name != "German" || got.Native != "Deutsch" || got.Code != "de" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("normalized match", func(t *testing.T) {
		got := Resolve("zh_HANT")
		if got.Name != "Chinese (Traditional)" || got.Code != "zh_HANT" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("base fallback", func(t *testing.T) {
		got := Resolve("fr-LU")
		if got.Name != "French" || got.Code != "fr" {
			t.Fatalf("unexpected fallback result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz-ZZ")
		if got.Name != "zz-ZZ" || got.Code != "zz-ZZ" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestKnownAndLabel(t *testing.T) {
	if !Known("pt_BR") {
		t.Error("Known(pt_BR) = false")
	}
	if Known("xx") {
		t.Error("Known(xx) = true")
	}
	if got := Label("es"); got != "es (Spanish)" {
		t.Errorf("Label(es) = %q", got)
	}
	if got := Label("xx"); got != "xx" {
		t.Errorf("Label(xx) = %q", got)
	}
}

func TestCodes(t *testing.T) {
	codes := Codes()
	if len(codes) != len(Registry) {
		t.Fatalf("Codes() len = %d, want %d", len(codes), len(Registry))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("Codes() not sorted at %d: %q > %q", i, codes[i-1], codes[i])
		}
	}
}
