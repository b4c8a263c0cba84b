package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func TestDetectLanguagePriorityAndNormalization(t *testing.T) {
	t.Run("LANGUAGE has highest priority", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "ru_RU.UTF-8:en_US")
		t.Setenv("LC_ALL", "de_DE.UTF-8")

		if got := detectLanguage(); got != "ru_RU" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "ru_RU")
		}
	})

	t.Run("C and POSIX are skipped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "C")
		t.Setenv("LC_ALL", "POSIX")
		t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")

		if got := detectLanguage(); got != "fr_FR" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "fr_FR")
		}
	})

	t.Run("modifier is stripped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANG", "de_DE.UTF-8@euro")

		if got := detectLanguage(); got != "de_DE" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "de_DE")
		}
	})

	t.Run("falls back to en", func(t *testing.T) {
		clearLocaleEnv(t)
		if got := detectLanguage(); got != "en" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "en")
		}
	})
}

func TestTAndNFallbackWhenUninitialized(t *testing.T) {
	old := po
	po = nil
	t.Cleanup(func() { po = old })

	if got := T("Hello"); got != "Hello" {
		t.Fatalf("T fallback = %q, want %q", got, "Hello")
	}

	if got := N("file", "files", 1); got != "file" {
		t.Fatalf("N singular fallback = %q, want %q", got, "file")
	}

	if got := N("file", "files", 2); got != "files" {
		t.Fatalf("N plural fallback = %q, want %q", got, "files")
	}
}

func TestInitLoadsEmbeddedCatalog(t *testing.T) {
	oldPo, oldLang := po, lang
	t.Cleanup(func() { po, lang = oldPo, oldLang })

	Init("ru_RU")
	if Language() != "ru_RU" {
		t.Fatalf("Language() = %q, want %q", Language(), "ru_RU")
	}
	if got := T("Summary"); got != "Итоги" {
		t.Fatalf("T(Summary) = %q, want %q", got, "Итоги")
	}
	if got := N("Removed %d cached translation", "Removed %d cached translations", 5); got != "Удалено %d сохранённых переводов" {
		t.Fatalf("N(5) = %q", got)
	}
	if got := Tf("Created %s", "lingokit.yaml"); got != "Создан lingokit.yaml" {
		t.Fatalf("Tf() = %q", got)
	}

	Init("de")
	if got := T("Summary"); got != "Zusammenfassung" {
		t.Fatalf("T(Summary) = %q, want %q", got, "Zusammenfassung")
	}
	if got := T("100% done"); got != "100% done" {
		t.Fatalf("T() with a percent sign = %q, want it unchanged", got)
	}
	if got := T("Cache directory"); got != "Cache directory" {
		t.Fatalf("untranslated T() = %q, want passthrough", got)
	}

	Init("xx")
	if got := T("Summary"); got != "Summary" {
		t.Fatalf("T(Summary) without catalog = %q", got)
	}
}
