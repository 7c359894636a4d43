package i18n_test

import (
	"path/filepath"
	"testing"

	"rehab/internal/platform/i18n"
	"rehab/internal/platform/kv"
)

func TestMatchNormalizesTags(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"en-US": "en",
		"ru":    "ru",
		"ru-RU": "ru",
		"uz":    "uz",
		"es-MX": "es",
		"fr":    "en",
		"???":   "en",
	}
	for in, want := range cases {
		if got := i18n.Match(in); got != want {
			t.Fatalf("Match(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLookupFallsBackToEnglishThenKey(t *testing.T) {
	t.Parallel()
	tr, err := i18n.New()
	if err != nil {
		t.Fatalf("new translator: %v", err)
	}
	if got := tr.T("result.phq9", "mild", 8); got != "Depression level: mild, Total score: 8" {
		t.Fatalf("unexpected english rendering: %q", got)
	}
	tr.SetLanguage("uz")
	if got := tr.T("history.empty"); got != "No assessments yet" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := tr.T("no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
}

func TestSwitchPersistsAndRestores(t *testing.T) {
	t.Parallel()
	store := kv.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	tr, err := i18n.New()
	if err != nil {
		t.Fatalf("new translator: %v", err)
	}
	lang, err := tr.Switch(store, kv.LanguageKey, "ru-RU")
	if err != nil || lang != "ru" {
		t.Fatalf("switch: lang=%q err=%v", lang, err)
	}

	fresh, _ := i18n.New()
	if err := fresh.Restore(store, kv.LanguageKey); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if fresh.Language() != "ru" {
		t.Fatalf("expected restored ru, got %q", fresh.Language())
	}
	if got := fresh.T("nav.history"); got != "История" {
		t.Fatalf("expected russian label, got %q", got)
	}
}

func TestFromYAMLRequiresEnglish(t *testing.T) {
	t.Parallel()
	if _, err := i18n.FromYAML([]byte("ru:\n  a: b\n")); err == nil {
		t.Fatalf("expected error without english section")
	}
}

func TestPersistentUseSavesLanguage(t *testing.T) {
	t.Parallel()
	store := kv.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	tr, err := i18n.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p := tr.Persist(store, kv.LanguageKey)
	lang, err := p.Use("ru-RU")
	if err != nil || lang != "ru" {
		t.Fatalf("expected ru, got %q err=%v", lang, err)
	}
	if got, _, _ := store.Get(kv.LanguageKey); got != "ru" {
		t.Fatalf("expected saved ru, got %q", got)
	}
	if p.T("nav.history") != "История" {
		t.Fatalf("expected russian label, got %q", p.T("nav.history"))
	}
}
