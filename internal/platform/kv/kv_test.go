package kv_test

import (
	"os"
	"path/filepath"
	"testing"

	"rehab/internal/platform/kv"
)

func TestSetGetDeleteSurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := kv.NewFileStore(path)

	if _, ok, err := store.Get(kv.TokenKey); err != nil || ok {
		t.Fatalf("expected missing key on fresh store, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(kv.TokenKey, "tok-1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := store.Set(kv.LanguageKey, "ru"); err != nil {
		t.Fatalf("set language: %v", err)
	}

	reopened := kv.NewFileStore(path)
	v, ok, err := reopened.Get(kv.TokenKey)
	if err != nil || !ok || v != "tok-1" {
		t.Fatalf("expected persisted token, got %q ok=%v err=%v", v, ok, err)
	}
	if err := reopened.Delete(kv.TokenKey); err != nil {
		t.Fatalf("delete token: %v", err)
	}
	if _, ok, _ := store.Get(kv.TokenKey); ok {
		t.Fatalf("token must be gone after delete")
	}
	if lang, _, _ := store.Get(kv.LanguageKey); lang != "ru" {
		t.Fatalf("delete must keep other keys, got %q", lang)
	}
	if err := store.Delete("absent"); err != nil {
		t.Fatalf("deleting an absent key must succeed: %v", err)
	}
}

func TestCorruptFileIsReported(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := kv.NewFileStore(path).Get(kv.TokenKey); err == nil {
		t.Fatalf("expected decode error")
	}
}
