package ui

import (
	"testing"
)

func TestLocalizationHasAllKeys(t *testing.T) {
	l := NewLocalization()
	en := l.texts["en"]

	for code := range l.GetAvailableLanguages() {
		texts, ok := l.texts[code]
		if !ok {
			t.Fatalf("no texts for language %s", code)
		}
		for key := range en {
			if _, found := texts[key]; !found {
				t.Errorf("language %s misses key %s", code, key)
			}
		}
	}
}

func TestLocalizationFallback(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage("ru")
	if got := l.GetCurrentLanguage(); got != "ru" {
		t.Fatalf("expected ru, got %s", got)
	}
	if got := l.GetText(KeyRetry); got != "Повторить" {
		t.Errorf("unexpected ru text %q", got)
	}

	// Unknown languages keep the current one
	l.SetLanguage("xx")
	if got := l.GetCurrentLanguage(); got != "ru" {
		t.Errorf("expected ru after unknown language, got %s", got)
	}

	l.SetLanguage("system")
	if got := l.GetCurrentLanguage(); got != "en" {
		t.Errorf("system should map to en, got %s", got)
	}

	if got := l.GetText("missing_key"); got != "missing_key" {
		t.Errorf("missing key should return the key, got %q", got)
	}
}

func TestLocalizationFormat(t *testing.T) {
	l := NewLocalization()

	if got := l.Format(KeyURLsDetected, 3); got != "3 URLs detected" {
		t.Errorf("unexpected text %q", got)
	}
	if got := l.Format(KeyStats, 1, 2, 3, 4); got != "Pending: 1 · Active: 2 · Saved: 3 · Failed: 4" {
		t.Errorf("unexpected stats %q", got)
	}
}

func TestLanguageCodesSorted(t *testing.T) {
	got := NewLocalization().languageCodes()
	want := []string{"en", "pt", "ru"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}
