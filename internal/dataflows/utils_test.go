package dataflows

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, true)

	params := map[string]string{"symbol": "AAPL"}
	stored := map[string]any{"marketCap": 2.5e12}
	if err := cm.Set("yahoo", "summary", params, stored); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got map[string]any
	if !cm.Get("yahoo", "summary", params, &got) {
		t.Fatal("Get missed after Set")
	}
	if got["marketCap"] != 2.5e12 {
		t.Errorf("got = %v", got)
	}

	// Different params must miss.
	if cm.Get("yahoo", "summary", map[string]string{"symbol": "MSFT"}, &got) {
		t.Error("Get hit for different params")
	}
}

func TestCacheDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, false)

	params := map[string]string{"symbol": "AAPL"}
	if err := cm.Set("yahoo", "summary", params, "data"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got string
	if cm.Get("yahoo", "summary", params, &got) {
		t.Error("disabled cache returned a hit")
	}
}

func TestValidateSymbol(t *testing.T) {
	if err := ValidateSymbol("AAPL"); err != nil {
		t.Errorf("AAPL rejected: %v", err)
	}
	if err := ValidateSymbol("  "); err == nil {
		t.Error("blank symbol accepted")
	}
	if err := ValidateSymbol("WAYTOOLONGSYMBOL"); err == nil {
		t.Error("oversized symbol accepted")
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  aapl "); got != "AAPL" {
		t.Errorf("got %q", got)
	}
}
