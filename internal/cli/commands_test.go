package cli

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestResolveSymbolsExplicitList(t *testing.T) {
	symbols, label, err := resolveSymbols([]string{" aapl ", "msft", ""}, "")
	if err != nil {
		t.Fatalf("resolveSymbols: %v", err)
	}
	if !reflect.DeepEqual(symbols, []string{"AAPL", "MSFT"}) {
		t.Errorf("symbols = %v", symbols)
	}
	if label != "explicit list" {
		t.Errorf("label = %q", label)
	}
}

func TestResolveSymbolsRejectsBadSymbol(t *testing.T) {
	if _, _, err := resolveSymbols([]string{"not a symbol!"}, ""); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestResolveSymbolsIndustry(t *testing.T) {
	symbols, label, err := resolveSymbols(nil, "Technology")
	if err != nil {
		t.Fatalf("resolveSymbols: %v", err)
	}
	if len(symbols) == 0 {
		t.Fatal("expected industry universe")
	}
	if label != "industry: technology" {
		t.Errorf("label = %q", label)
	}
}

func TestResolveSymbolsUnknownIndustry(t *testing.T) {
	_, _, err := resolveSymbols(nil, "basket-weaving")
	if err == nil || !strings.Contains(err.Error(), "unknown industry") {
		t.Fatalf("err = %v", err)
	}
}

func TestTruncateStringKeepsValidUTF8(t *testing.T) {
	name := strings.Repeat("a", 26) + "ééé"
	got := truncateString(name, 28)
	if !utf8.ValidString(got) {
		t.Fatalf("truncateString produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("a", 25) + "..."; got != want {
		t.Errorf("truncateString = %q, want %q", got, want)
	}

	if got := truncateString("short", 28); got != "short" {
		t.Errorf("truncateString short = %q", got)
	}
}
