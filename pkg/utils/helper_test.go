package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeSeatCodes(t *testing.T) {
	got := NormalizeSeatCodes([]string{" a1", "A2", "a1", "", "  ", "b3 "})
	want := []string{"A1", "A2", "B3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized codes mismatch: got %v want %v", got, want)
	}
}

func TestNormalizeSeatCodesEmpty(t *testing.T) {
	if got := NormalizeSeatCodes(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if got := NormalizeSeatCodes([]string{"", "   "}); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("7", 1); got != 7 {
		t.Fatalf("got %d want 7", got)
	}
	if got := ParseInt("", 5); got != 5 {
		t.Fatalf("empty string should fall back, got %d", got)
	}
	if got := ParseInt("abc", 5); got != 5 {
		t.Fatalf("garbage should fall back, got %d", got)
	}
	if got := ParseInt("-3", 5); got != 5 {
		t.Fatalf("non-positive should fall back, got %d", got)
	}
}
