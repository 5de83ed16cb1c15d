package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("HS_TEST_INT", "abc")
	if got := Int("HS_TEST_INT", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
	t.Setenv("HS_TEST_INT", " 12 ")
	if got := Int("HS_TEST_INT", 7); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestBoolAndSeconds(t *testing.T) {
	t.Setenv("HS_TEST_BOOL", "off")
	if Bool("HS_TEST_BOOL", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("HS_TEST_SECS", "0")
	if got := Seconds("HS_TEST_SECS", 5*time.Second); got != 5*time.Second {
		t.Fatalf("expected default, got %s", got)
	}
	t.Setenv("HS_TEST_SECS", "90")
	if got := Seconds("HS_TEST_SECS", 5*time.Second); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("HS_TEST_LIST", "a, b,,c ")
	got := List("HS_TEST_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected list %v", got)
	}
}
