package repo

import "testing"

func TestJoinWhere(t *testing.T) {
	if got := JoinWhere(); got != "" {
		t.Errorf("expected empty clause, got %q", got)
	}
	if got := JoinWhere("a = $1"); got != "WHERE a = $1" {
		t.Errorf("unexpected clause: %q", got)
	}
	if got := JoinWhere("a = $1", "", "b = $2"); got != "WHERE a = $1 AND b = $2" {
		t.Errorf("unexpected clause: %q", got)
	}
}

func TestFormatLimitOffset(t *testing.T) {
	if got := FormatLimitOffset(0, 0); got != "" {
		t.Errorf("expected empty fragment, got %q", got)
	}
	if got := FormatLimitOffset(10, 0); got != "LIMIT 10" {
		t.Errorf("unexpected fragment: %q", got)
	}
	if got := FormatLimitOffset(10, 20); got != "LIMIT 10 OFFSET 20" {
		t.Errorf("unexpected fragment: %q", got)
	}
}
