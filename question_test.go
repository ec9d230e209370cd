package resolve

import "testing"

func TestQuestionKeyIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	a := Question{Name: "Example.COM.", Type: TypeA, Class: ClassINET}
	b := Question{Name: "example.com.", Type: TypeA, Class: ClassINET}
	if a.Key() != b.Key() {
		t.Fatalf("expected case-insensitive keys to match: %q vs %q", a.Key(), b.Key())
	}
}

func TestQuestionKeyDiffersByType(t *testing.T) {
	t.Parallel()
	a := Question{Name: "example.com.", Type: TypeA, Class: ClassINET}
	b := Question{Name: "example.com.", Type: TypeAAAA, Class: ClassINET}
	if a.Key() == b.Key() {
		t.Fatal("expected different types to produce different keys")
	}
}

func TestSuppressesEmptyHeuristic(t *testing.T) {
	t.Parallel()
	if !(Question{Type: TypeANY}).suppressesEmptyHeuristic() {
		t.Fatal("ANY should suppress the empty heuristic")
	}
	if !(Question{Type: TypeAXFR}).suppressesEmptyHeuristic() {
		t.Fatal("AXFR should suppress the empty heuristic")
	}
	if (Question{Type: TypeA}).suppressesEmptyHeuristic() {
		t.Fatal("A should not suppress the empty heuristic")
	}
}
