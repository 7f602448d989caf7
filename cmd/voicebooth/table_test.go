package main

import (
	"strings"
	"testing"
)

func TestRenderTableAlignsNumericColumns(t *testing.T) {
	out := renderTable([]column{{title: "Index", numeric: true}, {title: "Name"}}, [][]string{
		{"7", "USB mic"},
		{"12"},
	})
	for _, want := range []string{
		"│ Index │ Name    │",
		"│     7 │ USB mic │",
		"│    12 │         │",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
}

func TestRenderTableWithoutColumns(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
