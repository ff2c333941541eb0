package conv

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"name", "qty"}, [][]string{
		{"apple", "3"},
		{"pear"},
	})

	for _, want := range []string{"apple", "3", "pear"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") < 3 {
		t.Errorf("expected header and two rows, got:\n%s", out)
	}
}

func TestRenderTable_NoColumns(t *testing.T) {
	if got := RenderTable(nil, [][]string{{"x"}}); got != "" {
		t.Errorf("RenderTable(nil) = %q, want empty", got)
	}
}
