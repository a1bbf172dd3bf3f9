package diff

import (
	"testing"

	"github.com/blaqat/theme-generation/internal/document"

	"github.com/google/go-cmp/cmp"
)

func TestTreesIdentical(t *testing.T) {
	tree := document.Tree{
		"name": "One Dark",
		"style": map[string]any{
			"background": "#1E222A",
			"players":    []any{"#61AFEF", "#E06C75"},
		},
	}

	r := Trees(tree, document.DeepCopy(tree).(map[string]any))
	if len(r.Paths) != 0 {
		t.Errorf("Paths = %v, want none", r.Paths)
	}
	if r.Similarity() != 100 {
		t.Errorf("Similarity() = %v, want 100", r.Similarity())
	}
}

func TestTreesDifferences(t *testing.T) {
	a := document.Tree{
		"name": "One Dark",
		"style": map[string]any{
			"background": "#1E222A",
			"border":     "#3E4451",
		},
	}
	b := document.Tree{
		"name": "One Dark",
		"style": map[string]any{
			"background": "#282C34",
			"shadow":     "#000000",
		},
	}

	r := Trees(a, b)
	want := []string{
		"/style/background",
		"/style/border",
		"/style/shadow",
	}
	if diff := cmp.Diff(want, r.Paths); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	if r.Similarity() >= 100 {
		t.Errorf("Similarity() = %v, want below 100", r.Similarity())
	}
}

func TestTreesListDifference(t *testing.T) {
	a := document.Tree{"players": []any{"#111111", "#222222"}}
	b := document.Tree{"players": []any{"#111111", "#999999", "#333333"}}

	r := Trees(a, b)
	want := []string{"/players/1", "/players/2"}
	if diff := cmp.Diff(want, r.Paths); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
}

func TestTreesNumericTypesUnify(t *testing.T) {
	a := document.Tree{"size": float64(12)}
	b := document.Tree{"size": int64(12)}

	r := Trees(a, b)
	if len(r.Paths) != 0 {
		t.Errorf("Paths = %v, want numeric values to compare equal", r.Paths)
	}
}

func TestTreesEmpty(t *testing.T) {
	r := Trees(document.Tree{}, document.Tree{})
	if r.Similarity() != 100 {
		t.Errorf("Similarity() of empty trees = %v, want 100", r.Similarity())
	}
}
