package palette

import (
	"fmt"
	"testing"

	"github.com/blaqat/theme-generation/internal/document"
	"github.com/blaqat/theme-generation/internal/reverse"

	"github.com/google/go-cmp/cmp"
)

// extract is a convenience wrapper for building an extraction from
// template and theme trees.
func extract(t *testing.T, template, theme document.Tree) *reverse.Extraction {
	t.Helper()
	ext, err := reverse.Extract(template, theme, reverse.Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return ext
}

func TestFactorNamesFrequentColors(t *testing.T) {
	template := document.Tree{
		"a": "$x",
		"b": "$x",
		"c": "$x",
		"d": "$y",
		"e": "$z",
	}
	theme := document.Tree{
		"a": "#1E222A",
		"b": "#1E222A",
		"c": "#1E222A",
		"d": "#1E222A",
		"e": "#61AFEF",
	}

	res, err := Factor(extract(t, template, theme), 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	if len(res.Palette) != 1 {
		t.Fatalf("Palette = %v, want exactly one entry", res.Palette)
	}
	entry := res.Palette[0]
	if entry.Base != "#1E222A" || entry.Ref != "$colors.color1" || entry.Count != 4 {
		t.Errorf("Palette[0] = %+v", entry)
	}

	// Variables bound to the named color become references; the rare
	// color stays literal.
	if res.Variables["x"] != "$colors.color1" {
		t.Errorf("Variables[x] = %v, want $colors.color1", res.Variables["x"])
	}
	if res.Variables["y"] != "$colors.color1" {
		t.Errorf("Variables[y] = %v, want $colors.color1", res.Variables["y"])
	}
	if res.Variables["z"] != "#61AFEF" {
		t.Errorf("Variables[z] = %v, want literal #61AFEF", res.Variables["z"])
	}
}

func TestFactorThresholdFloor(t *testing.T) {
	template := document.Tree{"a": "$x", "b": "$x"}
	theme := document.Tree{"a": "#1E222A", "b": "#1E222A"}

	// Count 2 is not strictly above threshold 2.
	res, err := Factor(extract(t, template, theme), 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}
	if len(res.Palette) != 0 {
		t.Errorf("Palette = %v, want empty at threshold 2", res.Palette)
	}

	// At threshold 1 the same color is named.
	res, err = Factor(extract(t, template, theme), 1)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}
	if len(res.Palette) != 1 {
		t.Errorf("Palette = %v, want one entry at threshold 1", res.Palette)
	}
}

func TestFactorOrdersByFrequency(t *testing.T) {
	template := document.Tree{}
	theme := document.Tree{}
	for i := 0; i < 3; i++ {
		template[fmt.Sprintf("r%d", i)] = "$red" + fmt.Sprint(i)
		theme[fmt.Sprintf("r%d", i)] = "#E06C75"
	}
	for i := 0; i < 4; i++ {
		template[fmt.Sprintf("b%d", i)] = "$blue" + fmt.Sprint(i)
		theme[fmt.Sprintf("b%d", i)] = "#61AFEF"
	}

	res, err := Factor(extract(t, template, theme), 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	want := []Entry{
		{Base: "#61AFEF", Ref: "$colors.color1", Count: 4},
		{Base: "#E06C75", Ref: "$colors.color2", Count: 3},
	}
	if diff := cmp.Diff(want, res.Palette); diff != "" {
		t.Errorf("Palette mismatch (-want +got):\n%s", diff)
	}
}

func TestFactorCanonicalizesAlphaVariants(t *testing.T) {
	// The same base color with and without alpha counts as one palette
	// color.
	template := document.Tree{"a": "$x", "b": "$y", "c": "$z"}
	theme := document.Tree{"a": "#1e222a", "b": "#1E222A80", "c": "#1E222A"}

	res, err := Factor(extract(t, template, theme), 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	if len(res.Palette) != 1 {
		t.Fatalf("Palette = %v, want one canonical entry", res.Palette)
	}
	if res.Palette[0].Base != "#1E222A" || res.Palette[0].Count != 3 {
		t.Errorf("Palette[0] = %+v", res.Palette[0])
	}
}

func TestFactorDemotesMinorityAlpha(t *testing.T) {
	template := document.Tree{"a": "$x", "b": "$x", "c": "$x"}
	theme := document.Tree{"a": "#FF000080", "b": "#FF000080", "c": "#FF0000AA"}

	ext := extract(t, template, theme)
	res, err := Factor(ext, 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	// The majority alpha stays with the variable; the odd one out
	// becomes a per-path override carrying its own alpha.
	if res.Variables["x"] != "$colors.color1" {
		t.Errorf("Variables[x] = %v, want $colors.color1", res.Variables["x"])
	}
	if got := res.Overrides["c"]; got != "$colors.color1..AA" {
		t.Errorf("Overrides[c] = %v, want $colors.color1..AA", got)
	}
	if _, ok := ext.VarMap["x"]["c"]; ok {
		t.Error("demoted path still present in the variable map")
	}
}

func TestFactorDemotesDisagreeingPath(t *testing.T) {
	template := document.Tree{"a": "$x", "b": "$x", "c": "$x", "d": "$x"}
	theme := document.Tree{"a": "#111111", "b": "#111111", "c": "#111111", "d": "#999999"}

	ext := extract(t, template, theme)
	res, err := Factor(ext, 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	// d's color disagrees with the representative, so it is demoted and
	// stays literal: with a single occurrence it never reaches the
	// palette.
	if got := res.Overrides["d"]; got != "#999999" {
		t.Errorf("Overrides[d] = %v, want #999999", got)
	}
	if res.Variables["x"] != "$colors.color1" {
		t.Errorf("Variables[x] = %v, want $colors.color1", res.Variables["x"])
	}
}

func TestFactorLeavesNonColorsAlone(t *testing.T) {
	template := document.Tree{"a": "$style", "b": "$size"}
	theme := document.Tree{"a": "italic", "b": float64(12)}

	res, err := Factor(extract(t, template, theme), 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	if res.Variables["style"] != "italic" {
		t.Errorf("Variables[style] = %v, want italic", res.Variables["style"])
	}
	if res.Variables["size"] != float64(12) {
		t.Errorf("Variables[size] = %v, want 12", res.Variables["size"])
	}
	if len(res.Palette) != 0 {
		t.Errorf("Palette = %v, want empty", res.Palette)
	}
}

func TestFactorRewritesOverrides(t *testing.T) {
	template := document.Tree{
		"a": "$x",
		"b": "$x",
		"c": "$x",
		"d": "#123456",
	}
	theme := document.Tree{
		"a": "#61AFEF",
		"b": "#61AFEF",
		"c": "#61AFEF",
		"d": "#61AFEF80",
	}

	res, err := Factor(extract(t, template, theme), 2)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	// The literal-mismatch override uses the same base color, so it is
	// rewritten to the palette reference with its alpha reattached.
	if got := res.Overrides["d"]; got != "$colors.color1..80" {
		t.Errorf("Overrides[d] = %v, want $colors.color1..80", got)
	}
}

func TestFactorIsDeterministic(t *testing.T) {
	template := document.Tree{"a": "$x", "b": "$y", "c": "$z", "d": "$w"}
	theme := document.Tree{"a": "#111111", "b": "#111111", "c": "#222222", "d": "#222222"}

	first, err := Factor(extract(t, template, theme), 1)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Factor(extract(t, template, theme), 1)
		if err != nil {
			t.Fatalf("Factor: %v", err)
		}
		if diff := cmp.Diff(first.Palette, again.Palette); diff != "" {
			t.Fatalf("palette changed between runs (-first +again):\n%s", diff)
		}
		if diff := cmp.Diff(first.Variables, again.Variables); diff != "" {
			t.Fatalf("variables changed between runs (-first +again):\n%s", diff)
		}
	}
}
