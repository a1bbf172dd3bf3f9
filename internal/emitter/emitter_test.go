package emitter

import (
	"strings"
	"testing"

	"github.com/blaqat/theme-generation/internal/document"
	"github.com/blaqat/theme-generation/internal/palette"
	"github.com/blaqat/theme-generation/internal/reverse"
)

func factored(t *testing.T, template, theme document.Tree, threshold int) (*palette.Result, *reverse.Extraction) {
	t.Helper()
	ext, err := reverse.Extract(template, theme, reverse.Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	res, err := palette.Factor(ext, threshold)
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}
	return res, ext
}

func TestEmitSectionOrder(t *testing.T) {
	template := document.Tree{
		"name":       "$name",
		"background": "$background",
		"muted":      "$text.muted",
		"normal":     "$text.normal",
		"extra":      "#111111",
	}
	theme := document.Tree{
		"name":       "One Dark",
		"background": "#1E222A",
		"muted":      "#5C6370",
		"normal":     "#ABB2BF",
		"extra":      "#999999",
	}

	res, ext := factored(t, template, theme, 2)
	out := Emit(res, ext)

	// Bare keys must precede any table header.
	firstHeader := strings.Index(out, "\n[")
	if firstHeader < 0 {
		t.Fatalf("no table headers in output:\n%s", out)
	}
	prologue := out[:firstHeader]
	for _, key := range []string{"name = ", "background = "} {
		if !strings.Contains(prologue, key) {
			t.Errorf("top-level %q not before first header:\n%s", key, out)
		}
	}

	textIdx := strings.Index(out, "[text]")
	overridesIdx := strings.Index(out, "[overrides]")
	if textIdx < 0 || overridesIdx < 0 {
		t.Fatalf("missing sections:\n%s", out)
	}
	if overridesIdx < textIdx {
		t.Errorf("[overrides] before variable sections:\n%s", out)
	}
	if !strings.Contains(out, "muted = \"#5C6370\"") {
		t.Errorf("text.muted not emitted under [text]:\n%s", out)
	}
	if !strings.Contains(out, "\"extra\" = \"#999999\"") {
		t.Errorf("override key not quoted:\n%s", out)
	}
}

func TestEmitPalette(t *testing.T) {
	template := document.Tree{"a": "$x", "b": "$x", "c": "$x"}
	theme := document.Tree{"a": "#61AFEF", "b": "#61AFEF", "c": "#61AFEF"}

	res, ext := factored(t, template, theme, 2)
	out := Emit(res, ext)

	if !strings.Contains(out, "[colors]\ncolor1 = \"#61AFEF\"") {
		t.Errorf("palette section missing or malformed:\n%s", out)
	}
	if !strings.Contains(out, "x = \"$colors.color1\"") {
		t.Errorf("variable not emitted as palette reference:\n%s", out)
	}
}

func TestEmitRecoversUniformAlpha(t *testing.T) {
	template := document.Tree{"a": "$x", "b": "$x", "c": "$x"}
	theme := document.Tree{"a": "#61AFEF80", "b": "#61AFEF80", "c": "#61AFEF80"}

	res, ext := factored(t, template, theme, 2)
	out := Emit(res, ext)

	if !strings.Contains(out, "x = \"$colors.color1..80\"") {
		t.Errorf("uniform alpha not recovered:\n%s", out)
	}
	if !strings.Contains(out, "color1 = \"#61AFEF\"") {
		t.Errorf("palette entry should hold the base color:\n%s", out)
	}
}

func TestEmitPerVariableAlphaRecovery(t *testing.T) {
	// Two variables share one palette color with different alphas; each
	// recovers its own alpha from its own observed paths.
	template := document.Tree{"a": "$x", "b": "$x", "c": "$y", "d": "$y"}
	theme := document.Tree{"a": "#61AFEF80", "b": "#61AFEF80", "c": "#61AFEF40", "d": "#61AFEF40"}

	res, ext := factored(t, template, theme, 2)
	out := Emit(res, ext)

	if !strings.Contains(out, "x = \"$colors.color1..80\"") {
		t.Errorf("x's alpha is unambiguous within its own paths:\n%s", out)
	}
	if !strings.Contains(out, "y = \"$colors.color1..40\"") {
		t.Errorf("y's alpha is unambiguous within its own paths:\n%s", out)
	}
}

func TestEmitDeletions(t *testing.T) {
	template := document.Tree{"a": "$x", "gone": "$gone"}
	theme := document.Tree{"a": "#111111"}

	res, ext := factored(t, template, theme, 2)
	out := Emit(res, ext)

	if !strings.Contains(out, "[deletions]") {
		t.Fatalf("deletions section missing:\n%s", out)
	}
	if !strings.Contains(out, "\"gone\"") {
		t.Errorf("deleted key not listed:\n%s", out)
	}
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil renders as false", nil, "false"},
		{"bool", true, "true"},
		{"string quoted", "#FF0000", `"#FF0000"`},
		{"int", 3, "3"},
		{"int64", int64(4), "4"},
		{"float", 0.5, "0.5"},
		{"list multiline", []any{"a", "b"}, "[\n\t\"a\",\n\t\"b\"\n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderValue(tt.v); got != tt.want {
				t.Errorf("renderValue(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}
