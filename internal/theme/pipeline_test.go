package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blaqat/theme-generation/internal/document"
)

const testTemplate = `{
  "name": "mytheme",
  "themes": [
    {
      "name": "$name",
      "appearance": "$appearance",
      "style": {
        "background": "$background",
        "border": "$border, $background",
        "text": "$foreground",
        "syntax": {
          "comment": { "color": "$syntax.comment, $foreground" },
          "keyword": { "color": "$syntax.keyword, $accent" }
        }
      }
    }
  ]
}`

func writeProject(t *testing.T, bindings ...string) (dir, templatePath string) {
	t.Helper()
	dir = t.TempDir()
	templatePath = filepath.Join(dir, "mytheme.json.template")
	if err := os.WriteFile(templatePath, []byte(testTemplate), 0o644); err != nil {
		t.Fatal(err)
	}
	for i, content := range bindings {
		name := filepath.Join(dir, "variant"+string(rune('a'+i))+".toml")
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, templatePath
}

func TestGenerate(t *testing.T) {
	bindings := `
name = "My Dark"
appearance = "dark"
background = "#1E222A"
foreground = "#ABB2BF"
accent = "#61AFEF"

[syntax]
comment = "$foreground..80"
`
	dir, templatePath := writeProject(t, bindings)
	outputPath := filepath.Join(dir, "out.json")

	result, err := Generate(templatePath, outputPath)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Variants) != 1 {
		t.Fatalf("Variants = %v, want one", result.Variants)
	}
	if len(result.Variants[0].Unresolved) != 0 {
		t.Errorf("Unresolved = %v, want none", result.Variants[0].Unresolved)
	}

	out, err := document.LoadJSON(outputPath)
	if err != nil {
		t.Fatalf("LoadJSON(output): %v", err)
	}
	variants, err := Variants(out)
	if err != nil {
		t.Fatal(err)
	}

	v := variants[0]
	if v["name"] != "My Dark" || v["appearance"] != "dark" {
		t.Errorf("variant header = %v / %v", v["name"], v["appearance"])
	}
	style := v["style"].(map[string]any)
	if style["background"] != "#1E222A" {
		t.Errorf("background = %v", style["background"])
	}
	// Fallback chain: border is unbound and falls back to background.
	if style["border"] != "#1E222A" {
		t.Errorf("border = %v, want fallback to background", style["border"])
	}
	syntax := style["syntax"].(map[string]any)
	if syntax["comment"].(map[string]any)["color"] != "#ABB2BF80" {
		t.Errorf("comment color = %v, want alpha-suffixed foreground", syntax["comment"])
	}
	if syntax["keyword"].(map[string]any)["color"] != "#61AFEF" {
		t.Errorf("keyword color = %v", syntax["keyword"])
	}
}

func TestGenerateOverrideWinsOverSubstitution(t *testing.T) {
	bindings := `
name = "My Dark"
appearance = "dark"
background = "#1E222A"
foreground = "#ABB2BF"
accent = "#61AFEF"

[overrides]
"style.background" = "#000000"
`
	dir, templatePath := writeProject(t, bindings)
	outputPath := filepath.Join(dir, "out.json")

	if _, err := Generate(templatePath, outputPath); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out, _ := document.LoadJSON(outputPath)
	variants, _ := Variants(out)
	style := variants[0]["style"].(map[string]any)
	if style["background"] != "#000000" {
		t.Errorf("background = %v, want the override value", style["background"])
	}
}

func TestGenerateMultipleBindings(t *testing.T) {
	dark := `
name = "My Dark"
appearance = "dark"
background = "#1E222A"
foreground = "#ABB2BF"
accent = "#61AFEF"
`
	light := `
name = "My Light"
appearance = "light"
background = "#FAFAFA"
foreground = "#1F2328"
accent = "#0969DA"
`
	dir, templatePath := writeProject(t, dark, light)
	outputPath := filepath.Join(dir, "out.json")

	result, err := Generate(templatePath, outputPath)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Variants) != 2 {
		t.Fatalf("Variants = %d, want 2", len(result.Variants))
	}

	out, _ := document.LoadJSON(outputPath)
	variants, _ := Variants(out)
	if len(variants) != 2 {
		t.Fatalf("output variants = %d, want 2", len(variants))
	}
	// Binding files are discovered in name order.
	if variants[0]["name"] != "My Dark" || variants[1]["name"] != "My Light" {
		t.Errorf("variant order = %v, %v", variants[0]["name"], variants[1]["name"])
	}
	if variants[0]["style"].(map[string]any)["background"] == variants[1]["style"].(map[string]any)["background"] {
		t.Error("variants share a background; binding isolation is broken")
	}
}

func TestGenerateNoBindings(t *testing.T) {
	dir, templatePath := writeProject(t)
	_, err := Generate(templatePath, filepath.Join(dir, "out.json"))
	if err == nil {
		t.Fatal("expected an error with no binding files")
	}
}

func TestReverseRoundTrip(t *testing.T) {
	bindings := `
name = "My Dark"
appearance = "dark"
background = "#1E222A"
foreground = "#ABB2BF"
accent = "#61AFEF"
`
	dir, templatePath := writeProject(t, bindings)
	themePath := filepath.Join(dir, "generated", "mytheme.json")

	if _, err := Generate(templatePath, themePath); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	paths, err := Reverse(templatePath, themePath, ReverseOptions{Threshold: 2})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %v, want one binding file", paths)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	// The extracted bindings carry the variant header and every color the
	// theme actually used.
	if !strings.Contains(content, `name = "My Dark"`) {
		t.Errorf("name missing from extracted bindings:\n%s", content)
	}
	for _, color := range []string{"#1E222A", "#ABB2BF", "#61AFEF"} {
		if !strings.Contains(content, color) {
			t.Errorf("color %s missing from extracted bindings:\n%s", color, content)
		}
	}

	// The emitted document must itself parse as TOML.
	if _, err := document.LoadTOML(paths[0]); err != nil {
		t.Errorf("extracted bindings do not parse: %v", err)
	}

	// The output is named after the variant and sits next to the theme.
	if filepath.Dir(paths[0]) != filepath.Dir(themePath) {
		t.Errorf("bindings written to %s, want next to %s", paths[0], themePath)
	}
	if filepath.Base(paths[0]) != "My Dark.toml" {
		t.Errorf("bindings file = %s, want variant-named", filepath.Base(paths[0]))
	}
}

func TestReverseThresholdClamped(t *testing.T) {
	bindings := `
name = "My Dark"
appearance = "dark"
background = "#1E222A"
foreground = "#ABB2BF"
accent = "#61AFEF"
`
	dir, templatePath := writeProject(t, bindings)
	themePath := filepath.Join(dir, "out", "theme.json")
	if _, err := Generate(templatePath, themePath); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// A zero threshold behaves as one rather than naming every color.
	if _, err := Reverse(templatePath, themePath, ReverseOptions{Threshold: 0}); err != nil {
		t.Fatalf("Reverse with zero threshold: %v", err)
	}
}
