package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScaffoldOptions describes a new template project.
type ScaffoldOptions struct {
	// Name is the theme family name; it names the project directory,
	// the template, and each binding file.
	Name string

	// Style is the appearance of the first variant, "dark" or "light".
	Style string

	// Variants is how many binding files to create. Values below 1 are
	// clamped to 1.
	Variants int

	// Dir is the parent directory for the project. Defaults to the
	// current directory.
	Dir string
}

// Scaffold creates a template project: a directory holding a starter
// template and one binding file per variant. It returns the paths
// written and refuses to overwrite an existing project directory.
func Scaffold(opts ScaffoldOptions) ([]string, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("theme: scaffold needs a name")
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}
	if opts.Variants < 1 {
		opts.Variants = 1
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	projectDir := filepath.Join(opts.Dir, opts.Name)
	if _, err := os.Stat(projectDir); err == nil {
		return nil, fmt.Errorf("theme: %s already exists", projectDir)
	}
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return nil, fmt.Errorf("theme: failed to create %s: %w", projectDir, err)
	}

	var paths []string

	templatePath := filepath.Join(projectDir, opts.Name+".json.template")
	if err := os.WriteFile(templatePath, []byte(starterTemplate(opts.Name)), 0o644); err != nil {
		return nil, fmt.Errorf("theme: failed to write %s: %w", templatePath, err)
	}
	paths = append(paths, templatePath)

	for i := 1; i <= opts.Variants; i++ {
		name := opts.Name
		if opts.Variants > 1 {
			name = fmt.Sprintf("%s-%d", opts.Name, i)
		}
		bindingPath := filepath.Join(projectDir, name+".toml")
		if err := os.WriteFile(bindingPath, []byte(starterBindings(name, opts.Style)), 0o644); err != nil {
			return nil, fmt.Errorf("theme: failed to write %s: %w", bindingPath, err)
		}
		paths = append(paths, bindingPath)
	}
	return paths, nil
}

func starterTemplate(name string) string {
	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString(fmt.Sprintf("  \"name\": %q,\n", name))
	b.WriteString("  \"author\": \"\",\n")
	b.WriteString("  \"themes\": [\n")
	b.WriteString("    {\n")
	b.WriteString("      \"name\": \"$name\",\n")
	b.WriteString("      \"appearance\": \"$appearance\",\n")
	b.WriteString("      \"style\": {\n")
	b.WriteString("        \"background\": \"$background\",\n")
	b.WriteString("        \"text\": \"$foreground\",\n")
	b.WriteString("        \"border\": \"$border, $background\",\n")
	b.WriteString("        \"editor.background\": \"$editor.background, $background\",\n")
	b.WriteString("        \"editor.foreground\": \"$editor.foreground, $foreground\",\n")
	b.WriteString("        \"syntax\": {\n")
	b.WriteString("          \"comment\": { \"color\": \"$syntax.comment, $foreground\" },\n")
	b.WriteString("          \"keyword\": { \"color\": \"$syntax.keyword, $accent\" },\n")
	b.WriteString("          \"string\": { \"color\": \"$syntax.string, $accent\" }\n")
	b.WriteString("        }\n")
	b.WriteString("      }\n")
	b.WriteString("    }\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n")
	return b.String()
}

func starterBindings(name, style string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("name = %q\n", name))
	b.WriteString(fmt.Sprintf("appearance = %q\n", style))
	b.WriteString("background = \"$colors.color1\"\n")
	b.WriteString("foreground = \"$colors.color2\"\n")
	b.WriteString("accent = \"$colors.color3\"\n")
	b.WriteString("border = \"$colors.color1..80\"\n")
	b.WriteString("\n[colors]\n")
	if style == "light" {
		b.WriteString("color1 = \"#FAFAFA\"\n")
		b.WriteString("color2 = \"#1F2328\"\n")
		b.WriteString("color3 = \"#0969DA\"\n")
	} else {
		b.WriteString("color1 = \"#1E222A\"\n")
		b.WriteString("color2 = \"#ABB2BF\"\n")
		b.WriteString("color3 = \"#61AFEF\"\n")
	}
	b.WriteString("\n[syntax]\n")
	b.WriteString("comment = \"$foreground..80\"\n")
	return b.String()
}
