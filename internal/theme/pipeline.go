package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blaqat/theme-generation/internal/document"
	"github.com/blaqat/theme-generation/internal/emitter"
	"github.com/blaqat/theme-generation/internal/materializer"
	"github.com/blaqat/theme-generation/internal/override"
	"github.com/blaqat/theme-generation/internal/palette"
	"github.com/blaqat/theme-generation/internal/resolver"
	"github.com/blaqat/theme-generation/internal/reverse"
)

// VariantReport is the diagnostic trail for one materialized variant.
type VariantReport struct {
	// Bindings is the binding document that produced the variant.
	Bindings string

	// Unresolved lists placeholder expressions that degraded to null.
	Unresolved []string

	// Diagnostics lists overrides skipped during the override pass.
	Diagnostics []override.Diagnostic
}

// GenerateResult reports a completed forward run.
type GenerateResult struct {
	Output   string
	Variants []VariantReport
}

// Generate materializes every binding document found next to the
// template and writes the combined theme document to outputPath.
//
// Variants are processed strictly sequentially, each against an
// independent deep copy of the first template variant, so override
// mutation from one variant cannot leak into the next.
func Generate(templatePath, outputPath string) (*GenerateResult, error) {
	template, err := document.LoadJSON(templatePath)
	if err != nil {
		return nil, err
	}
	variants, err := Variants(template)
	if err != nil {
		return nil, err
	}

	bindingPaths, err := DiscoverBindings(filepath.Dir(templatePath))
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Output: outputPath}
	processed := make([]any, 0, len(bindingPaths))

	for _, path := range bindingPaths {
		bindings, err := resolver.Load(path)
		if err != nil {
			return nil, err
		}

		variant := document.DeepCopy(variants[0]).(map[string]any)
		mat := materializer.Materialize(variant, bindings)
		report := override.Apply(mat.Theme, bindings)

		processed = append(processed, mat.Theme)
		result.Variants = append(result.Variants, VariantReport{
			Bindings:    path,
			Unresolved:  mat.Unresolved,
			Diagnostics: report.Diagnostics,
		})
	}

	out := make(document.Tree, len(template))
	for k, v := range template {
		out[k] = v
	}
	out["themes"] = processed

	if err := document.SaveJSON(outputPath, out); err != nil {
		return nil, err
	}
	return result, nil
}

// ReverseOptions configures a reverse run.
type ReverseOptions struct {
	// Threshold is the repetition count above which a color is promoted
	// to a named palette entry. Values below 1 are clamped to 1.
	Threshold int

	// Verbose enables extraction diagnostics through Logf.
	Verbose bool

	// Logf receives diagnostics when Verbose is set.
	Logf func(format string, args ...any)
}

// Reverse extracts a binding document from each variant of a concrete
// theme and writes it next to the theme file. It returns the paths
// written.
func Reverse(templatePath, themePath string, opts ReverseOptions) ([]string, error) {
	template, err := document.LoadJSON(templatePath)
	if err != nil {
		return nil, err
	}
	final, err := document.LoadJSON(themePath)
	if err != nil {
		return nil, err
	}

	templateVariants, err := Variants(template)
	if err != nil {
		return nil, err
	}
	finalVariants, err := Variants(final)
	if err != nil {
		return nil, err
	}

	threshold := opts.Threshold
	if threshold < 1 {
		threshold = 1
	}

	var paths []string
	for i, variant := range finalVariants {
		// When variant counts disagree, every concrete variant is
		// matched against the first template variant.
		templ := templateVariants[0]
		if len(templateVariants) == len(finalVariants) {
			templ = templateVariants[i]
		}

		ext, err := reverse.Extract(templ, variant, reverse.Options{
			Verbose: opts.Verbose,
			Logf:    opts.Logf,
		})
		if err != nil {
			return nil, err
		}

		factored, err := palette.Factor(ext, threshold)
		if err != nil {
			return nil, err
		}

		name := ext.Name
		if name == "" {
			name = fmt.Sprintf("%s-variant-%d", TemplateName(themePath), i+1)
		}

		outPath := filepath.Join(filepath.Dir(themePath), name+".toml")
		if err := os.WriteFile(outPath, []byte(emitter.Emit(factored, ext)), 0o644); err != nil {
			return nil, fmt.Errorf("theme: failed to write %s: %w", outPath, err)
		}
		paths = append(paths, outPath)
	}
	return paths, nil
}
