// Package tui holds the interactive forms used by the CLI. Commands
// fall back to flags when stdout is not a terminal.
package tui

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/blaqat/theme-generation/internal/theme"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// ScaffoldForm walks the user through describing a new template
// project. Prefilled fields are shown as defaults.
func ScaffoldForm(prefill theme.ScaffoldOptions) (*theme.ScaffoldOptions, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	opts := prefill
	if opts.Style == "" {
		opts.Style = "dark"
	}
	variants := "1"
	if opts.Variants > 1 {
		variants = strconv.Itoa(opts.Variants)
	}

	nameField := huh.NewInput().
		Title("Theme name").
		Value(&opts.Name).
		Validate(func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("name is required")
			}
			if strings.ContainsAny(value, "/\\") {
				return errors.New("name must not contain path separators")
			}
			return nil
		})

	styleField := huh.NewSelect[string]().
		Title("Appearance").
		Options(
			huh.NewOption("Dark", "dark"),
			huh.NewOption("Light", "light"),
		).
		Value(&opts.Style)

	variantsField := huh.NewInput().
		Title("Number of variants").
		Value(&variants).
		Validate(func(value string) error {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 1 {
				return errors.New("enter a whole number of 1 or more")
			}
			return nil
		})

	if err := runForm(accessible,
		huh.NewGroup(nameField, styleField, variantsField),
	); err != nil {
		return nil, err
	}

	opts.Name = strings.TrimSpace(opts.Name)
	opts.Variants, _ = strconv.Atoi(strings.TrimSpace(variants))
	return &opts, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).
		WithAccessible(accessible).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
