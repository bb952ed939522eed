// Package render formats bakes for the terminal: a fixed-width stage table
// for people and indented JSON for scripts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/orieldave/half-baked/internal/daytime"
	"github.com/orieldave/half-baked/pkg/types"
)

const noTime = "None"

// Bake writes the stage table for b to w.
func Bake(w io.Writer, b *types.Bake) error {
	stages := b.Stages()

	width := len("Stage")
	for _, f := range stages {
		if len(f.Name) > width {
			width = len(f.Name)
		}
	}

	if _, err := fmt.Fprintf(w, "Bake %q\n", b.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-2s  %-*s  %6s  %5s  %5s  %-9s  %s\n",
		"#", width, "Stage", "Hours", "Temp", "Inoc", "Start", "End"); err != nil {
		return err
	}
	for i, f := range stages {
		if _, err := fmt.Fprintf(w, "%-2s  %-*s  %6s  %5s  %5s  %-9s  %s\n",
			strconv.Itoa(i+1), width, f.Name,
			Hours(f.Hours), Temp(f.Temp), Inoc(f.Inoc),
			Clock(f.StartTime), Clock(f.EndTime())); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// Records writes one line per stored bake: ID, stage count and name.
func Records(w io.Writer, records []types.BakeRecord) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s  %2d stages  %s\n", r.BakeID, len(r.Args.Ferments), r.Args.Name); err != nil {
			return err
		}
	}
	return nil
}

// Hours formats a stage length.
func Hours(h float64) string { return strconv.FormatFloat(h, 'f', 2, 64) }

// Temp formats a temperature in Celsius.
func Temp(c float64) string { return strconv.FormatFloat(c, 'f', 1, 64) }

// Inoc formats an inoculation percentage.
func Inoc(p float64) string { return strconv.FormatFloat(p, 'f', 1, 64) }

// Clock formats a stage time as "Mon 15.04", or "None" when unset.
func Clock(t *time.Time) string {
	if t == nil {
		return noTime
	}
	return t.Format(daytime.DisplayLayout)
}
