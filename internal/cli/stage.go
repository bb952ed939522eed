package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orieldave/half-baked/internal/daytime"
	"github.com/orieldave/half-baked/pkg/types"
)

// errNothingToChange is returned by edit when no quantity flag is set.
var errNothingToChange = errors.New("nothing to change: set --inoc, --temp, --hours, --start or --end")

// stageFlags holds the quantity flags shared by add and edit.
type stageFlags struct {
	hours float64
	temp  float64
	inoc  float64
	start string
	end   string
}

func (f *stageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.hours, "hours", 0, "duration in hours")
	cmd.Flags().Float64Var(&f.temp, "temp", 0, "temperature in C")
	cmd.Flags().Float64Var(&f.inoc, "inoc", 0, "inoculation in percent")
	cmd.Flags().StringVar(&f.start, "start", "", `start time ("sat 09.30", 2006-01-02T15:04 or RFC 3339)`)
	cmd.Flags().StringVar(&f.end, "end", "", "end time, same formats as --start")
}

// edit turns the flags that were set into an Edit. Times are parsed relative
// to now.
func (f *stageFlags) edit(cmd *cobra.Command, now time.Time) (types.Edit, error) {
	var e types.Edit
	set := cmd.Flags().Changed
	if set("inoc") {
		e.Inoc = types.Float(f.inoc)
	}
	if set("temp") {
		e.Temp = types.Float(f.temp)
	}
	if set("hours") {
		e.Hours = types.Float(f.hours)
	}
	if set("start") {
		t, err := daytime.Parse(f.start, now)
		if err != nil {
			return types.Edit{}, fmt.Errorf("--start: %w", err)
		}
		e.Start = &t
	}
	if set("end") {
		t, err := daytime.Parse(f.end, now)
		if err != nil {
			return types.Edit{}, fmt.Errorf("--end: %w", err)
		}
		e.End = &t
	}
	return e, nil
}

func newAddCmd(a *app) *cobra.Command {
	var (
		f  stageFlags
		at int
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a stage to the current bake",
		Long: "Add a stage given --hours, or --start and --end. Temperature and\n" +
			"inoculation default to the configured values. A name already in use\n" +
			"gets an underscore appended.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.edit(cmd, a.now())
			if err != nil {
				return err
			}
			fa := types.FermentArgs{
				Name:      args[0],
				Hours:     e.Hours,
				Temp:      e.Temp,
				Inoc:      e.Inoc,
				StartTime: e.Start,
				EndTime:   e.End,
			}
			return a.mutate(cmd.OutOrStdout(), "add", fa.Name, func(b *types.Bake) error {
				if at < 0 {
					return b.AddFerment(fa)
				}
				return b.InsertFerment(at, fa)
			})
		},
	}
	f.bind(cmd)
	cmd.Flags().IntVar(&at, "at", -1, "insert at this position (default: append)")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "edit <stage>",
		Short: "Change one or more quantities of a stage",
		Long: "Apply changes in the order inoculation, temperature, hours, times.\n" +
			"Each changed quantity is held while the next is applied; the first\n" +
			"change holds inoculation, except an inoculation change, which holds\n" +
			"temperature. The whole edit is discarded if any step fails.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.edit(cmd, a.now())
			if err != nil {
				return err
			}
			if e.IsZero() {
				return errNothingToChange
			}
			return a.mutate(cmd.OutOrStdout(), "edit", args[0], func(b *types.Bake) error {
				i, err := b.Index(args[0])
				if err != nil {
					return err
				}
				return b.ApplyEdit(i, e)
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <stage>",
		Short: "Remove a stage from the current bake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd.OutOrStdout(), "delete", args[0], func(b *types.Bake) error {
				i, err := b.Index(args[0])
				if err != nil {
					return err
				}
				return b.RemoveFerment(i)
			})
		},
	}
}
