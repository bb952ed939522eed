package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orieldave/half-baked/internal/render"
	"github.com/orieldave/half-baked/pkg/types"
)

func newNewCmd(a *app) *cobra.Command {
	var empty bool
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Start a new bake",
		Long: "Start a new bake from the standard sourdough schedule (refresh, feed,\n" +
			"bulk, proof) or, with --empty, with no stages. The new bake becomes\n" +
			"the current one.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bakeArgs := types.DefaultBakeArgs(args[0])
			if empty {
				bakeArgs = types.BakeArgs{Name: args[0]}
			}
			bake, err := types.NewBakeWithDefaults(bakeArgs, a.defaults)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			id, err := store.Save("", bake.Args())
			if err != nil {
				return sysError(fmt.Errorf("save bake: %w", err))
			}
			a.logger.Debug("bake created", "bake_id", id, "stages", bake.Len())

			if !a.jsonMode {
				fmt.Fprintf(cmd.OutOrStdout(), "Created bake %s\n", id)
			}
			return a.writeBake(cmd.OutOrStdout(), id, bake)
		},
	}
	cmd.Flags().BoolVar(&empty, "empty", false, "start with no stages")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the current bake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.close()
			return a.writeBake(cmd.OutOrStdout(), s.id, s.bake)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved bakes, most recently changed first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			recs, err := store.List()
			if err != nil {
				return storeError(err)
			}
			if a.jsonMode {
				if recs == nil {
					recs = []types.BakeRecord{}
				}
				return render.JSON(cmd.OutOrStdout(), recs)
			}
			return render.Records(cmd.OutOrStdout(), recs)
		},
	}
}

func newDiscardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <bake-id>",
		Short: "Remove a saved bake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.Delete(args[0]); err != nil {
				return storeError(err)
			}
			a.logger.Debug("bake discarded", "bake_id", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Discarded bake %s\n", args[0])
			return nil
		},
	}
}
