package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orieldave/half-baked/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration and create the data directory",
		Long: "Write config.yaml with default values if it does not exist, then\n" +
			"create the data directory by attaching the session store. Running\n" +
			"init again leaves an existing configuration untouched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(a.configDir)
			written, err := writeConfigIfMissing(path, a.dataDir)
			if err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}
			if written {
				a.logger.Info("config written", "path", path)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
			if err != nil {
				return sysError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "halfbaked initialized")
			fmt.Fprintln(out, "  config:", path)
			fmt.Fprintln(out, "  data:  ", dataDir)
			return nil
		},
	}
}
