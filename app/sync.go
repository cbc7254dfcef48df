package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	"github.com/go-m365-admin/go-m365-admin/internal/daemon"
	syncservice "github.com/go-m365-admin/go-m365-admin/internal/sync"
)

func init() { //nolint: gochecknoinits
	syncCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	syncCmd.Flags().StringVar(&syncType, "type", syncservice.TypeFull, "Sync type to run")

	rootCmd.AddCommand(syncCmd)
}

var (
	syncType string

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Run a one-shot sync against the Microsoft Graph API",
		Long: `Run a single sync from the command line without starting the web service.
Valid types: full, users, licenses, user-licenses, mailbox, onedrive.`,
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := daemon.New(&cfg)

			result, err := d.RunSync(context.Background(), syncType)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
)
