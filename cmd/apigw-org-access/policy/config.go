package policy

import (
	"fmt"
	"os"

	"github.com/dacarey/apigw-org-access/gateconfig"
	"github.com/spf13/cobra"
)

func newConfig() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Writes apigw-org-access default configuration",
		Long:  "Configuration values are overwritten by environment variables.",
		Run:   configFunc,
	}
}

func configFunc(cmd *cobra.Command, args []string) {
	if path == "" {
		fmt.Fprintln(os.Stderr, "'--path' flag is not specified")
		os.Exit(1)
	}
	cfg := gateconfig.NewDefault()
	cfg.ConfigPath = path
	if err := cfg.UpdateFromEnvs(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to update configuration from environment variables (%v)\n", err)
		os.Exit(1)
	}
	if err := cfg.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write configuration %q (%v)\n", path, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, cfg.Colorize("\n\n[light_green]wrote apigw-org-access configuration[default] %q\n\n"), cfg.ConfigPath)
}
