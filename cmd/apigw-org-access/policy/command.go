// Package policy implements "apigw-org-access policy" commands.
package policy

import (
	"fmt"
	"os"

	"github.com/dacarey/apigw-org-access/gateconfig"
	"github.com/spf13/cobra"
)

func init() {
	cobra.EnablePrefixMatching = true
}

var path string

// NewCommand implements "apigw-org-access policy" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "API Gateway resource policy commands",
	}
	cmd.PersistentFlags().StringVarP(&path, "path", "p", "", "apigw-org-access configuration file path")
	cmd.AddCommand(
		newConfig(),
		newAttach(),
		newCurrent(),
		newDetach(),
		newGrant(),
		newRevoke(),
	)
	return cmd
}

func loadConfig() *gateconfig.Config {
	if path == "" {
		fmt.Fprintln(os.Stderr, "'--path' flag is not specified")
		os.Exit(1)
	}
	cfg, err := gateconfig.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration %q (%v)\n", path, err)
		os.Exit(1)
	}
	if err = cfg.UpdateFromEnvs(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to update configuration from environment variables (%v)\n", err)
		os.Exit(1)
	}
	return cfg
}
