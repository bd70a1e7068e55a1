package policy

import (
	"fmt"
	"os"

	"github.com/dacarey/apigw-org-access/internal/gateway"
	"github.com/spf13/cobra"
)

func newAttach() *cobra.Command {
	return &cobra.Command{
		Use:   "attach",
		Short: "Attaches the organization allow-list resource policy to the REST API",
		Run:   attachFunc,
	}
}

func attachFunc(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dp, err := gateway.NewDeployer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create deployer (%v)\n", err)
		os.Exit(1)
	}
	if err = dp.Attach(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to attach resource policy (%v)\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, cfg.Colorize("\n\n[light_green]policy attach success[default] %q\n\n"), cfg.RestAPIID)
}
