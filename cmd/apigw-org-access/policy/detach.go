package policy

import (
	"fmt"
	"os"

	"github.com/dacarey/apigw-org-access/internal/gateway"
	"github.com/spf13/cobra"
)

func newDetach() *cobra.Command {
	return &cobra.Command{
		Use:   "detach",
		Short: "Clears the resource policy from the REST API",
		Run:   detachFunc,
	}
}

func detachFunc(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dp, err := gateway.NewDeployer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create deployer (%v)\n", err)
		os.Exit(1)
	}
	if err = dp.Detach(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to detach resource policy (%v)\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, cfg.Colorize("\n\n[light_green]policy detach success[default] %q\n\n"), cfg.RestAPIID)
}
