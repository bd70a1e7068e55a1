package policy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dacarey/apigw-org-access/internal/gateway"
	"github.com/spf13/cobra"
)

func newGrant() *cobra.Command {
	return &cobra.Command{
		Use:   "grant",
		Short: "Creates the caller-side IAM policy that grants invoke on the REST API",
		Run:   grantFunc,
	}
}

func grantFunc(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dp, err := gateway.NewDeployer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create deployer (%v)\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	policyARN, err := dp.Grant(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create invoke policy (%v)\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, cfg.Colorize("\n\n[light_green]policy grant success[default] %q\n\n"), policyARN)
}
