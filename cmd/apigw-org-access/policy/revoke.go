package policy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dacarey/apigw-org-access/internal/gateway"
	"github.com/spf13/cobra"
)

func newRevoke() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Deletes the caller-side IAM policy created by 'policy grant'",
		Run:   revokeFunc,
	}
}

func revokeFunc(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dp, err := gateway.NewDeployer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create deployer (%v)\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = dp.Revoke(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to delete invoke policy (%v)\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, cfg.Colorize("\n\n[light_green]policy revoke success[default] %q\n\n"), cfg.RestAPIID)
}
