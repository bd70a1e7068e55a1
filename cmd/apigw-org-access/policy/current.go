package policy

import (
	"fmt"
	"os"

	"github.com/dacarey/apigw-org-access/internal/gateway"
	"github.com/spf13/cobra"
)

func newCurrent() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Prints the resource policy currently attached to the REST API",
		Run:   currentFunc,
	}
}

func currentFunc(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dp, err := gateway.NewDeployer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create deployer (%v)\n", err)
		os.Exit(1)
	}
	doc, err := dp.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch resource policy (%v)\n", err)
		os.Exit(1)
	}
	if doc == nil {
		fmt.Fprintf(os.Stderr, cfg.Colorize("\n\n[yellow]no resource policy attached[default] %q\n\n"), cfg.RestAPIID)
		return
	}
	txt, err := doc.JSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to serialize resource policy (%v)\n", err)
		os.Exit(1)
	}
	fmt.Println(txt)
}
