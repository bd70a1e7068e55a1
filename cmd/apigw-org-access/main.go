// apigw-org-access restricts an API Gateway REST API to allow-listed
// AWS Organizations, with a caller identity diagnostic endpoint.
package main

import (
	"fmt"
	"os"

	"github.com/dacarey/apigw-org-access/cmd/apigw-org-access/policy"
	"github.com/dacarey/apigw-org-access/cmd/apigw-org-access/version"
	"github.com/dacarey/apigw-org-access/cmd/apigw-org-access/whoami"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:        "apigw-org-access",
	Short:      "API Gateway organization access CLI",
	SuggestFor: []string{"apigw-org", "apigworgaccess"},
}

func init() {
	cobra.EnablePrefixMatching = true
}

func init() {
	rootCmd.AddCommand(
		policy.NewCommand(),
		whoami.NewCommand(),
		version.NewCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "apigw-org-access failed %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
