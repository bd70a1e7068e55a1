// Package version implements "apigw-org-access version" command.
package version

import (
	"fmt"

	"github.com/dacarey/apigw-org-access/version"

	"github.com/spf13/cobra"
)

func init() {
	cobra.EnablePrefixMatching = true
}

// NewCommand implements "apigw-org-access version" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints out apigw-org-access version",
		Run:   versionFunc,
	}
}

func versionFunc(cmd *cobra.Command, args []string) {
	fmt.Printf(`GitCommit: %s
ReleaseVersion: %s
BuildTime: %s
`,
		version.GitCommit,
		version.ReleaseVersion,
		version.BuildTime,
	)
}
