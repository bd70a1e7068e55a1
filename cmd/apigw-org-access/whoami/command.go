// Package whoami implements "apigw-org-access whoami" commands.
package whoami

import (
	"fmt"
	"net/http"
	"os"

	internal_whoami "github.com/dacarey/apigw-org-access/internal/whoami"
	pkg_aws "github.com/dacarey/apigw-org-access/pkg/aws"
	"github.com/dacarey/apigw-org-access/pkg/awscurl"
	"github.com/dacarey/apigw-org-access/pkg/logutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	cobra.EnablePrefixMatching = true
}

var (
	logLevel  string
	partition string
	region    string

	listenAddress string
	uri           string
)

// NewCommand implements "apigw-org-access whoami" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Caller identity diagnostic commands",
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logutil.DefaultLogLevel, "Log level (debug, info, warn, error, dpanic, panic, fatal)")
	cmd.PersistentFlags().StringVar(&partition, "partition", "aws", "AWS partition")
	cmd.PersistentFlags().StringVar(&region, "region", "us-west-2", "AWS region")
	cmd.AddCommand(
		newServe(),
		newCall(),
	)
	return cmd
}

func newServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the caller identity diagnostic endpoint",
		Run:   serveFunc,
	}
	cmd.PersistentFlags().StringVar(&listenAddress, "listen-address", ":8080", "Address to serve the diagnostic endpoint on")
	return cmd
}

func serveFunc(cmd *cobra.Command, args []string) {
	lcfg := logutil.GetDefaultZapLoggerConfig()
	lcfg.Level = zap.NewAtomicLevelAt(logutil.ConvertToZapLevel(logLevel))
	lg, err := lcfg.Build()
	if err != nil {
		panic(err)
	}

	awsCfgV2, err := pkg_aws.NewV2(&pkg_aws.Config{
		Logger:        lg,
		DebugAPICalls: logLevel == "debug",
		Partition:     partition,
		Region:        region,
	})
	if err != nil {
		lg.Fatal("failed to create AWS session", zap.Error(err))
	}

	// one resolver for the process lifetime, shared across requests
	resolver := internal_whoami.NewResolver(awsCfgV2)
	mux := internal_whoami.NewMux(lg, resolver)

	lg.Info("serving diagnostic endpoint",
		zap.String("listen-address", listenAddress),
		zap.String("path", internal_whoami.Path),
	)
	if err = http.ListenAndServe(listenAddress, mux); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func newCall() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call",
		Short: "Sends one SigV4-signed request to the diagnostic endpoint",
		Run:   callFunc,
	}
	cmd.PersistentFlags().StringVar(&uri, "uri", "", "Full URI of the diagnostic endpoint")
	return cmd
}

func callFunc(cmd *cobra.Command, args []string) {
	if uri == "" {
		fmt.Fprintln(os.Stderr, "'--uri' flag is not specified")
		os.Exit(1)
	}
	cli := awscurl.New(awscurl.Config{
		URI:     uri,
		Method:  http.MethodGet,
		Region:  region,
		Service: "execute-api",
	})
	res, err := cli.Do()
	if err != nil {
		fmt.Fprintf(os.Stderr, "whoami call failed (%v)\n%s\n", err, res)
		os.Exit(1)
	}
	fmt.Println(res)
}
