// Package main is the entry point for the reflectix CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvasir-sec/reflectix/pkg/config"
	"github.com/kvasir-sec/reflectix/pkg/runner"
)

var opts = runner.DefaultOptions()

var rootCmd = &cobra.Command{
	Use:   "reflectix [urls...]",
	Short: "Context-aware reflected XSS scanner",
	Long: `reflectix probes URL and body parameters for reflected cross-site
scripting. Every candidate reflection is confirmed with two random
discriminant tokens before any payload is sent, the surrounding HTML
context is classified, and only a payload verified verbatim in the
response is reported.

Target URLs are taken from the arguments, or from stdin when none are
given.`,
	Version: config.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if opts.Concurrency < 1 {
			return fmt.Errorf("concurrency must be at least 1")
		}
		cmd.SilenceUsage = true
		os.Exit(runner.NewRunner(opts).Run(args))
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&opts.Concurrency, "concurrency", "c", opts.Concurrency, "Number of parallel targets")
	flags.DurationVarP(&opts.Timeout, "timeout", "t", opts.Timeout, "Request timeout")
	flags.StringVarP(&opts.Proxy, "proxy", "x", "", "Proxy URL (e.g. http://127.0.0.1:8080)")
	flags.StringArrayVarP(&opts.Headers, "header", "H", nil, "Custom header (e.g. 'Cookie: session=123')")
	flags.Float64Var(&opts.RateLimit, "rate-limit", 0, "Maximum requests per second (0 = unlimited)")

	flags.IntVar(&opts.AttackLevel, "level", opts.AttackLevel, "Attack level (2 adds body parameters)")
	flags.BoolVar(&opts.DoPost, "post", false, "Attack body parameters too")
	flags.StringVarP(&opts.Data, "data", "d", "", "Request body (form encoded)")
	flags.BoolVar(&opts.Fingerprint, "fingerprint", false, "Run technology fingerprinting modules")

	flags.StringVarP(&opts.OutputFormat, "output", "o", opts.OutputFormat, "Output format (human, json, url)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output")
	flags.BoolVar(&opts.VeryVerbose, "vv", false, "Very verbose output")
	flags.BoolVarP(&opts.Silent, "silent", "s", false, "Suppress progress output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
