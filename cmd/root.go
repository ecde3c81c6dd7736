package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version = "0.1.0"
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "analyzer",
		Short:         "AI-driven security findings aggregation",
		Long:          "Runs nine AI category analyses over a submission and assembles findings, a report, attack vectors and remediation playbooks.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags; keys match the environment variables config.Load reads
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("locale", "", "Locale of fixed messages (en, es)")
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("PIPELINE_LOCALE", rootCmd.PersistentFlags().Lookup("locale"))

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newGrantCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}
}
