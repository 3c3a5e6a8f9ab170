// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/config"
)

const version = "1.0.0"

var (
	// Flags for root command
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "proteaseguru",
	Short: "ProteaseGuru - in-silico protein digestion tool",
	Long: `ProteaseGuru digests protein databases (FASTA or UniProt XML, optionally
gzip compressed) with one or more proteases and reports every peptide with:
- Uniqueness within its database and across all databases of the run
- Hydrophobicity
- Electrophoretic mobility (Cifuentes model)

Options can be given as flags, in a YAML config file (--config) or as
PROTEASEGURU_* environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file with digest options")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(proteasesCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file and environment variables
func initConfig() {
	config.Bind(viper.GetViper())
	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		cobra.CheckErr(fmt.Errorf("failed to read config file: %w", err))
	}
}

// newLogger logs warnings in production format, or everything with --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "proteaseguru %s\n", version)
	},
}
