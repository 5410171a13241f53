package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jnicall/config"
)

const version = "0.1.0"

var configPath string

// loadConfig reads --config when given, otherwise the jnicall.yaml
// nearest to dir.
func loadConfig(dir string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, _, err := config.Find(dir)
	return cfg, err
}

func main() {
	var verbosity int
	var logPath string

	rootCmd := &cobra.Command{
		Use:          "jnicall",
		Short:        "Expand JNI call expressions into Go",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logPath != "" {
				commonlog.Configure(verbosity, &logPath)
			} else {
				commonlog.Configure(verbosity, nil)
			}
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to jnicall.yaml")

	rootCmd.AddCommand(newExpandCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newSignatureCmd())
	rootCmd.AddCommand(newMangleCmd())
	rootCmd.AddCommand(newNativesCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
