// Package cmd wires the cytodiag command line.
package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"cytodiag/config"
)

const defaultConfigPath = "config.yaml"

var rootCmd = &cobra.Command{
	Use:   "cytodiag",
	Short: "Breast mass diagnosis dashboard",
	Long:  "cytodiag serves an interactive dashboard that classifies cell nuclei measurements as benign or malignant.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Path to the YAML configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(fieldsCmd)
}

// loadConfig reads the --config file. The default path may be absent, in
// which case the built-in defaults apply; an explicit path must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return cfg, err
}
