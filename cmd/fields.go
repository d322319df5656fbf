package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cytodiag/i18n"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the measurement fields with their dataset range and mean",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err := quietLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		p, err := buildPipeline(cfg, log)
		if err != nil {
			return err
		}

		locale := i18n.Match(lang, "", cfg.Locale.Default)
		controls := p.collector.Controls(locale)
		descriptors := p.collector.Descriptors()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %-32s  %12s  %12s  %12s\n", "Key", "Label", "Min", "Max", "Mean")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for i, d := range descriptors {
			fmt.Fprintf(out, "%-24s  %-32s  %12.6g  %12.6g  %12.6g\n",
				d.Key, controls[i].Label, d.Min, d.Max, d.Mean)
		}
		return nil
	},
}

func init() {
	fieldsCmd.Flags().String("lang", "", "Label language (id or en)")
}
