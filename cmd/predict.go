package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cytodiag/config"
	"cytodiag/i18n"
	"cytodiag/logger"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Classify one set of measurements",
	Long: "Classify one set of measurements. Fields not given with --set keep their dataset mean,\n" +
		"and every value is clamped to the slider range [0, max].",
	Example: "  cytodiag predict --set radius_mean=17.99 --set \"concave points_worst\"=0.2654",
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		asJSON, _ := cmd.Flags().GetBool("json")
		lang, _ := cmd.Flags().GetString("lang")

		values, err := parseAssignments(sets)
		if err != nil {
			return err
		}

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

		v := p.collector.Collect(values)
		result, err := p.predictor.PredictVector(cmd.Context(), v)
		if err != nil {
			return fmt.Errorf("predict: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"inputs":     v.Map(),
				"prediction": result,
			})
		}

		texts := i18n.Lookup(i18n.Match(lang, "", cfg.Locale.Default))
		fmt.Fprintf(out, "%s %s\n", texts.PanelLead, texts.DiagnosisName(result.Label))
		fmt.Fprintf(out, "%s: %s\n", texts.ProbBenign, texts.FormatProbability(result.Probabilities[0]))
		fmt.Fprintf(out, "%s: %s\n", texts.ProbMalignant, texts.FormatProbability(result.Probabilities[1]))
		return nil
	},
}

func init() {
	predictCmd.Flags().StringArray("set", nil, "Field value as key=value (repeatable)")
	predictCmd.Flags().Bool("json", false, "Print the inputs and prediction as JSON")
	predictCmd.Flags().String("lang", "", "Output language (id or en)")
}

// parseAssignments turns key=value pairs into a value map. Keys may contain
// spaces ("concave points_mean").
func parseAssignments(sets []string) (map[string]float64, error) {
	values := make(map[string]float64, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", s, err)
		}
		values[key] = v
	}
	return values, nil
}

// quietLogger keeps one-shot commands from printing info lines around their
// output.
func quietLogger(cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Log
	if logCfg.Level == "" || logCfg.Level == "info" || logCfg.Level == "debug" {
		logCfg.Level = "warn"
	}
	return logger.New(logCfg)
}
