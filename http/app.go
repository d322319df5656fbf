package http

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cytodiag/chart"
	"cytodiag/db"
	"cytodiag/i18n"
	"cytodiag/input"
	"cytodiag/ml"
)

// App holds everything the dashboard derives at startup. It is shared
// read-only by every request.
type App struct {
	Collector  *input.Collector
	Normalizer *ml.MinMaxNormalizer
	Predictor  ml.ModelProvider
	Store      *db.Store
	Locale     string
	Logger     *zap.Logger
}

// Panel is the localized prediction panel.
type Panel struct {
	Heading       string `json:"heading"`
	Lead          string `json:"lead"`
	Label         string `json:"label"`
	LabelClass    string `json:"label_class"`
	ProbBenign    string `json:"prob_benign"`
	ProbMalignant string `json:"prob_malignant"`
	Disclaimer    string `json:"disclaimer"`
}

// Evaluation is one run of the pipeline for a set of slider positions.
type Evaluation struct {
	Locale     string             `json:"locale"`
	Inputs     map[string]float64 `json:"inputs"`
	Scaled     map[string]float64 `json:"scaled"`
	Radar      chart.Radar        `json:"radar"`
	Prediction ml.Result          `json:"prediction"`
	Panel      Panel              `json:"panel"`
}

// errBadInput marks failures caused by the request rather than the server.
var errBadInput = errors.New("bad input")

// errUnavailable marks optional components the server was started without.
var errUnavailable = errors.New("not available")

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Evaluate normalizes v for the chart and classifies the raw values.
func (a *App) Evaluate(ctx context.Context, v input.Vector, locale string) (*Evaluation, error) {
	scaled, err := a.Normalizer.Normalize(v)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	radar, err := chart.Build(scaled, locale)
	if err != nil {
		return nil, fmt.Errorf("radar: %w", err)
	}
	result, err := a.Predictor.Predict(ctx, v.Values())
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	return &Evaluation{
		Locale:     locale,
		Inputs:     v.Map(),
		Scaled:     scaled.Map(),
		Radar:      radar,
		Prediction: result,
		Panel:      buildPanel(result, locale),
	}, nil
}

func buildPanel(result ml.Result, locale string) Panel {
	texts := i18n.Lookup(locale)
	class := "benign"
	if result.Label == ml.ClassMalignant {
		class = "malicious"
	}
	return Panel{
		Heading:       texts.PanelHeader,
		Lead:          texts.PanelLead,
		Label:         texts.DiagnosisName(result.Label),
		LabelClass:    class,
		ProbBenign:    texts.FormatProbability(result.Probabilities[ml.ClassBenign]),
		ProbMalignant: texts.FormatProbability(result.Probabilities[ml.ClassMalignant]),
		Disclaimer:    texts.Disclaimer,
	}
}

func (a *App) locale(query, acceptLanguage string) string {
	fallback := a.Locale
	if fallback == "" {
		fallback = i18n.Indonesian
	}
	return i18n.Match(query, acceptLanguage, fallback)
}
