package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"cytodiag/config"
	"cytodiag/dataset"
	"cytodiag/input"
	"cytodiag/ml"
)

// pipeline is everything derived from the dataset and the model artifacts.
// It is built once and only read afterwards.
type pipeline struct {
	table      *dataset.Table
	collector  *input.Collector
	normalizer *ml.MinMaxNormalizer
	predictor  *ml.Predictor
}

func buildPipeline(cfg *config.Config, log *zap.Logger) (*pipeline, error) {
	table, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", withSetupHint(err))
	}
	log.Info("dataset loaded", zap.String("path", cfg.Dataset.Path), zap.Int("rows", table.Len()))

	descriptors, err := input.Describe(table)
	if err != nil {
		return nil, fmt.Errorf("describe dataset: %w", err)
	}
	collector, err := input.NewCollector(table.Schema(), descriptors)
	if err != nil {
		return nil, err
	}
	normalizer, err := ml.NewMinMaxNormalizer(table)
	if err != nil {
		return nil, fmt.Errorf("fit normalizer: %w", err)
	}

	predictor, err := ml.LoadPredictor(table.Schema(), cfg.Model.Kind, cfg.Model.Path, cfg.Model.ScalerPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", withSetupHint(err))
	}
	log.Info("model loaded",
		zap.String("kind", predictor.Kind()),
		zap.String("model", cfg.Model.Path),
		zap.String("scaler", cfg.Model.ScalerPath),
	)

	return &pipeline{
		table:      table,
		collector:  collector,
		normalizer: normalizer,
		predictor:  predictor,
	}, nil
}

// withSetupHint points at the setup notes when a configured file is absent.
// The dataset and the exported artifacts are not part of the repository.
func withSetupHint(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w (see README.md, \"Data and model artifacts\")", err)
	}
	return err
}
