package main

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed settings.yaml
var settingsYAML []byte

// StageSettings carries the deploy-time knobs that vary between stages.
type StageSettings struct {
	StageName            string  `yaml:"stage_name"`
	Environment          string  `yaml:"environment"`
	TableName            string  `yaml:"table_name"`
	LambdaMemoryMB       float64 `yaml:"lambda_memory_mb"`
	LambdaTimeoutSeconds float64 `yaml:"lambda_timeout_seconds"`
}

func loadStageSettings() (*StageSettings, error) {
	var settings StageSettings
	if err := yaml.Unmarshal(settingsYAML, &settings); err != nil {
		return nil, fmt.Errorf("error parsing settings yaml: %w", err)
	}
	if settings.TableName == "" {
		return nil, fmt.Errorf("settings yaml has no table_name")
	}
	return &settings, nil
}
