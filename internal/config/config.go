// Package config provides configuration for go-wisp commands: defaults,
// an optional wisp.yml file, and environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level wisp.yml configuration.
type Config struct {
	LogLevel string       `yaml:"log_level,omitempty"`
	Model    ModelConfig  `yaml:"model"`
	Detect   DetectConfig `yaml:"detect"`
	Scene    SceneConfig  `yaml:"scene"`
	Agent    AgentConfig  `yaml:"agent"`
	Web      WebConfig    `yaml:"web"`
}

// ModelConfig locates and shapes the detection model.
type ModelConfig struct {
	Path        string `yaml:"path"`
	InputWidth  int    `yaml:"input_width"`
	InputHeight int    `yaml:"input_height"`
	Boxes       int    `yaml:"boxes"` // Candidate box count N of the export
}

// DetectConfig holds decoder thresholds.
type DetectConfig struct {
	ConfidenceThresh float64  `yaml:"confidence_thresh"`
	IoUThresh        float64  `yaml:"iou_thresh"`
	MaxDetections    int      `yaml:"max_detections"`
	Labels           []string `yaml:"labels,omitempty"`
}

// SceneConfig holds placement parameters.
type SceneConfig struct {
	MarginSize float64 `yaml:"margin_size"` // Minimum distance between placements (world units)
}

// AgentConfig holds motion parameters.
type AgentConfig struct {
	MovementSpeed  float64 `yaml:"movement_speed"` // World units per second
	RotationSpeed  float64 `yaml:"rotation_speed"` // Degrees per second
	SmoothMovement bool    `yaml:"smooth_movement"`
	SafeDistance   float64 `yaml:"safe_distance"` // Stand-off from navigation targets
}

// WebConfig holds the dashboard settings.
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port,omitempty"`
}

// Default returns the recommended configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Model: ModelConfig{
			Path:        "models/wisp-det.onnx",
			InputWidth:  640,
			InputHeight: 480,
			Boxes:       6300,
		},
		Detect: DetectConfig{
			ConfidenceThresh: 0.7,
			IoUThresh:        0.45,
			MaxDetections:    10,
			Labels:           []string{"object"},
		},
		Scene: SceneConfig{
			MarginSize: 0.03,
		},
		Agent: AgentConfig{
			MovementSpeed:  0.05,
			RotationSpeed:  360,
			SmoothMovement: true,
			SafeDistance:   0.1,
		},
		Web: WebConfig{
			Enabled: true,
			Port:    "8090",
		},
	}
}

// Load reads path over the defaults. A missing file is fine; a malformed
// one is not.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return applyEnv(cfg), nil
}

// applyEnv layers environment overrides on top of file values.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("WISP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WISP_MODEL"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("WISP_WEB_PORT"); v != "" {
		cfg.Web.Port = v
	}
	return cfg
}
