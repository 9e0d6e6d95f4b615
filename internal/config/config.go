// Package config loads the service configuration from a YAML file with sane
// defaults for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr string `yaml:"addr"`
}

type Storage struct {
	UploadDir         string `yaml:"upload_dir"`
	KnowledgeFile     string `yaml:"knowledge_file"`
	VisualizationsDir string `yaml:"visualizations_dir"`
	RunsDB            string `yaml:"runs_db"`
}

type Interpreter struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Config struct {
	Server      Server      `yaml:"server"`
	Storage     Storage     `yaml:"storage"`
	Interpreter Interpreter `yaml:"interpreter"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			UploadDir:         "data/uploads",
			KnowledgeFile:     "data/knowledge_base.json",
			VisualizationsDir: "data/visualizations",
			RunsDB:            "data/runs.db",
		},
		Interpreter: Interpreter{
			BaseURL:        "http://localhost:11434",
			Model:          "llama3",
			TimeoutSeconds: 120,
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// path is empty or the file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// InterpreterTimeout returns the configured interpreter timeout as a duration.
func (c Config) InterpreterTimeout() time.Duration {
	if c.Interpreter.TimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.Interpreter.TimeoutSeconds) * time.Second
}
