package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // .hcl file or directory of .hcl files
	Target    string // node to evaluate; empty means every sink node
	Inspect   bool   // print the graph structure instead of evaluating
	SavePath  string // re-serialize the graph here after evaluation

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
