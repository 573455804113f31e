package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// RunConfig is the optional YAML run file passed with --config.
// Unset keys keep the flag defaults; flags given on the command line win over the file.
type RunConfig struct {
	Algo    *string `yaml:"algo"`
	Frames  *int    `yaml:"frames"`
	Options *string `yaml:"options"`
	Seed    *int64  `yaml:"seed"`
	TraceDB *string `yaml:"trace_db"`
}

// loadRunConfig parses a run config with strict field checking: a misspelled key is an error.
func loadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyRunConfig copies the file's values into params for every flag not set explicitly.
func applyRunConfig(cmd *cobra.Command, cfg *RunConfig, params *runParams) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if cfg.Algo != nil && !changed("algo") {
		params.Algo = *cfg.Algo
	}
	if cfg.Frames != nil && !changed("frames") {
		params.Frames = *cfg.Frames
	}
	if cfg.Options != nil && !changed("options") {
		params.Options = *cfg.Options
	}
	if cfg.Seed != nil && !changed("seed") {
		params.Seed = *cfg.Seed
	}
	if cfg.TraceDB != nil && !changed("trace-db") {
		params.TraceDB = *cfg.TraceDB
	}
}
