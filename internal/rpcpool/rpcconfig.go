package rpcpool

import (
	"os"

	"gopkg.in/yaml.v3"
)

// BlockchainEndpoints is one entry of config/rpcs_config.yaml (spec §6):
// {blockchains: [{name, contract, topics, start_block, end_block, rpcs}]}.
type BlockchainEndpoints struct {
	Name       string   `yaml:"name"`
	Contract   string   `yaml:"contract"`
	Topics     []string `yaml:"topics"`
	StartBlock uint64   `yaml:"start_block"`
	EndBlock   uint64   `yaml:"end_block"`
	RPCs       []string `yaml:"rpcs"`
}

// FileConfig is the top-level shape of both rpcs_config.yaml and
// rpcs_base_config.yaml.
type FileConfig struct {
	Blockchains []BlockchainEndpoints `yaml:"blockchains"`
}

// LoadConfigFile reads a rpcs_config.yaml-shaped file from disk.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteConfigFile writes a rpcs_config.yaml-shaped file to disk, used by the
// Endpoint Probe to persist its filtered endpoint lists (spec §4.2).
func WriteConfigFile(path string, cfg *FileConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RingsFromConfig builds the chain -> endpoint-list map a Pool is seeded
// with.
func RingsFromConfig(cfg *FileConfig) map[string][]string {
	out := make(map[string][]string, len(cfg.Blockchains))
	for _, bc := range cfg.Blockchains {
		out[bc.Name] = bc.RPCs
	}
	return out
}
