package rpcpool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWriteConfigFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rpcs_config.yaml")

	cfg := &FileConfig{Blockchains: []BlockchainEndpoints{
		{Name: "ethereum", Contract: "0xabc", Topics: []string{"0x01", "0x02"}, StartBlock: 100, EndBlock: 200, RPCs: []string{"https://a", "https://b"}},
	}}
	require.NoError(t, WriteConfigFile(path, cfg))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigFile_MissingFile(t *testing.T) {
	_, err := LoadConfigFile("/nonexistent/path.yaml")
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestRingsFromConfig(t *testing.T) {
	cfg := &FileConfig{Blockchains: []BlockchainEndpoints{
		{Name: "ethereum", RPCs: []string{"https://a"}},
		{Name: "polygon", RPCs: []string{"https://b", "https://c"}},
	}}
	rings := RingsFromConfig(cfg)
	assert.Equal(t, []string{"https://a"}, rings["ethereum"])
	assert.Len(t, rings["polygon"], 2)
}
