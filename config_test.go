package tiered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidateDefaults(t *testing.T) {
	require.NoError(t, Config{}.Validate())
}

func TestConfigValidateNegativeLocalCapacity(t *testing.T) {
	err := Config{LocalCapacity: -1}.Validate()
	require.Error(t, err)
}

func TestConfigWithDefaultsFillsZeroFields(t *testing.T) {
	c := Config{}.withDefaults()
	require.Equal(t, DefaultConfig().BlockSize, c.BlockSize)
	require.Equal(t, DefaultConfig().LocalCapacity, c.LocalCapacity)
}

func TestConfigWithDefaultsPreservesNonZeroFields(t *testing.T) {
	c := Config{BlockSize: 4096, LocalCapacity: 10}.withDefaults()
	require.Equal(t, uint64(4096), c.BlockSize)
	require.Equal(t, 10, c.LocalCapacity)
}
