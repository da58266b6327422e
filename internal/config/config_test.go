package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/conf"
)

const minimal = `Rest:
  Name: test-token
  Port: 8001
`

func TestDefaults(t *testing.T) {
	var c Config
	require.NoError(t, conf.LoadFromYamlBytes([]byte(minimal), &c))

	assert.Equal(t, "FAUCET", c.Banner.Text)
	assert.NotContains(t, c.Banner.Text, " ")
	assert.Equal(t, "standard", c.Banner.FontName)
	assert.Equal(t, "mint", c.Faucet.Label)
	assert.Equal(t, "simnet", c.Faucet.Backend)
	assert.EqualValues(t, 9, c.Faucet.Decimals)
	assert.Equal(t, 256, c.Events.Capacity)
	assert.Equal(t, 64, c.Events.Buffer)
}

func TestEventsRange(t *testing.T) {
	var c Config
	err := conf.LoadFromYamlBytes([]byte(minimal+"Events:\n  Capacity: 0\n"), &c)
	assert.Error(t, err)

	err = conf.LoadFromYamlBytes([]byte(minimal+"Events:\n  Buffer: 0\n"), &c)
	assert.Error(t, err)
}

func TestBackendOptions(t *testing.T) {
	var c Config
	err := conf.LoadFromYamlBytes([]byte(minimal+"Faucet:\n  Backend: devnet\n"), &c)
	assert.Error(t, err)
}
