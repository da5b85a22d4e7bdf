package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsToDebugFalse(t *testing.T) {
	os.Unsetenv("TRANSITCAT_DEBUG")
	assert.False(t, Load().Debug)
}

func TestLoadReadsDebugFromEnv(t *testing.T) {
	os.Setenv("TRANSITCAT_DEBUG", "true")
	defer os.Unsetenv("TRANSITCAT_DEBUG")

	assert.True(t, Load().Debug)
}
