package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedFile(t *testing.T) {
	Env = map[string]string{"APP_PORT": "4000"}
	t.Cleanup(func() { Env = nil })
	t.Setenv("APP_PORT", "5000")

	assert.Equal(t, "4000", GetEnv("APP_PORT", "8080"))
}

func TestGetEnvFallsBack(t *testing.T) {
	Env = nil
	t.Setenv("NEWSDESK_TEST_KEY", "from-os")

	assert.Equal(t, "from-os", GetEnv("NEWSDESK_TEST_KEY", "def"))
	assert.Equal(t, "def", GetEnv("NEWSDESK_TEST_MISSING", "def"))
}

func TestTypedGetters(t *testing.T) {
	Env = map[string]string{
		"WORKERS":  "4",
		"BROKEN":   "four",
		"ENABLED":  "true",
		"DISABLED": "nope",
	}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, 4, GetEnvInt("WORKERS", 1))
	assert.Equal(t, 1, GetEnvInt("BROKEN", 1))
	assert.Equal(t, 9, GetEnvInt("UNSET_INT", 9))
	assert.True(t, GetEnvBool("ENABLED", false))
	assert.False(t, GetEnvBool("DISABLED", false))
	assert.True(t, GetEnvBool("UNSET_BOOL", true))
}
