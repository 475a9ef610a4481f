package config_test

import (
	"testing"
	"time"

	"github.com/mchoji/clairvoyancex/config"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	c := config.New("https://example.com/graphql")
	assert.NoError(t, c.Validate())
	assert.Equal(t, "POST", c.Command)
	assert.Equal(t, 4096, c.BucketSize)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.True(t, c.Verify)
	assert.Equal(t, "query { FUZZ }", c.Document)
}

func TestOptionsApply(t *testing.T) {
	c := config.New("https://example.com/graphql",
		config.WithCommand("GET"),
		config.WithBucketSize(128),
		config.WithTimeout(2*time.Second),
		config.WithHeader("User-Agent", "test"),
		config.WithParam("env", "staging"),
		config.WithVerify(false),
		config.WithHTTP2(true),
	)

	assert.NoError(t, c.Validate())
	assert.Equal(t, "GET", c.Command)
	assert.Equal(t, 128, c.BucketSize)
	assert.Equal(t, 2*time.Second, c.Timeout)
	assert.Equal(t, "test", c.Headers["User-Agent"])
	assert.Equal(t, "staging", c.Params["env"])
	assert.False(t, c.Verify)
	assert.True(t, c.HTTP2)
}

func TestValidateRejectsBadURL(t *testing.T) {
	c := config.New("not-a-url")
	assert.Error(t, c.Validate())
}

func TestValidateRejectsBadCommand(t *testing.T) {
	c := config.New("https://example.com", config.WithCommand("DELETE"))
	assert.Error(t, c.Validate())
}

func TestValidateRejectsZeroBucketSize(t *testing.T) {
	c := config.New("https://example.com", config.WithBucketSize(0))
	assert.Error(t, c.Validate())
}
