package grx

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerHonoursLevel(t *testing.T) {
	v := viper.New()
	v.Set("grx.log.level", "warn")
	var buf bytes.Buffer
	logger := NewLogger(NewConfig(v), &buf)

	logger.Infof("hidden")
	logger.Warnf("shown %d", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
}

func TestNewLoggerJSONFields(t *testing.T) {
	v := viper.New()
	v.Set("grx.log.formatter", "json")
	var buf bytes.Buffer
	logger := NewLogger(NewConfig(v), &buf)

	logger.WithField("subscription", "s1").With(map[string]interface{}{"value": 2}).Infof("next")
	assert.Contains(t, buf.String(), `"subscription":"s1"`)
	assert.Contains(t, buf.String(), `"value":2`)
	assert.Contains(t, buf.String(), `"msg":"next"`)
}

func TestNopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NopLogger().WithField("k", "v").Errorf("dropped")
	})
}
