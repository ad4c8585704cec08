package grx

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is a read-only view on layered settings.
type Config interface {
	IsSet(string) bool

	GetBoolDefault(string, bool) bool
	GetIntDefault(string, int) int
	GetStringDefault(string, string) string
	GetDurationDefault(string, time.Duration) time.Duration

	Sub(string) (Config, bool)
}

// NewConfig wraps v. A nil v wraps the global viper instance.
func NewConfig(v *viper.Viper) Config {
	if v == nil {
		v = viper.GetViper()
	}
	return &viperWrapper{v}
}

// LoadConfig reads path into a fresh viper instance. Environment variables
// prefixed with GRX_ override file values, with dots in keys written as
// underscores; an empty path yields a config backed by the environment only.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("grx")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path == "" {
		return &viperWrapper{v}, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "grx: read config %s", path)
	}
	return &viperWrapper{v}, nil
}

type viperWrapper struct {
	*viper.Viper
}

func (w *viperWrapper) GetBoolDefault(key string, v bool) bool {
	if w.IsSet(key) {
		return w.GetBool(key)
	}
	return v
}

func (w *viperWrapper) GetIntDefault(key string, v int) int {
	if w.IsSet(key) {
		return w.GetInt(key)
	}
	return v
}

func (w *viperWrapper) GetStringDefault(key string, v string) string {
	if w.IsSet(key) {
		return w.GetString(key)
	}
	return v
}

func (w *viperWrapper) GetDurationDefault(key string, v time.Duration) time.Duration {
	if w.IsSet(key) {
		return w.GetDuration(key)
	}
	return v
}

func (w *viperWrapper) Sub(key string) (Config, bool) {
	if sub := w.Viper.Sub(key); sub != nil {
		return &viperWrapper{sub}, true
	}
	return nil, false
}
