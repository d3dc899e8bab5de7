// SPDX-License-Identifier: EPL-2.0

// Package config loads mediakit settings from an optional file, an optional
// .env file and MEDIAKIT_ environment variables, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ik5/mediakit/playback"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment key, e.g.
// MEDIAKIT_AUDIO_SAMPLE_RATE.
const EnvPrefix = "MEDIAKIT"

var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration options for mediakit.
type Config struct {
	Audio    AudioConfig    `mapstructure:"audio" yaml:"audio"`
	Fetch    FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// AudioConfig describes the output context.
type AudioConfig struct {
	SampleRate int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels   int           `mapstructure:"channels" yaml:"channels"`
	BufferSize time.Duration `mapstructure:"buffer_size" yaml:"buffer_size"`
	// LoopPolicy is "replace" or "orphan".
	LoopPolicy string `mapstructure:"loop_policy" yaml:"loop_policy"`
}

type FetchConfig struct {
	// BaseURL resolves relative locators over HTTP when set. Otherwise they
	// are read from Root.
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Root    string        `mapstructure:"root" yaml:"root"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type DownloadConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns a Config with the built-in values.
func Defaults() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate: playback.DefaultOptions.SampleRate,
			Channels:   playback.DefaultOptions.ChannelCount,
			BufferSize: playback.DefaultOptions.BufferSize,
			LoopPolicy: playback.LoopReplace.String(),
		},
		Fetch: FetchConfig{
			Root:    ".",
			Timeout: 30 * time.Second,
		},
		Download: DownloadConfig{Dir: "."},
		Log:      LogConfig{Level: logrus.WarnLevel.String()},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.channels", d.Audio.Channels)
	v.SetDefault("audio.buffer_size", d.Audio.BufferSize)
	v.SetDefault("audio.loop_policy", d.Audio.LoopPolicy)
	v.SetDefault("fetch.base_url", d.Fetch.BaseURL)
	v.SetDefault("fetch.root", d.Fetch.Root)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("download.dir", d.Download.Dir)
	v.SetDefault("log.level", d.Log.Level)
}

// Load reads configPath (YAML, TOML or JSON by extension) when it is not
// empty, then overlays the environment. A .env file in the working
// directory is loaded first if present; variables already set win.
func Load(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field for values the runtime cannot use.
func (c Config) Validate() error {
	var errs []error

	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d out of range [8000, 192000]", c.Audio.SampleRate))
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		errs = append(errs, fmt.Errorf("audio.channels must be 1 or 2, got %d", c.Audio.Channels))
	}
	if c.Audio.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("audio.buffer_size %s is negative", c.Audio.BufferSize))
	}
	if _, err := playback.ParseLoopPolicy(c.Audio.LoopPolicy); err != nil {
		errs = append(errs, fmt.Errorf("audio.loop_policy: %w", err))
	}

	if c.Fetch.BaseURL != "" {
		u, err := url.Parse(c.Fetch.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("fetch.base_url %q is not an http(s) URL", c.Fetch.BaseURL))
		}
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}

// PlaybackOptions converts the audio section for playback.WithOptions.
func (c Config) PlaybackOptions() playback.Options {
	return playback.Options{
		SampleRate:   c.Audio.SampleRate,
		ChannelCount: c.Audio.Channels,
		BufferSize:   c.Audio.BufferSize,
	}
}

// LoopPolicy returns the parsed audio.loop_policy, LoopReplace when invalid.
func (c Config) LoopPolicy() playback.LoopPolicy {
	p, err := playback.ParseLoopPolicy(c.Audio.LoopPolicy)
	if err != nil {
		return playback.LoopReplace
	}
	return p
}

// BaseURL returns the parsed fetch.base_url, or nil when unset.
func (c Config) BaseURL() *url.URL {
	if c.Fetch.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.Fetch.BaseURL)
	if err != nil {
		return nil
	}
	return u
}

// NewLogger builds a text logger on stderr at log.level.
func (c Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	l.SetLevel(level)

	return l
}

// YAML renders c in the file format Load reads.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

// WriteDefault writes the default configuration to path. An existing file
// is left alone and reported as fs.ErrExist.
func WriteDefault(path string) error {
	data, err := Defaults().YAML()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing config: %w", err)
	}

	return f.Close()
}
