package config

import (
	"io"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config represents configuration for the watcher
type Config struct {
	Targets []string `yaml:"targets"`

	Watch struct {
		StateDir    string   `yaml:"state-dir"`
		LogFile     string   `yaml:"log-file"`
		Retries     int      `yaml:"retries"`
		Timeout     duration `yaml:"timeout"`
		MetricsFile string   `yaml:"metrics-file"`
	} `yaml:"watch"`

	DNS struct {
		Nameserver string `yaml:"nameserver"`
	} `yaml:"dns"`
}

type duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (d *duration) UnmarshalYAML(unmashal func(interface{}) error) error {
	var s string
	if err := unmashal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(dur)
	return nil
}

// Duration is a convenience getter.
func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

// Set updates the underlying duration.
func (d *duration) Set(dur time.Duration) {
	*d = duration(dur)
}

// FromYAML reads YAML from reader and unmarshals it to Config
func FromYAML(r io.Reader) (*Config, error) {
	c := &Config{}
	err := yaml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
