package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxstream-go"
	"gopkg.in/yaml.v2"
)

// Config is the YAML configuration of the example.
type Config struct {
	Transport       string        `yaml:"transport"`
	Endpoint        string        `yaml:"endpoint"`
	BaudRate        int           `yaml:"baud_rate"`
	DataBits        int           `yaml:"data_bits"`
	Parity          string        `yaml:"parity"`
	StopBits        string        `yaml:"stop_bits"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	MaxOpenAttempts int           `yaml:"max_open_attempts"`
	PollMode        string        `yaml:"poll_mode"`
	Tick            time.Duration `yaml:"tick"`
	Trace           string        `yaml:"trace"`
	Language        string        `yaml:"language"`
	Listen          string        `yaml:"listen"`
	Message         string        `yaml:"message"`
}

func defaultConfig() Config {
	s := gxstream.DefaultSettings()
	return Config{
		Transport:       s.Type.String(),
		BaudRate:        int(s.BaudRate),
		DataBits:        s.DataBits,
		Parity:          "None",
		ReadTimeout:     s.ReadTimeout,
		WriteTimeout:    s.WriteTimeout,
		ConnectTimeout:  s.ConnectTimeout,
		MaxOpenAttempts: s.MaxOpenAttempts,
		PollMode:        s.PollMode.String(),
		Tick:            gxstream.DefaultTick,
	}
}

func loadConfig(path string, cfg *Config) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return fmt.Errorf("unmarshaling yaml file: %w", err)
	}
	return nil
}

// settings converts the configuration into media settings.
func (c *Config) settings() (gxstream.Settings, error) {
	s := gxstream.DefaultSettings()
	var err error
	if s.Type, err = gxstream.TransportTypeParse(c.Transport); err != nil {
		return s, fmt.Errorf("transport: %w", err)
	}
	if c.Parity != "" {
		if s.Parity, err = gxcommon.ParityParse(c.Parity); err != nil {
			return s, fmt.Errorf("parity: %w", err)
		}
	}
	if c.StopBits != "" {
		if s.StopBits, err = gxcommon.StopBitsParse(c.StopBits); err != nil {
			return s, fmt.Errorf("stop bits: %w", err)
		}
	}
	if s.PollMode, err = gxstream.PollModeParse(c.PollMode); err != nil {
		return s, fmt.Errorf("poll mode: %w", err)
	}
	s.Endpoint = c.Endpoint
	s.BaudRate = gxcommon.BaudRate(c.BaudRate)
	s.DataBits = c.DataBits
	s.ReadTimeout = c.ReadTimeout
	s.WriteTimeout = c.WriteTimeout
	s.ConnectTimeout = c.ConnectTimeout
	s.MaxOpenAttempts = c.MaxOpenAttempts
	return s, nil
}
