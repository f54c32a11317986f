// Package config loads the INI-style configuration described in spec.md §6
// using viper, and exposes typed section getters so callers never touch raw
// key strings.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Server holds network.server.* settings.
type Server struct {
	Port              uint16
	Protocol          string
	BackoffMaxSeconds int
	RetryLimit        uint32
	ThreadWaitMs      int
	EnableRelay       bool
}

// Client holds network.client.* settings.
type Client struct {
	Hostname        string
	Port            uint16
	BackoffInitialMs int
	BackoffMaxMs    int
	RetryLimit      uint32
	EnableRelay     bool
}

// Debug holds debug.* settings.
type Debug struct {
	SuppressThreads string
}

// Config is the fully resolved, typed configuration surface.
type Config struct {
	v        *viper.Viper
	server   Server
	client   Client
	debug    Debug
	sendFile string
}

// Load reads an INI file at path and applies the defaults from spec.md §6
// for every key the file omits.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return fromViper(v), nil
}

// Parse builds a Config directly from in-memory INI text, used by tests and
// anywhere a config is supplied without a file on disk.
func Parse(iniText string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("ini")
	applyDefaults(v)

	if err := v.ReadConfig(strings.NewReader(iniText)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return fromViper(v), nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("network.server.server_port", 4199)
	v.SetDefault("network.server.protocol", "tcp")
	v.SetDefault("network.server.backoff_max_seconds", 32)
	v.SetDefault("network.server.retry_limit", 10)
	v.SetDefault("network.server.thread_wait_timeout_ms", 5000)
	v.SetDefault("network.server.enable_relay", false)

	v.SetDefault("network.client.server_hostname", "localhost")
	v.SetDefault("network.client.server_port", 4200)
	v.SetDefault("network.client.backoff_initial_ms", 1000)
	v.SetDefault("network.client.backoff_max_ms", 32000)
	v.SetDefault("network.client.retry_limit", 10)
	v.SetDefault("network.client.enable_relay", false)

	v.SetDefault("server.send_file", "")
	v.SetDefault("debug.suppress_threads", "")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		v: v,
		server: Server{
			Port:              uint16(v.GetUint32("network.server.server_port")),
			Protocol:          v.GetString("network.server.protocol"),
			BackoffMaxSeconds: v.GetInt("network.server.backoff_max_seconds"),
			RetryLimit:        v.GetUint32("network.server.retry_limit"),
			ThreadWaitMs:      v.GetInt("network.server.thread_wait_timeout_ms"),
			EnableRelay:       v.GetBool("network.server.enable_relay"),
		},
		client: Client{
			Hostname:         v.GetString("network.client.server_hostname"),
			Port:             uint16(v.GetUint32("network.client.server_port")),
			BackoffInitialMs: v.GetInt("network.client.backoff_initial_ms"),
			BackoffMaxMs:     v.GetInt("network.client.backoff_max_ms"),
			RetryLimit:       v.GetUint32("network.client.retry_limit"),
			EnableRelay:      v.GetBool("network.client.enable_relay"),
		},
		debug: Debug{
			SuppressThreads: v.GetString("debug.suppress_threads"),
		},
		sendFile: v.GetString("server.send_file"),
	}
}

func (c *Config) Server() Server        { return c.server }
func (c *Config) Client() Client        { return c.client }
func (c *Config) Debug() Debug          { return c.debug }
func (c *Config) SendFile() string      { return c.sendFile }
func (c *Config) SuppressThreads() string { return c.debug.SuppressThreads }
