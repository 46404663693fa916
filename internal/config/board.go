package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// BoardConfig configures the terminal board client. Values come from an
// optional YAML file and are overridden by explicitly set flags.
type BoardConfig struct {
	Server             string        `yaml:"server"`
	Project            uint          `yaml:"project"`
	Actor              uint          `yaml:"actor"`
	ActivationDistance float64       `yaml:"activation_distance"`
	Timeout            time.Duration `yaml:"timeout"`
	LogFile            string        `yaml:"log_file"`
	LogLevel           string        `yaml:"log_level"`
	MetricsAddr        string        `yaml:"metrics_addr"`
}

func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Server:             "http://localhost:8000",
		ActivationDistance: 8,
		Timeout:            10 * time.Second,
		LogLevel:           "info",
	}
}

// Scope returns the project filter, or nil for every project.
func (c BoardConfig) Scope() *uint {
	if c.Project == 0 {
		return nil
	}
	p := c.Project
	return &p
}

func (c BoardConfig) Validate() error {
	if c.Server == "" {
		return errors.New("server must be set")
	}
	if c.ActivationDistance < 0 {
		return errors.New("activation_distance must not be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// LoadBoardConfig parses args (without the program name).
func LoadBoardConfig(args []string) (BoardConfig, error) {
	cfg := DefaultBoardConfig()

	flags := pflag.NewFlagSet("board", pflag.ContinueOnError)
	path := flags.String("config", "", "path to a YAML config file")
	server := flags.String("server", cfg.Server, "base URL of the taskflow API")
	project := flags.Uint("project", cfg.Project, "project id to show (0 for all projects)")
	actor := flags.Uint("actor", cfg.Actor, "user id comments are attributed to")
	distance := flags.Float64("activation-distance", cfg.ActivationDistance, "cells the pointer must travel before a drag starts")
	timeout := flags.Duration("timeout", cfg.Timeout, "per-request timeout")
	logFile := flags.String("log-file", cfg.LogFile, "write logs to this file (default: discard)")
	logLevel := flags.String("log-level", cfg.LogLevel, "log level")
	metricsAddr := flags.String("metrics-addr", cfg.MetricsAddr, "serve prometheus metrics on this address")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	if *path != "" {
		raw, err := os.ReadFile(*path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", *path, err)
		}
	}

	if flags.Changed("server") {
		cfg.Server = *server
	}
	if flags.Changed("project") {
		cfg.Project = *project
	}
	if flags.Changed("actor") {
		cfg.Actor = *actor
	}
	if flags.Changed("activation-distance") {
		cfg.ActivationDistance = *distance
	}
	if flags.Changed("timeout") {
		cfg.Timeout = *timeout
	}
	if flags.Changed("log-file") {
		cfg.LogFile = *logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = *metricsAddr
	}

	return cfg, cfg.Validate()
}
