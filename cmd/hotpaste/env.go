package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables, for shells and
// window-manager keybindings that cannot pass flags easily.
type envConfig struct {
	ConfigPath string        // HOTPASTE_CONFIG: config file path
	Target     string        // HOTPASTE_TARGET: destination app
	Pandoc     string        // HOTPASTE_PANDOC: pandoc executable path
	SaveDir    string        // HOTPASTE_SAVE_DIR: output directory
	Timeout    time.Duration // HOTPASTE_TIMEOUT: conversion timeout
}

// knownEnvVars lists valid HOTPASTE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HOTPASTE_CONFIG":   true,
	"HOTPASTE_TARGET":   true,
	"HOTPASTE_PANDOC":   true,
	"HOTPASTE_SAVE_DIR": true,
	"HOTPASTE_TIMEOUT":  true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("HOTPASTE_CONFIG"),
		Target:     os.Getenv("HOTPASTE_TARGET"),
		Pandoc:     os.Getenv("HOTPASTE_PANDOC"),
		SaveDir:    os.Getenv("HOTPASTE_SAVE_DIR"),
	}

	if timeout := os.Getenv("HOTPASTE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for HOTPASTE_* variables that are not
// recognized, catching typos like HOTPASTE_TARGT.
func warnUnknownEnvVars() {
	for _, entry := range os.Environ() {
		name, _, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, "HOTPASTE_") {
			continue
		}
		if !knownEnvVars[name] {
			fmt.Fprintf(os.Stderr, "warning: unknown environment variable %s\n", name)
		}
	}
}
