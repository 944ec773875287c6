// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use (a missing
// file is not an error) and uses the caarlos0/env library to parse environment
// variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/emit/core/config"
//
//	var cfg dispatcher.Config
//
//	// Load with error handling
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
//	d := dispatcher.NewFromConfig(cfg)
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process:
//
//	var cfg1 loop.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 loop.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently. Failed loads are not cached.
package config
