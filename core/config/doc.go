// Package config provides type-safe environment variable loading with
// caching using Go generics. Each configuration type is loaded once and
// cached for subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct
// fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/dispatchgrid/core/config"
//
//	type PoolConfig struct {
//		Workers   int `env:"WORKERPOOL_WORKERS" envDefault:"4"`
//		QueueSize int `env:"WORKERPOOL_QUEUE_SIZE" envDefault:"64"`
//	}
//
//	func main() {
//		var cfg PoolConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 PoolConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 PoolConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so each component can define
// its own configuration struct without coordinating with others.
package config
