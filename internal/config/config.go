// Package config loads application configuration from environment
// variables.  Every knob has a default so the server starts with no
// environment at all; a .env file, when present, is loaded by the
// entry point before Load runs.
package config

import "os"

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // TCP port the command stream listens on
	HTTPPort        string // HTTP port for the ops endpoints (health, trips)
	Trips           string // optional catalog override, "NAME:SEATS,NAME:SEATS"
	ConsumerEnabled bool   // run the booking log consumer in-process
}

// Load reads configuration values from environment variables and
// returns a Config.  Missing variables fall back to defaults suitable
// for local development.
func Load() Config {
	return Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "5555"),
		HTTPPort:        envStr("HTTP_PORT", "8080"),
		Trips:           os.Getenv("TRIPS"),
		ConsumerEnabled: envBool("BOOKING_CONSUMER_ENABLED", false),
	}
}
