// Package config loads server configuration from the environment.
// Every knob has a default so the server starts with no configuration
// at all.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the tunables for the crowd analysis server.
type Config struct {
	// ModelServiceURL is the base URL of the inference service hosting
	// the pretrained models.
	ModelServiceURL string

	// ScoreThreshold is the detection confidence cutoff.
	ScoreThreshold float64

	// ZeroShotSampleCap bounds how many person crops are classified per
	// run. A throughput guard, not a quality setting.
	ZeroShotSampleCap int

	// ReadyWait bounds how long an analysis waits for a still-loading
	// estimator before proceeding without it.
	ReadyWait time.Duration

	// LogLevel enables debug logging when set to "debug".
	LogLevel string
}

// Load reads configuration from CROWD_MCP_* environment variables,
// falling back to defaults for anything unset.
func Load() *Config {
	return &Config{
		ModelServiceURL:   getEnv("CROWD_MCP_MODEL_URL", "http://127.0.0.1:9090"),
		ScoreThreshold:    getEnvFloat("CROWD_MCP_DETECT_THRESHOLD", 0.7),
		ZeroShotSampleCap: getEnvInt("CROWD_MCP_ZEROSHOT_SAMPLE_CAP", 20),
		ReadyWait:         getEnvDuration("CROWD_MCP_READY_WAIT", 30*time.Second),
		LogLevel:          getEnv("CROWD_MCP_LOG_LEVEL", ""),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", k, v, def)
		return def
	}
	return f
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", k, v, def)
		return def
	}
	return n
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", k, v, def)
		return def
	}
	return d
}
