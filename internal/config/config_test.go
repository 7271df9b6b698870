package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.ModelServiceURL != "http://127.0.0.1:9090" {
		t.Errorf("ModelServiceURL: got %s", cfg.ModelServiceURL)
	}
	if cfg.ScoreThreshold != 0.7 {
		t.Errorf("ScoreThreshold: got %v, want 0.7", cfg.ScoreThreshold)
	}
	if cfg.ZeroShotSampleCap != 20 {
		t.Errorf("ZeroShotSampleCap: got %d, want 20", cfg.ZeroShotSampleCap)
	}
	if cfg.ReadyWait != 30*time.Second {
		t.Errorf("ReadyWait: got %v, want 30s", cfg.ReadyWait)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CROWD_MCP_MODEL_URL", "http://models.internal:8500")
	t.Setenv("CROWD_MCP_DETECT_THRESHOLD", "0.6")
	t.Setenv("CROWD_MCP_ZEROSHOT_SAMPLE_CAP", "50")
	t.Setenv("CROWD_MCP_READY_WAIT", "2m")

	cfg := Load()

	if cfg.ModelServiceURL != "http://models.internal:8500" {
		t.Errorf("ModelServiceURL: got %s", cfg.ModelServiceURL)
	}
	if cfg.ScoreThreshold != 0.6 {
		t.Errorf("ScoreThreshold: got %v, want 0.6", cfg.ScoreThreshold)
	}
	if cfg.ZeroShotSampleCap != 50 {
		t.Errorf("ZeroShotSampleCap: got %d, want 50", cfg.ZeroShotSampleCap)
	}
	if cfg.ReadyWait != 2*time.Minute {
		t.Errorf("ReadyWait: got %v, want 2m", cfg.ReadyWait)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CROWD_MCP_DETECT_THRESHOLD", "very high")
	t.Setenv("CROWD_MCP_ZEROSHOT_SAMPLE_CAP", "lots")
	t.Setenv("CROWD_MCP_READY_WAIT", "soon")

	cfg := Load()

	if cfg.ScoreThreshold != 0.7 {
		t.Errorf("ScoreThreshold: got %v, want default 0.7", cfg.ScoreThreshold)
	}
	if cfg.ZeroShotSampleCap != 20 {
		t.Errorf("ZeroShotSampleCap: got %d, want default 20", cfg.ZeroShotSampleCap)
	}
	if cfg.ReadyWait != 30*time.Second {
		t.Errorf("ReadyWait: got %v, want default 30s", cfg.ReadyWait)
	}
}
