package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/augment/deform"
	"github.com/kbukum/augment/errors"
)

const pipelineYAML = `
name: augment-test
environment: staging
version: "2.0.0"
logging:
  level: warn
  format: json
tracing:
  enabled: true
  sample_rate: 0.5
metrics:
  interval: 30s
pipeline:
  name: stretch-or-not
  stage:
    name: maybe-stretch
    type: bypass
    stages:
      - name: stretch
        type: timestretch
        params:
          rates: [0.9, 1.1]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults, got %+v", cfg.Logging)
		}
		if cfg.Tracing.ServiceName != "svc" || cfg.Metrics.ServiceName != "svc" {
			t.Errorf("expected telemetry service name from config name, got %q / %q",
				cfg.Tracing.ServiceName, cfg.Metrics.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production", Version: "3.1.0"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Tracing.ServiceVersion != "3.1.0" || cfg.Tracing.Environment != "production" {
			t.Errorf("expected version and environment propagated, got %+v", cfg.Tracing)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func() ServiceConfig {
		c := ServiceConfig{Name: "svc", Environment: "staging"}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*ServiceConfig)
		wantErr string
	}{
		{"valid", func(*ServiceConfig) {}, ""},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, "name: is required"},
		{"invalid environment", func(c *ServiceConfig) { c.Environment = "moon" }, "environment: must be one of"},
		{"invalid logging", func(c *ServiceConfig) { c.Logging.Level = "loud" }, "config.logging"},
		{"invalid sample rate", func(c *ServiceConfig) { c.Tracing.SampleRate = 2 }, "sample_rate"},
		{"metrics enabled without interval", func(c *ServiceConfig) {
			c.Metrics.Enabled = true
			c.Metrics.Interval = 0
		}, "metrics.interval: must be positive"},
		{"metrics disabled ignores interval", func(c *ServiceConfig) { c.Metrics.Interval = 0 }, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pipeline.yml", pipelineYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "augment-test" || cfg.Environment != "staging" || cfg.Version != "2.0.0" {
		t.Errorf("unexpected service fields %+v", cfg.ServiceConfig)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("unexpected tracing %+v", cfg.Tracing)
	}
	if cfg.Metrics.Interval != 30*time.Second {
		t.Errorf("expected 30s interval, got %v", cfg.Metrics.Interval)
	}

	stage := cfg.Pipeline.Stage
	if cfg.Pipeline.Name != "stretch-or-not" || stage.Type != deform.TypeBypass {
		t.Errorf("unexpected pipeline %+v", cfg.Pipeline)
	}
	if len(stage.Stages) != 1 || stage.Stages[0].Type != deform.TypeTimeStretch {
		t.Fatalf("unexpected children %+v", stage.Stages)
	}

	tr, err := deform.DefaultRegistry().Build(stage)
	if err != nil {
		t.Fatalf("loaded stage tree should build: %v", err)
	}
	if _, ok := tr.(*deform.Bypass); !ok {
		t.Errorf("expected *deform.Bypass, got %T", tr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pipeline.yml", pipelineYAML)
	t.Setenv("AUGMENT_LOGGING_LEVEL", "debug")
	t.Setenv("AUGMENT_TRACING_SAMPLE_RATE", "0.25")
	t.Setenv("LOGGING_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected AUGMENT_LOGGING_LEVEL to win, got %q", cfg.Logging.Level)
	}
	if cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("expected sample rate override, got %v", cfg.Tracing.SampleRate)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pipeline.yml", pipelineYAML)
	envPath := writeFile(t, dir, ".env", "AUGMENT_VERSION=9.9.9\n")
	t.Cleanup(func() { os.Unsetenv("AUGMENT_VERSION") })

	cfg, err := Load(path, WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Version != "9.9.9" {
		t.Errorf("expected version from .env, got %q", cfg.Version)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "minimal.yml", `
pipeline:
  stage:
    name: noop
    type: identity
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != ServiceName {
		t.Errorf("expected default name %q, got %q", ServiceName, cfg.Name)
	}
	if cfg.Pipeline.Name != "noop" {
		t.Errorf("expected pipeline name from root stage, got %q", cfg.Pipeline.Name)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yml"))
		if !errors.HasCode(err, errors.ErrCodeNotFound) {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yml", "pipeline: [unclosed")
		_, err := Load(path)
		if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})

	t.Run("stage without type", func(t *testing.T) {
		path := writeFile(t, dir, "notype.yml", "pipeline:\n  stage:\n    name: x\n")
		_, err := Load(path)
		if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
			t.Fatalf("expected INVALID_INPUT, got %v", err)
		}
		if !strings.Contains(err.Error(), "stage.type") {
			t.Errorf("expected field path in error, got %q", err.Error())
		}
	})
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg ServiceConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigCustomPrefix(t *testing.T) {
	t.Setenv("OTHER_NAME", "from-env")
	var cfg ServiceConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile("/nonexistent.yml"), WithEnvPrefix("OTHER")); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("expected name from OTHER_NAME, got %q", cfg.Name)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name       string
		service    string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "cmd dir and root env",
			service:    "augment",
			files:      []string{"./cmd/augment/config.yml", "./.env"},
			wantConfig: "./cmd/augment/config.yml",
			wantEnv:    "./.env",
		},
		{
			name:       "service env file wins over plain env",
			service:    "augment",
			files:      []string{"./config/config.yml", "../config/.env", "../../.env.augment"},
			wantConfig: "./config/config.yml",
			wantEnv:    "../../.env.augment",
		},
		{
			name:       "dashed name falls back to last segment",
			service:    "acme-augment",
			files:      []string{"../cmd/augment/config.yml", "./config/augment/.env"},
			wantConfig: "../cmd/augment/config.yml",
			wantEnv:    "./config/augment/.env",
		},
		{
			name:       "service file in working dir",
			service:    "augment",
			files:      []string{"./augment.yml"},
			wantConfig: "./augment.yml",
		},
		{
			name:    "nothing found",
			service: "augment",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			resolver := &Resolver{FileSystem: fs}
			files := resolver.ResolveFiles(tc.service, LoaderConfig{})
			if files.ConfigFile != tc.wantConfig {
				t.Errorf("expected config file %q, got %q", tc.wantConfig, files.ConfigFile)
			}
			if files.EnvFile != tc.wantEnv {
				t.Errorf("expected env file %q, got %q", tc.wantEnv, files.EnvFile)
			}
		})
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./.env": true}}}
	explicit := resolver.ResolveFiles("augment", LoaderConfig{ConfigFile: "mine.yml", EnvFile: "mine.env"})
	if explicit.ConfigFile != "mine.yml" || explicit.EnvFile != "mine.env" {
		t.Errorf("explicit paths should win, got %+v", explicit)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("TRACING_SAMPLE_RATE")
	for _, want := range []string{"tracing_sample_rate", "tracing.sample.rate", "tracing.sample_rate"} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}

	if single := generateEnvKeyVariants("NAME"); len(single) != 1 || single[0] != "name" {
		t.Errorf("unexpected variants for single word: %v", single)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("X")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "X" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
