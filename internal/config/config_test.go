package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=\"https://token@uptrace.dev/1\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PathDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IndexJSONDir != ".cache/db_index" {
		t.Fatalf("unexpected IndexJSONDir: %q", cfg.IndexJSONDir)
	}
	if cfg.IndexSQLitePath != ".cache/offline_index/top_competitions.sqlite" {
		t.Fatalf("unexpected IndexSQLitePath: %q", cfg.IndexSQLitePath)
	}
	if cfg.SummaryDBPath != ".cache/season_summaries.db" {
		t.Fatalf("unexpected SummaryDBPath: %q", cfg.SummaryDBPath)
	}
	if cfg.SeasonPlanPath != "config/season_tracking.json" {
		t.Fatalf("unexpected SeasonPlanPath: %q", cfg.SeasonPlanPath)
	}
}

func TestLoad_IndexBuildToggles(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.IndexIncludeLineups || !cfg.IndexIncludePlayerStats || !cfg.IndexIncludeMapping {
			t.Fatalf("expected enrichment passes enabled by default: %+v", cfg)
		}
		if cfg.IndexLineupSampleSize != 20 {
			t.Fatalf("unexpected default lineup sample size: %d", cfg.IndexLineupSampleSize)
		}
		if len(cfg.IndexCompetitionIDs) != 0 {
			t.Fatalf("expected no default competition ids, got %v", cfg.IndexCompetitionIDs)
		}
	})

	t.Run("competition id parsing", func(t *testing.T) {
		t.Setenv("INDEX_COMPETITION_IDS", " 2, 9 ,12 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.IndexCompetitionIDs) != 3 || cfg.IndexCompetitionIDs[0] != 2 || cfg.IndexCompetitionIDs[2] != 12 {
			t.Fatalf("unexpected competition ids: %v", cfg.IndexCompetitionIDs)
		}
	})

	t.Run("invalid competition id", func(t *testing.T) {
		t.Setenv("INDEX_COMPETITION_IDS", "2,epl")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non-numeric competition id")
		}
	})

	t.Run("negative lineup sample size", func(t *testing.T) {
		t.Setenv("INDEX_COMPETITION_IDS", "")
		t.Setenv("INDEX_LINEUP_SAMPLE_SIZE", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative INDEX_LINEUP_SAMPLE_SIZE")
		}
	})
}

func TestLoad_StatsBombConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults leave base urls to the client", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StatsBombBaseURL != "" || cfg.StatsBombToken != "" {
			t.Fatalf("expected empty provider defaults, got %+v", cfg)
		}
		if cfg.StatsBombTimeout != 30*time.Second {
			t.Fatalf("unexpected default timeout: %s", cfg.StatsBombTimeout)
		}
		if cfg.StatsBombMaxRetries != 2 {
			t.Fatalf("unexpected default retries: %d", cfg.StatsBombMaxRetries)
		}
		if !cfg.StatsBombCircuitEnabled || cfg.StatsBombCircuitFailureCount != 5 {
			t.Fatalf("unexpected default circuit config: %+v", cfg)
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		t.Setenv("STATSBOMB_BASE_URL", "https://statsbomb.test/api")
		t.Setenv("STATSBOMB_TOKEN", " token-123 ")
		t.Setenv("STATSBOMB_TIMEOUT", "5s")
		t.Setenv("STATSBOMB_MAX_RETRIES", "0")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StatsBombBaseURL != "https://statsbomb.test/api" {
			t.Fatalf("unexpected base url: %q", cfg.StatsBombBaseURL)
		}
		if cfg.StatsBombToken != "token-123" {
			t.Fatalf("expected trimmed token, got %q", cfg.StatsBombToken)
		}
		if cfg.StatsBombTimeout != 5*time.Second {
			t.Fatalf("unexpected timeout: %s", cfg.StatsBombTimeout)
		}
		if cfg.StatsBombMaxRetries != 0 {
			t.Fatalf("unexpected retries: %d", cfg.StatsBombMaxRetries)
		}
	})

	t.Run("negative retries rejected", func(t *testing.T) {
		t.Setenv("STATSBOMB_MAX_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative STATSBOMB_MAX_RETRIES")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "statindex-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "statindex-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_InternalJobTokenTrimmed(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("INTERNAL_JOB_TOKEN", "  job-token  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InternalJobToken != "job-token" {
		t.Fatalf("unexpected internal job token: %q", cfg.InternalJobToken)
	}
}
