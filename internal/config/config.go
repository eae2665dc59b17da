package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openfooty/statindex/internal/platform/logging"
)

// Config stores runtime configuration for the indexer CLI and the API server.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	CORSAllowedOrigins             []string
	IndexJSONDir                   string
	IndexSQLitePath                string
	SummaryDBPath                  string
	SeasonPlanPath                 string
	IndexCompetitionIDs            []int64
	IndexSeasonLabels              []string
	IndexIncludeLineups            bool
	IndexIncludePlayerStats        bool
	IndexIncludeMapping            bool
	IndexLineupSampleSize          int
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	StatsBombBaseURL               string
	StatsBombMappingBaseURL        string
	StatsBombToken                 string
	StatsBombTimeout               time.Duration
	StatsBombMaxRetries            int
	StatsBombCircuitEnabled        bool
	StatsBombCircuitFailureCount   int
	StatsBombCircuitOpenTimeout    time.Duration
	StatsBombCircuitHalfOpenMaxReq int
	InternalJobToken               string
	PprofEnabled                   bool
	PprofAddr                      string
	UptraceEnabled                 bool
	UptraceDSN                     string
	UptraceLogsEnabled             bool
	UptraceCaptureRequestBody      bool
	UptraceRequestBodyMaxBytes     int
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
	LogLevel                       logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofAddr == "" {
		pprofAddr = ":6060"
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	statsBombTimeout, err := time.ParseDuration(getEnv("STATSBOMB_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSBOMB_TIMEOUT: %w", err)
	}
	if statsBombTimeout <= 0 {
		return Config{}, fmt.Errorf("STATSBOMB_TIMEOUT must be > 0")
	}
	statsBombMaxRetries, err := getEnvAsInt("STATSBOMB_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSBOMB_MAX_RETRIES: %w", err)
	}
	if statsBombMaxRetries < 0 {
		return Config{}, fmt.Errorf("STATSBOMB_MAX_RETRIES must be >= 0")
	}
	statsBombCircuitEnabled, err := strconv.ParseBool(getEnv("STATSBOMB_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSBOMB_CIRCUIT_ENABLED: %w", err)
	}
	statsBombCircuitFailureCount, err := getEnvAsInt("STATSBOMB_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSBOMB_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if statsBombCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STATSBOMB_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	statsBombCircuitOpenTimeout, err := time.ParseDuration(getEnv("STATSBOMB_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSBOMB_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if statsBombCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STATSBOMB_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	statsBombCircuitHalfOpenMaxReq, err := getEnvAsInt("STATSBOMB_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSBOMB_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if statsBombCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STATSBOMB_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	indexCompetitionIDs, err := parseCSVInt64(getEnv("INDEX_COMPETITION_IDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse INDEX_COMPETITION_IDS: %w", err)
	}
	indexIncludeLineups, err := strconv.ParseBool(getEnv("INDEX_INCLUDE_LINEUPS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INDEX_INCLUDE_LINEUPS: %w", err)
	}
	indexIncludePlayerStats, err := strconv.ParseBool(getEnv("INDEX_INCLUDE_PLAYER_STATS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INDEX_INCLUDE_PLAYER_STATS: %w", err)
	}
	indexIncludeMapping, err := strconv.ParseBool(getEnv("INDEX_INCLUDE_MAPPING", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INDEX_INCLUDE_MAPPING: %w", err)
	}
	indexLineupSampleSize, err := getEnvAsInt("INDEX_LINEUP_SAMPLE_SIZE", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse INDEX_LINEUP_SAMPLE_SIZE: %w", err)
	}
	if indexLineupSampleSize < 0 {
		return Config{}, fmt.Errorf("INDEX_LINEUP_SAMPLE_SIZE must be >= 0 (0 fetches every match)")
	}

	cfg := Config{
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "statindex-api"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                       getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:             splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		IndexJSONDir:                   getEnv("INDEX_JSON_DIR", ".cache/db_index"),
		IndexSQLitePath:                getEnv("INDEX_SQLITE_PATH", ".cache/offline_index/top_competitions.sqlite"),
		SummaryDBPath:                  getEnv("SUMMARY_DB_PATH", ".cache/season_summaries.db"),
		SeasonPlanPath:                 getEnv("SEASON_PLAN_PATH", "config/season_tracking.json"),
		IndexCompetitionIDs:            indexCompetitionIDs,
		IndexSeasonLabels:              splitCSV(getEnv("INDEX_SEASON_LABELS", "")),
		IndexIncludeLineups:            indexIncludeLineups,
		IndexIncludePlayerStats:        indexIncludePlayerStats,
		IndexIncludeMapping:            indexIncludeMapping,
		IndexLineupSampleSize:          indexLineupSampleSize,
		StatsBombBaseURL:               strings.TrimSpace(getEnv("STATSBOMB_BASE_URL", "")),
		StatsBombMappingBaseURL:        strings.TrimSpace(getEnv("STATSBOMB_MAPPING_BASE_URL", "")),
		StatsBombToken:                 strings.TrimSpace(getEnv("STATSBOMB_TOKEN", "")),
		StatsBombTimeout:               statsBombTimeout,
		StatsBombMaxRetries:            statsBombMaxRetries,
		StatsBombCircuitEnabled:        statsBombCircuitEnabled,
		StatsBombCircuitFailureCount:   statsBombCircuitFailureCount,
		StatsBombCircuitOpenTimeout:    statsBombCircuitOpenTimeout,
		StatsBombCircuitHalfOpenMaxReq: statsBombCircuitHalfOpenMaxReq,
		InternalJobToken:               strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		UptraceLogsEnabled:             uptraceLogsEnabled,
		UptraceCaptureRequestBody:      uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes:     uptraceRequestBodyMaxBytes,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:         strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if strings.TrimSpace(cfg.IndexJSONDir) == "" {
		return Config{}, fmt.Errorf("INDEX_JSON_DIR cannot be empty")
	}
	if strings.TrimSpace(cfg.IndexSQLitePath) == "" {
		return Config{}, fmt.Errorf("INDEX_SQLITE_PATH cannot be empty")
	}
	if strings.TrimSpace(cfg.SummaryDBPath) == "" {
		return Config{}, fmt.Errorf("SUMMARY_DB_PATH cannot be empty")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseCSVInt64(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0, got %q", item)
		}
		out = append(out, value)
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
