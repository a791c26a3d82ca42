package contract

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/digger/schema"
)

// Default values for configuration.
const (
	DefaultBaseURL     = "https://oss.open-digger.cn"
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	MaxPrecision       = 4
	DefaultWorkers     = 8
	DefaultTimeout     = 30 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
	DefaultMemoSize    = 256
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	Names     []string
	Category  schema.MetricCategory
	Metric    schema.MetricType
	TimeUnit  schema.TimeUnit
	Span      schema.TimeSpan
	TiePolicy schema.TiePolicy
	BaseURL   string

	Source string // Dataset URL or local path for graph and landscape
	Format schema.DataFormat

	ResultLimit int
	Workers     int
	Timeout     time.Duration
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration
	MemoSize       int

	NodeSize  schema.SizeRange
	Highlight []string

	Filter schema.LandscapeFilter

	Org         string
	GitHubToken string // Please use env var as this is plaintext

	LogLevel string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	NameArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	BaseURL        string `mapstructure:"base-url"`
	OutputFile     string `mapstructure:"output-file"`
	Output         string `mapstructure:"output"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Timeout        string `mapstructure:"timeout"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	MemoSize       int    `mapstructure:"memo-size"`
	LogLevel       string `mapstructure:"log-level"`

	// --- Fields from metric commands ---
	Category string `mapstructure:"category"`
	Metric   string `mapstructure:"metric"`
	Unit     string `mapstructure:"unit"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Ties     string `mapstructure:"ties"`

	// --- Fields from dataset commands ---
	Source         string `mapstructure:"source"`
	Format         string `mapstructure:"format"`
	NodeSize       string `mapstructure:"node-size"`
	Highlight      string `mapstructure:"highlight"`
	Search         string `mapstructure:"search"`
	Classification string `mapstructure:"classification"`

	// --- Fields from crawlCmd.Flags() ---
	Org         string `mapstructure:"org"`
	GitHubToken string `mapstructure:"github-token"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Names = slices.Clone(c.Names)
	clone.Highlight = slices.Clone(c.Highlight)
	return &clone
}

// CloneWithNames creates a copy of the Config for a different entity list.
func (c *Config) CloneWithNames(names []string) *Config {
	clone := c.Clone()
	clone.Names = slices.Clone(names)
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processMetricInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeSpan(cfg, input); err != nil {
		return err
	}
	if err := processDatasetInputs(cfg, input); err != nil {
		return err
	}
	return processNames(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl value: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	cfg.MemoSize = input.MemoSize
	if cfg.MemoSize <= 0 {
		cfg.MemoSize = DefaultMemoSize
	}
	return nil
}

// validateSimpleInputs processes and validates output, concurrency and backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Timeout Validation ---
	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout value: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", cfg.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("%s output requires --output-file", cfg.Output)
	}

	// --- 5. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processMetricInputs handles the metric category, type, time unit and tie policy.
func processMetricInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(input.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base-url must start with http:// or https:// (received %q)", input.BaseURL)
	}

	cfg.Category = schema.MetricCategory(strings.ToLower(input.Category))
	if cfg.Category == "" {
		cfg.Category = schema.RepositoryCategory
	}
	if _, ok := schema.ValidMetricCategories[cfg.Category]; !ok {
		return fmt.Errorf("invalid category '%s'. must be repository, developer", input.Category)
	}

	cfg.Metric = schema.MetricType(strings.ToLower(input.Metric))
	if cfg.Metric == "" {
		cfg.Metric = schema.OpenRankMetric
	}
	if !slices.Contains(schema.MetricsFor(cfg.Category), cfg.Metric) {
		return fmt.Errorf("metric '%s' is not available for category %s", input.Metric, cfg.Category)
	}

	cfg.TimeUnit = schema.TimeUnit(strings.ToLower(input.Unit))
	if cfg.TimeUnit == "" {
		cfg.TimeUnit = schema.MonthUnit
	}
	if _, ok := schema.ValidTimeUnits[cfg.TimeUnit]; !ok {
		return fmt.Errorf("invalid unit '%s'. must be year, quarter, month", input.Unit)
	}

	cfg.TiePolicy = schema.TiePolicy(strings.ToLower(input.Ties))
	if cfg.TiePolicy == "" {
		cfg.TiePolicy = schema.TieStable
	}
	if _, ok := schema.ValidTiePolicies[cfg.TiePolicy]; !ok {
		return fmt.Errorf("invalid ties '%s'. must be stable, dense", input.Ties)
	}
	return nil
}

// processTimeSpan handles the inclusive period bounds.
func processTimeSpan(cfg *Config, input *ConfigRawInput) error {
	cfg.Span = schema.TimeSpan{
		From: strings.TrimSpace(input.From),
		To:   strings.TrimSpace(input.To),
	}
	if cfg.Span.From != "" && cfg.Span.To != "" && cfg.Span.From > cfg.Span.To {
		return fmt.Errorf("from (%s) cannot be after to (%s)", cfg.Span.From, cfg.Span.To)
	}
	return nil
}

// processDatasetInputs handles the graph, landscape and crawl parameters.
func processDatasetInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = strings.TrimSpace(input.Source)
	cfg.Format = schema.DataFormat(strings.ToLower(input.Format))
	if cfg.Format == "" {
		cfg.Format = schema.JSONFormat
	}
	if _, ok := schema.ValidDataFormats[cfg.Format]; !ok {
		return fmt.Errorf("invalid format '%s'. must be json, csv", input.Format)
	}

	size, err := ParseSizeRange(input.NodeSize)
	if err != nil {
		return fmt.Errorf("invalid --node-size: %w", err)
	}
	cfg.NodeSize = size
	cfg.Highlight = SplitList(input.Highlight)

	cfg.Filter = schema.LandscapeFilter{
		Search:   strings.TrimSpace(input.Search),
		Category: strings.TrimSpace(input.Classification),
	}

	cfg.Org = strings.TrimSpace(input.Org)
	cfg.GitHubToken = input.GitHubToken
	return nil
}

// processNames trims positional entity names and drops blanks and repeats.
func processNames(cfg *Config, input *ConfigRawInput) error {
	cfg.Names = nil
	seen := make(map[string]struct{}, len(input.NameArgs))
	for _, arg := range input.NameArgs {
		for _, name := range SplitList(arg) {
			if strings.Count(name, "/") > 1 {
				return fmt.Errorf("invalid name %q. expected owner/repo or login", name)
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			cfg.Names = append(cfg.Names, name)
		}
	}
	return nil
}

// MetricOverrides holds per-request metric parameters, such as those of MCP tools.
// Empty fields keep the value of the config being revalidated.
type MetricOverrides struct {
	Names    []string
	Category string
	Metric   string
	Unit     string
	From     string
	To       string
	Ties     string
}

// RevalidateMetric applies overrides to cfg and validates the result.
// At least one name is required.
func RevalidateMetric(cfg *Config, o MetricOverrides) error {
	input := &ConfigRawInput{
		NameArgs: o.Names,
		BaseURL:  cfg.BaseURL,
		Category: cmp.Or(o.Category, string(cfg.Category)),
		Metric:   cmp.Or(o.Metric, string(cfg.Metric)),
		Unit:     cmp.Or(o.Unit, string(cfg.TimeUnit)),
		From:     cmp.Or(o.From, cfg.Span.From),
		To:       cmp.Or(o.To, cfg.Span.To),
		Ties:     cmp.Or(o.Ties, string(cfg.TiePolicy)),
	}
	if err := processMetricInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeSpan(cfg, input); err != nil {
		return err
	}
	if err := processNames(cfg, input); err != nil {
		return err
	}
	if len(cfg.Names) == 0 {
		return fmt.Errorf("at least one repository or developer name is required")
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ParseSizeRange parses a string like "15,100" into a size range.
// An empty string yields the default node size.
func ParseSizeRange(s string) (schema.SizeRange, error) {
	if strings.TrimSpace(s) == "" {
		return schema.DefaultNodeSize, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return schema.SizeRange{}, fmt.Errorf("expected 'min,max', got %q", s)
	}
	var out schema.SizeRange
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return schema.SizeRange{}, fmt.Errorf("invalid size %q: %w", p, err)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return schema.SizeRange{}, fmt.Errorf("size must be a finite non-negative number (received %v)", v)
		}
		out[i] = v
	}
	return out, nil
}
