package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Redash    RedashConfig    `yaml:"redash" mapstructure:"redash"`
	Sheets    SheetsConfig    `yaml:"sheets" mapstructure:"sheets"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Run       RunConfig       `yaml:"run" mapstructure:"run"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DashboardConfig holds dashboard credentials and connection settings.
type DashboardConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Email       string `yaml:"email" mapstructure:"email"`
	Password    string `yaml:"password" mapstructure:"password"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RedashConfig holds the reference-data export endpoint settings.
type RedashConfig struct {
	URL    string `yaml:"url" mapstructure:"url"`
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// SheetsConfig holds Google Sheets credentials and tab names.
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	OutputTab       string `yaml:"output_tab" mapstructure:"output_tab"`
	GroupsTab       string `yaml:"groups_tab" mapstructure:"groups_tab"`
}

// PipelineConfig configures the filter and aggregation engine.
type PipelineConfig struct {
	TargetStatus    string   `yaml:"target_status" mapstructure:"target_status"`
	FoldStatusCase  bool     `yaml:"fold_status_case" mapstructure:"fold_status_case"`
	ExcludedDomains []string `yaml:"excluded_domains" mapstructure:"excluded_domains"`
	UnknownLabel    string   `yaml:"unknown_label" mapstructure:"unknown_label"`
}

// HistoryConfig configures the append-only history log.
type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the run ledger database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RunConfig configures the whole-run retry loop.
type RunConfig struct {
	Attempts      int `yaml:"attempts" mapstructure:"attempts"`
	RetryWaitSecs int `yaml:"retry_wait_secs" mapstructure:"retry_wait_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONNWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dashboard.base_url", "https://dashboard.tuuthfairy.com")
	v.SetDefault("dashboard.timeout_secs", 60)
	v.SetDefault("sheets.output_tab", "auth_failed")
	v.SetDefault("sheets.groups_tab", "Tuuthfairy Groups")
	v.SetDefault("pipeline.target_status", "auth_failed")
	v.SetDefault("pipeline.fold_status_case", false)
	v.SetDefault("pipeline.excluded_domains", []string{"unumdentalpwp.skygenusasystems.com"})
	v.SetDefault("pipeline.unknown_label", "Unknown")
	v.SetDefault("history.path", "auth_failed_history.csv")
	v.SetDefault("store.path", "connwatch.db")
	v.SetDefault("run.attempts", 3)
	v.SetDefault("run.retry_wait_secs", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the fields a command needs are present. Mode is the
// command name: "run" needs the full set of credentials, "scrape" only the
// dashboard ones.
func (c *Config) Validate(mode string) error {
	var problems []string

	requireDashboard := func() {
		if c.Dashboard.BaseURL == "" {
			problems = append(problems, "dashboard.base_url is required")
		}
		if c.Dashboard.Email == "" {
			problems = append(problems, "dashboard.email is required")
		}
		if c.Dashboard.Password == "" {
			problems = append(problems, "dashboard.password is required")
		}
	}

	switch mode {
	case "run":
		requireDashboard()
		if c.Redash.URL == "" {
			problems = append(problems, "redash.url is required")
		}
		if c.Redash.APIKey == "" {
			problems = append(problems, "redash.api_key is required")
		}
		if c.Sheets.CredentialsFile == "" {
			problems = append(problems, "sheets.credentials_file is required")
		}
		if c.Sheets.SpreadsheetID == "" {
			problems = append(problems, "sheets.spreadsheet_id is required")
		}
		if c.Run.Attempts < 1 {
			problems = append(problems, "run.attempts must be >= 1")
		}
	case "scrape":
		requireDashboard()
	case "runs":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
