package shared

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// ConfigPathEnvVar names an optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config keys are the lowercased environment variable names, so APP_ENV and
// `app_env:` in the YAML file set the same field.
type Config struct {
	AppEnv   string `koanf:"app_env"`
	LogLevel string `koanf:"log_level"`

	HTTPAddr    string `koanf:"http_addr"`
	MetricsAddr string `koanf:"metrics_addr"`

	RawDataPath     string `koanf:"raw_data_path"`
	CleanedDataPath string `koanf:"cleaned_data_path"`
	WatchData       bool   `koanf:"watch_data"`

	RedisAddr       string `koanf:"redis_addr"`
	RedisPass       string `koanf:"redis_password"`
	RedisDB         int    `koanf:"redis_db"`
	RedisPrefix     string `koanf:"redis_prefix"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`

	RatingsBackend string `koanf:"ratings_backend"` // github | mysql | none
	MySQLDSN       string `koanf:"mysql_dsn"`

	GitHubToken   string `koanf:"github_token"`
	GitHubRepo    string `koanf:"repo_name"` // owner/repo
	GitHubPath    string `koanf:"file_path"`
	GitHubBranch  string `koanf:"github_branch"`
	GitHubBaseURL string `koanf:"github_base_url"`
	GitHubRPS     int    `koanf:"github_rps"`
}

func defaultConfig() Config {
	return Config{
		AppEnv:          "prod",
		LogLevel:        "info",
		HTTPAddr:        ":8080",
		MetricsAddr:     ":9100",
		RawDataPath:     "travel_data.xlsx",
		CleanedDataPath: "cleaned_output.xlsx",
		WatchData:       true,
		RedisAddr:       "localhost:6379",
		RedisPrefix:     "travel",
		CacheTTLSeconds: 900,
		RatingsBackend:  "github",
		MySQLDSN:        "root:root@tcp(localhost:3306)/travel?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		GitHubPath:      "ratings.xlsx",
		GitHubRPS:       5,
	}
}

// Load layers struct defaults, the optional CONFIG_PATH file and the
// environment, in increasing priority.
func Load() (Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", p, err)
		}
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	if c.RatingsBackend == "github" {
		if c.GitHubRepo == "" {
			log.Warn().Msg("REPO_NAME is empty; ratings are disabled")
		} else if c.GitHubToken == "" {
			log.Warn().Msg("GITHUB_TOKEN is empty")
		}
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.RatingsBackend {
	case "github":
		if c.GitHubRepo == "" {
			break
		}
		if _, _, err := c.GitHubOwnerRepo(); err != nil {
			return err
		}
	case "mysql":
		if c.MySQLDSN == "" {
			return fmt.Errorf("config: MYSQL_DSN is required for the mysql ratings backend")
		}
	case "none", "":
	default:
		return fmt.Errorf("config: unknown RATINGS_BACKEND %q", c.RatingsBackend)
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("config: CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}

// GitHubOwnerRepo splits REPO_NAME ("owner/repo").
func (c Config) GitHubOwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.GitHubRepo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("config: REPO_NAME must be owner/repo, got %q", c.GitHubRepo)
	}
	return owner, repo, nil
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }
