package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"3000"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`

		AllowedOrigins []string `yaml:"allowed_origins"`
		MaxBodySize    int64    `yaml:"max_body_size" default:"1048576"`
		MaxUploadSize  int64    `yaml:"max_upload_size" default:"10485760"`
	} `yaml:"server"`

	// API describes the remote job-portal REST API every page talks to
	API struct {
		BaseURL   string        `yaml:"base_url" default:"http://localhost:5000/api"`
		Timeout   time.Duration `yaml:"timeout" default:"15s"`
		RateLimit float64       `yaml:"rate_limit" default:"20"` // requests per second, 0 disables
		Burst     int           `yaml:"burst" default:"10"`
		UserAgent string        `yaml:"user_agent" default:"jobportal-web/1.0"`
	} `yaml:"api"`

	Session struct {
		Store             string        `yaml:"store" default:"memory"` // memory or redis
		IDCookie          string        `yaml:"id_cookie" default:"sid"`
		TokenCookie       string        `yaml:"token_cookie" default:"token"`
		SecureCookies     bool          `yaml:"secure_cookies" default:"false"`
		TokenTTL          time.Duration `yaml:"token_ttl" default:"24h"`
		ViewIdleTimeout   time.Duration `yaml:"view_idle_timeout" default:"30m"`
		ViewSweepInterval time.Duration `yaml:"view_sweep_interval" default:"5m"`
	} `yaml:"session"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Listing struct {
		PageSize     int           `yaml:"page_size" default:"10"`
		Debounce     time.Duration `yaml:"debounce" default:"500ms"`
		UserDebounce time.Duration `yaml:"user_debounce" default:"400ms"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"20s"`
		RenderWait   time.Duration `yaml:"render_wait" default:"3s"`
	} `yaml:"listing"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []LogAdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
}

// LogAdapterConfig configures one logging output
type LogAdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"` // stdout or file
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

var (
	bracedVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareVarPattern   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax.
// Unknown variables are left untouched.
func expandEnvVars(s string) string {
	s = bracedVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

// Default returns a configuration populated with built-in defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 3000
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.AllowedOrigins = []string{"*"}
	config.Server.MaxBodySize = 1 << 20
	config.Server.MaxUploadSize = 10 << 20

	config.API.BaseURL = "http://localhost:5000/api"
	config.API.Timeout = 15 * time.Second
	config.API.RateLimit = 20
	config.API.Burst = 10
	config.API.UserAgent = "jobportal-web/1.0"

	config.Session.Store = "memory"
	config.Session.IDCookie = "sid"
	config.Session.TokenCookie = "token"
	config.Session.TokenTTL = 24 * time.Hour
	config.Session.ViewIdleTimeout = 30 * time.Minute
	config.Session.ViewSweepInterval = 5 * time.Minute

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second

	config.Listing.PageSize = 10
	config.Listing.Debounce = 500 * time.Millisecond
	config.Listing.UserDebounce = 400 * time.Millisecond
	config.Listing.FetchTimeout = 20 * time.Second
	config.Listing.RenderWait = 3 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}

	if apiTimeout := os.Getenv("API_TIMEOUT"); apiTimeout != "" {
		if timeout, err := time.ParseDuration(apiTimeout); err == nil {
			c.API.Timeout = timeout
		}
	}

	if rateLimit := os.Getenv("API_RATE_LIMIT"); rateLimit != "" {
		if limit, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			c.API.RateLimit = limit
		}
	}

	if store := os.Getenv("SESSION_STORE"); store != "" {
		c.Session.Store = store
	}

	if secure := os.Getenv("SESSION_SECURE_COOKIES"); secure != "" {
		c.Session.SecureCookies = secure == "true" || secure == "1"
	}

	if tokenTTL := os.Getenv("SESSION_TOKEN_TTL"); tokenTTL != "" {
		if ttl, err := time.ParseDuration(tokenTTL); err == nil {
			c.Session.TokenTTL = ttl
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if pageSize := os.Getenv("LISTING_PAGE_SIZE"); pageSize != "" {
		if size, err := strconv.Atoi(pageSize); err == nil && size > 0 {
			c.Listing.PageSize = size
		}
	}

	if debounce := os.Getenv("LISTING_DEBOUNCE"); debounce != "" {
		if window, err := time.ParseDuration(debounce); err == nil {
			c.Listing.Debounce = window
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		c.Metrics.Enabled = metricsEnabled == "true" || metricsEnabled == "1"
	}

	c.loadLoggingAdapterEnvVars()
}

// loadLoggingAdapterEnvVars loads environment variables for logging adapters
func (c *Config) loadLoggingAdapterEnvVars() {
	for i := range c.Logging.Adapters {
		adapter := &c.Logging.Adapters[i]

		switch adapter.Type {
		case "file":
			if path := os.Getenv("LOG_FILE_PATH"); path != "" {
				if adapter.Options == nil {
					adapter.Options = make(map[string]interface{})
				}
				adapter.Options["file_path"] = path
			}
		case "stdout":
			if colorized := os.Getenv("LOG_COLORIZED"); colorized != "" {
				if adapter.Options == nil {
					adapter.Options = make(map[string]interface{})
				}
				adapter.Options["colorized"] = colorized == "true" || colorized == "1"
			}
		}
	}
}
