package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Session struct {
		Backend    string        `yaml:"backend" default:"memory"` // memory or redis
		TTL        time.Duration `yaml:"ttl" default:"24h"`
		QuotaBytes int           `yaml:"quota_bytes" default:"5242880"`
	} `yaml:"session"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Export struct {
		Timeout    time.Duration `yaml:"timeout" default:"60s"`
		ChromePath string        `yaml:"chrome_path"`
		Headless   bool          `yaml:"headless" default:"true"`
		Upload     bool          `yaml:"upload" default:"false"`
		MaxTaskAge time.Duration `yaml:"max_task_age" default:"1h"`
		Workers    int           `yaml:"workers" default:"2"`
		QueueSize  int           `yaml:"queue_size" default:"50"`
	} `yaml:"export"`

	DigitalOcean struct {
		Spaces struct {
			BucketURL       string `yaml:"bucket_url"`
			CDNEndpoint     string `yaml:"cdn_endpoint"`
			AccessKeyID     string `yaml:"access_key_id"`
			AccessKeySecret string `yaml:"access_key_secret"`
			Region          string `yaml:"region" default:"blr1"`
			BucketName      string `yaml:"bucket_name" default:"resume-builder-exports"`
		} `yaml:"spaces"`
	} `yaml:"digitalocean"`

	Contact struct {
		Endpoint    string        `yaml:"endpoint"`
		RedirectURL string        `yaml:"redirect_url"`
		Timeout     time.Duration `yaml:"timeout" default:"10s"`
		RateLimit   int           `yaml:"rate_limit" default:"5"` // submissions per minute per client
	} `yaml:"contact"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	// Expand $VAR syntax
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// Default returns a configuration populated with built-in defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Session.Backend = "memory"
	config.Session.TTL = 24 * time.Hour
	config.Session.QuotaBytes = 5 * 1024 * 1024

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Export.Timeout = 60 * time.Second
	config.Export.Headless = true
	config.Export.MaxTaskAge = time.Hour
	config.Export.Workers = 2
	config.Export.QueueSize = 50

	config.DigitalOcean.Spaces.Region = "blr1"
	config.DigitalOcean.Spaces.BucketName = "resume-builder-exports"

	config.Contact.Timeout = 10 * time.Second
	config.Contact.RateLimit = 5

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
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

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	// Session store
	if backend := os.Getenv("SESSION_BACKEND"); backend != "" {
		c.Session.Backend = backend
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Session.TTL = d
		}
	}

	if quota := os.Getenv("SESSION_QUOTA_BYTES"); quota != "" {
		if q, err := strconv.Atoi(quota); err == nil {
			c.Session.QuotaBytes = q
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

	// Export
	if exportTimeout := os.Getenv("EXPORT_TIMEOUT"); exportTimeout != "" {
		if timeout, err := time.ParseDuration(exportTimeout); err == nil {
			c.Export.Timeout = timeout
		}
	}

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		c.Export.ChromePath = chromePath
	}

	if headless := os.Getenv("EXPORT_HEADLESS"); headless != "" {
		c.Export.Headless = headless == "true" || headless == "1"
	}

	if workers := os.Getenv("EXPORT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			c.Export.Workers = w
		}
	}

	if upload := os.Getenv("EXPORT_UPLOAD"); upload != "" {
		c.Export.Upload = upload == "true" || upload == "1"
	}

	// DigitalOcean Spaces configuration
	if bucketURL := os.Getenv("BUCKET_URL"); bucketURL != "" {
		c.DigitalOcean.Spaces.BucketURL = bucketURL
	}

	if cdnEndpoint := os.Getenv("BUCKET_CDN_ENDPOINT"); cdnEndpoint != "" {
		c.DigitalOcean.Spaces.CDNEndpoint = cdnEndpoint
	}

	if accessKeyID := os.Getenv("BUCKET_ACCESS_KEY_ID"); accessKeyID != "" {
		c.DigitalOcean.Spaces.AccessKeyID = accessKeyID
	}

	if accessKeySecret := os.Getenv("BUCKET_ACCESS_KEY_SECRET"); accessKeySecret != "" {
		c.DigitalOcean.Spaces.AccessKeySecret = accessKeySecret
	}

	if region := os.Getenv("BUCKET_REGION"); region != "" {
		c.DigitalOcean.Spaces.Region = region
	}

	if bucketName := os.Getenv("BUCKET_NAME"); bucketName != "" {
		c.DigitalOcean.Spaces.BucketName = bucketName
	}

	// Contact form
	if endpoint := os.Getenv("CONTACT_ENDPOINT"); endpoint != "" {
		c.Contact.Endpoint = endpoint
	}

	if redirectURL := os.Getenv("CONTACT_REDIRECT_URL"); redirectURL != "" {
		c.Contact.RedirectURL = redirectURL
	}

	if rateLimit := os.Getenv("CONTACT_RATE_LIMIT"); rateLimit != "" {
		if r, err := strconv.Atoi(rateLimit); err == nil {
			c.Contact.RateLimit = r
		}
	}

	c.loadLoggingAdapterEnvVars()
}

// loadLoggingAdapterEnvVars loads environment variables for logging adapters
func (c *Config) loadLoggingAdapterEnvVars() {
	for i := range c.Logging.Adapters {
		adapter := &c.Logging.Adapters[i]

		switch adapter.Type {
		case "logrus":
			if logFile := os.Getenv("LOG_FILE"); logFile != "" {
				if adapter.Options == nil {
					adapter.Options = make(map[string]interface{})
				}
				adapter.Options["output"] = logFile
			}
		}
	}
}
