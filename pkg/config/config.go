package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/logging"
)

const (
	DefaultConfigPath = "/etc/helpdesk/config"
	ConfigFileName    = "helpdesk.yml"

	// DevelopmentJWTSecret signs tokens when no secret is configured outside
	// production.
	DevelopmentJWTSecret = "helpdesk-development-secret"
)

// Environments the server can run in.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Config holds all helpdesk configuration settings
type Config struct {
	// BindAddress is the interface the API server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the API server port
	Port int `yaml:"port" json:"port"`

	// Environment is one of development, test or production
	Environment string `yaml:"environment" json:"environment"`

	// UseMockDB serves every request from the in-memory store
	UseMockDB bool `yaml:"use_mock_db" json:"use_mock_db"`

	// DatabaseURL is the Postgres connection string
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// SeedFile overrides tables of the in-memory store's demo data
	SeedFile string `yaml:"seed_file" json:"seed_file"`

	// WatchSeed reloads the in-memory store when SeedFile changes
	WatchSeed bool `yaml:"watch_seed" json:"watch_seed"`

	// JWTSecret signs session tokens
	JWTSecret string `yaml:"jwt_secret" json:"-"`

	// TokenTTL is the session token lifetime in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// CORSOrigins lists the browser origins allowed to call the API
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors Config with pointers so that explicit zero values in
// the file are distinguishable from absent keys.
type fileConfig struct {
	BindAddress *string  `yaml:"bind_address"`
	Port        *int     `yaml:"port"`
	Environment *string  `yaml:"environment"`
	UseMockDB   *bool    `yaml:"use_mock_db"`
	DatabaseURL *string  `yaml:"database_url"`
	SeedFile    *string  `yaml:"seed_file"`
	WatchSeed   *bool    `yaml:"watch_seed"`
	JWTSecret   *string  `yaml:"jwt_secret"`
	TokenTTL    *int     `yaml:"token_ttl"`
	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    *string  `yaml:"log_level"`
	LogFormat   *string  `yaml:"log_format"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress: "0.0.0.0",
		Port:        4001,
		Environment: EnvDevelopment,
		UseMockDB:   true,
		TokenTTL:    86400,
		CORSOrigins: []string{"http://localhost:5173"},
		LogLevel:    "info",
		LogFormat:   "text",
		sources:     make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("HELPDESK_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "environment", "use_mock_db", "database_url",
		"seed_file", "watch_seed", "jwt_secret", "token_ttl", "cors_origins",
		"log_level", "log_format",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) {
	setString := func(name string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			c.sources[name] = "file"
		}
	}
	setString("bind_address", &c.BindAddress, file.BindAddress)
	setString("environment", &c.Environment, file.Environment)
	setString("database_url", &c.DatabaseURL, file.DatabaseURL)
	setString("seed_file", &c.SeedFile, file.SeedFile)
	setString("jwt_secret", &c.JWTSecret, file.JWTSecret)
	setString("log_level", &c.LogLevel, file.LogLevel)
	setString("log_format", &c.LogFormat, file.LogFormat)

	if file.Port != nil {
		c.Port = *file.Port
		c.sources["port"] = "file"
	}
	if file.TokenTTL != nil {
		c.TokenTTL = *file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.UseMockDB != nil {
		c.UseMockDB = *file.UseMockDB
		c.sources["use_mock_db"] = "file"
	}
	if file.WatchSeed != nil {
		c.WatchSeed = *file.WatchSeed
		c.sources["watch_seed"] = "file"
	}
	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
		c.sources["cors_origins"] = "file"
	}
}

func (c *Config) applyEnvConfig() error {
	strs := []struct {
		env, name string
		dst       *string
	}{
		{"BIND_ADDRESS", "bind_address", &c.BindAddress},
		{"HELPDESK_ENV", "environment", &c.Environment},
		{"DATABASE_URL", "database_url", &c.DatabaseURL},
		{"HELPDESK_SEED_FILE", "seed_file", &c.SeedFile},
		{"JWT_SECRET", "jwt_secret", &c.JWTSecret},
		{"HELPDESK_LOG_LEVEL", "log_level", &c.LogLevel},
		{"HELPDESK_LOG_FORMAT", "log_format", &c.LogFormat},
	}
	for _, s := range strs {
		if val := os.Getenv(s.env); val != "" {
			*s.dst = val
			c.sources[s.name] = "environment"
		}
	}

	if val := os.Getenv("PORT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", val, err)
		}
		c.Port = i
		c.sources["port"] = "environment"
	}
	if val := os.Getenv("HELPDESK_TOKEN_TTL"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid HELPDESK_TOKEN_TTL %q: %w", val, err)
		}
		c.TokenTTL = i
		c.sources["token_ttl"] = "environment"
	}
	if val := os.Getenv("USE_MOCK_DB"); val != "" {
		c.UseMockDB = val == "true" || val == "1"
		c.sources["use_mock_db"] = "environment"
	}
	if val := os.Getenv("HELPDESK_WATCH_SEED"); val != "" {
		c.WatchSeed = val == "true" || val == "1"
		c.sources["watch_seed"] = "environment"
	}
	if val := os.Getenv("HELPDESK_CORS_ORIGINS"); val != "" {
		c.CORSOrigins = splitAndTrim(val)
		c.sources["cors_origins"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Address returns the host:port the API server listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// TokenLifetime returns the token TTL as a duration
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// SigningSecret returns the JWT secret, falling back to the development
// secret when none is configured.
func (c *Config) SigningSecret() []byte {
	if c.JWTSecret == "" {
		return []byte(DevelopmentJWTSecret)
	}
	return []byte(c.JWTSecret)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token_ttl: %d", c.TokenTTL)
	}
	if !c.UseMockDB && c.DatabaseURL == "" {
		return errors.New("database_url is required when use_mock_db is false")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	return c.checkProduction()
}

// checkProduction blocks startup when development conveniences are enabled
// in production.
func (c *Config) checkProduction() error {
	if !c.IsProduction() {
		return nil
	}

	var problems []string
	if c.UseMockDB {
		problems = append(problems, "use_mock_db is enabled")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "jwt_secret is not set")
	} else if c.JWTSecret == DevelopmentJWTSecret {
		problems = append(problems, "jwt_secret is the development secret")
	}
	if len(problems) > 0 {
		return fmt.Errorf("unsafe production configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	secret := ""
	if c.JWTSecret != "" {
		secret = "********"
	}
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "environment", Value: c.Environment, Source: c.Source("environment")},
		{Name: "use_mock_db", Value: strconv.FormatBool(c.UseMockDB), Source: c.Source("use_mock_db")},
		{Name: "database_url", Value: maskURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "seed_file", Value: c.SeedFile, Source: c.Source("seed_file")},
		{Name: "watch_seed", Value: strconv.FormatBool(c.WatchSeed), Source: c.Source("watch_seed")},
		{Name: "jwt_secret", Value: secret, Source: c.Source("jwt_secret")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "cors_origins", Value: strings.Join(c.CORSOrigins, ","), Source: c.Source("cors_origins")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// maskURL hides the password of a connection URL.
func maskURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return raw
	}
	user, _, hasPassword := strings.Cut(creds, ":")
	if !hasPassword {
		return raw
	}
	return scheme + "://" + user + ":********@" + host
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
