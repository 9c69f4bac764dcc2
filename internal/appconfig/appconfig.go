package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host     string         `yaml:"host"`
	BasePath string         `yaml:"basePath"`
	DocsPath string         `yaml:"docsPath"`
	SiteURL  string         `yaml:"siteURL"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Pulsar   PulsarConfig   `yaml:"pulsar"`
	Auth     AuthConfig     `yaml:"auth"`
	AWS      AWSConfig      `yaml:"aws"`
	Email    EmailConfig    `yaml:"email"`
	Commands CommandsConfig `yaml:"commands"`
	Links    LinksConfig    `yaml:"links"`
}

// DatabaseConfig defines the database connection details. Driver is
// "postgres" or "memory".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Source string `yaml:"source"`
}

// RedisConfig enables the shared ephemeral store and rate limiter when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

// AuthConfig defines how session tokens are signed. SigningKeySecret names
// an AWS Secrets Manager secret that overrides SigningKey.
type AuthConfig struct {
	TokenTTL         time.Duration `yaml:"tokenTTL"`
	SigningKey       string        `yaml:"signingKey"`
	SigningKeySecret string        `yaml:"signingKeySecret"`
}

// AWSConfig selects the region and, for local stacks, an endpoint override.
type AWSConfig struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// EmailConfig controls /invite_people.
type EmailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	From      string `yaml:"from"`
	InviteURL string `yaml:"inviteURL"`
}

type RateLimitConfig struct {
	Max    int           `yaml:"max"`
	Window time.Duration `yaml:"window"`
}

type CommandsConfig struct {
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	EphemeralTTL time.Duration   `yaml:"ephemeralTTL"`
}

// LinksConfig holds documentation links embedded in command responses.
type LinksConfig struct {
	ChannelHandleHelp string `yaml:"channelHandleHelp"`
	Help              string `yaml:"help"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0:8065"
	}
	if c.BasePath == "" {
		c.BasePath = "/api/v4"
	}
	if c.DocsPath == "" {
		c.DocsPath = "/api/docs"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:8065"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Commands.RateLimit.Max == 0 {
		c.Commands.RateLimit.Max = 60
	}
	if c.Commands.RateLimit.Window == 0 {
		c.Commands.RateLimit.Window = time.Minute
	}
	if c.Commands.EphemeralTTL == 0 {
		c.Commands.EphemeralTTL = 24 * time.Hour
	}
	if c.Links.ChannelHandleHelp == "" {
		c.Links.ChannelHandleHelp = "https://about.mattermost.com/default-channel-handle-documentation"
	}
	if c.Links.Help == "" {
		c.Links.Help = "https://mattermost.com/default-help/"
	}
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		err := errors.New("config file path is required")
		log.Error().Err(err).Msg("config file not provided")
		return nil, err
	}

	// Parse the template file
	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=zero").ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	return render(tmpl, loadEnvVars())
}

// Parse renders raw as a config template over the given variables.
func Parse(raw string, vars map[string]string) (*Config, error) {
	tmpl, err := template.New("config").Option("missingkey=zero").Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing config template: %w", err)
	}
	return render(tmpl, vars)
}

func render(tmpl *template.Template, vars map[string]string) (*Config, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, fmt.Errorf("error executing config template: %w", err)
	}

	// Load and unmarshal the YAML
	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
