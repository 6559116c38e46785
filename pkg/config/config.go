package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// HashtagPlaceholder is replaced with the escaped hashtag in Source.SearchURL
const HashtagPlaceholder = "{hashtag}"

// Config holds all configuration options for tagtally
type Config struct {
	// Search page and markup markers
	Source SourceConfig `yaml:"source" json:"source"`

	// Polling behaviour
	Poll PollConfig `yaml:"poll" json:"poll"`

	// Report output
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SourceConfig describes the search results page and the markup contract
// used to find posts and mentions on it.
type SourceConfig struct {
	SearchURL       string        `yaml:"search_url" json:"search_url"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	PostSelector    string        `yaml:"post_selector" json:"post_selector"`
	MentionSelector string        `yaml:"mention_selector" json:"mention_selector"`
	IDAttribute     string        `yaml:"id_attribute" json:"id_attribute"`
	// Extra request headers sent with every page load
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// UnmarshalYAML accepts durations as plain seconds or duration strings.
// Keys missing from the file keep their current values.
func (s *SourceConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		SearchURL       *string           `yaml:"search_url"`
		UserAgent       *string           `yaml:"user_agent"`
		Timeout         yaml.Node         `yaml:"timeout"`
		PostSelector    *string           `yaml:"post_selector"`
		MentionSelector *string           `yaml:"mention_selector"`
		IDAttribute     *string           `yaml:"id_attribute"`
		Headers         map[string]string `yaml:"headers"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	setString(&s.SearchURL, raw.SearchURL)
	setString(&s.UserAgent, raw.UserAgent)
	setString(&s.PostSelector, raw.PostSelector)
	setString(&s.MentionSelector, raw.MentionSelector)
	setString(&s.IDAttribute, raw.IDAttribute)
	if raw.Headers != nil {
		s.Headers = raw.Headers
	}
	return decodeDuration(&raw.Timeout, "source.timeout", &s.Timeout)
}

// PollConfig holds poll loop configuration
type PollConfig struct {
	Period       time.Duration `yaml:"period" json:"period"`
	AbortOnError bool          `yaml:"abort_on_error" json:"abort_on_error"`
}

// UnmarshalYAML accepts the period as plain seconds or a duration string
func (p *PollConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Period       yaml.Node `yaml:"period"`
		AbortOnError *bool     `yaml:"abort_on_error"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.AbortOnError != nil {
		p.AbortOnError = *raw.AbortOnError
	}
	return decodeDuration(&raw.Period, "poll.period", &p.Period)
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

// decodeDuration sets dst from a scalar node, leaving it alone when the key
// is absent or null.
func decodeDuration(node *yaml.Node, field string, dst *time.Duration) error {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%s: expected seconds or a duration", field)
	}
	d, err := parseSeconds(node.Value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

// OutputConfig holds report configuration
type OutputConfig struct {
	File      string `yaml:"file" json:"file"`
	Histogram bool   `yaml:"histogram" json:"histogram"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			SearchURL:       "https://twitter.com/search?f=tweets&vertical=default&q=%23" + HashtagPlaceholder + "&src=typd",
			UserAgent:       "",
			Timeout:         30 * time.Second,
			PostSelector:    "p.tweet-text",
			MentionSelector: "a.twitter-atreply",
			IDAttribute:     "data-tweet-id",
		},
		Poll: PollConfig{
			Period:       15 * time.Second,
			AbortOnError: false,
		},
		Output: OutputConfig{
			File:      "output.csv",
			Histogram: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if searchURL := os.Getenv("TAGTALLY_SEARCH_URL"); searchURL != "" {
		c.Source.SearchURL = searchURL
	}
	if userAgent := os.Getenv("TAGTALLY_USER_AGENT"); userAgent != "" {
		c.Source.UserAgent = userAgent
	}
	if selector := os.Getenv("TAGTALLY_POST_SELECTOR"); selector != "" {
		c.Source.PostSelector = selector
	}
	if selector := os.Getenv("TAGTALLY_MENTION_SELECTOR"); selector != "" {
		c.Source.MentionSelector = selector
	}
	if attr := os.Getenv("TAGTALLY_ID_ATTRIBUTE"); attr != "" {
		c.Source.IDAttribute = attr
	}
	if timeout := os.Getenv("TAGTALLY_TIMEOUT"); timeout != "" {
		d, err := parseSeconds(timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("TAGTALLY_TIMEOUT: %w", err))
		} else {
			c.Source.Timeout = d
		}
	}

	// Poll period, plain seconds or a Go duration
	if period := os.Getenv("TAGTALLY_PERIOD"); period != "" {
		d, err := parseSeconds(period)
		if err != nil {
			errs = append(errs, fmt.Errorf("TAGTALLY_PERIOD: %w", err))
		} else {
			c.Poll.Period = d
		}
	}
	if abort := os.Getenv("TAGTALLY_ABORT_ON_ERROR"); abort != "" {
		c.Poll.AbortOnError = strings.ToLower(abort) == "true"
	}

	if file := os.Getenv("TAGTALLY_OUTPUT_FILE"); file != "" {
		c.Output.File = file
	}
	if histogram := os.Getenv("TAGTALLY_HISTOGRAM"); histogram != "" {
		c.Output.Histogram = strings.ToLower(histogram) == "true"
	}

	if logLevel := os.Getenv("TAGTALLY_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("TAGTALLY_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return errors.Join(errs...)
}

// parseSeconds accepts either an integer number of seconds or a duration string
func parseSeconds(value string) (time.Duration, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return d, nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for a config file in the standard locations and
// returns the first one that exists, or an empty string.
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"tagtally.yaml",
		".tagtally.yaml",
		".tagtally.yml",
		filepath.Join(home, ".config", "tagtally", "config.yaml"),
		filepath.Join(home, ".config", "tagtally", "config.yml"),
		filepath.Join(home, ".tagtally.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Source.SearchURL == "" {
		errs = append(errs, errors.New("search URL is required"))
	} else if !strings.Contains(c.Source.SearchURL, HashtagPlaceholder) {
		errs = append(errs, fmt.Errorf("search URL must contain the %s placeholder", HashtagPlaceholder))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if strings.TrimSpace(c.Source.PostSelector) == "" {
		errs = append(errs, errors.New("post selector is required"))
	}
	if strings.TrimSpace(c.Source.MentionSelector) == "" {
		errs = append(errs, errors.New("mention selector is required"))
	}

	if c.Poll.Period <= 0 {
		errs = append(errs, errors.New("poll period must be positive"))
	}

	if c.Output.File == "" {
		errs = append(errs, errors.New("output file is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if file, ok := flags["file"].(string); ok && file != "" {
		c.Output.File = file
	}
	// Any explicit period is applied so Validate can reject non-positive ones
	if period, ok := flags["period"].(int); ok {
		c.Poll.Period = time.Duration(period) * time.Second
	}
	if histogram, ok := flags["histogram"].(bool); ok {
		c.Output.Histogram = histogram
	}
	if searchURL, ok := flags["url"].(string); ok && searchURL != "" {
		c.Source.SearchURL = searchURL
	}
	if abort, ok := flags["abort-on-error"].(bool); ok {
		c.Poll.AbortOnError = abort
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
	// -V wins over any configured level
	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		c.Logging.Level = "debug"
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tagtally.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
