package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizePlatform()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeEPUB()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePlatform() {
	c.Platform.BaseURL = strings.TrimRight(strings.TrimSpace(c.Platform.BaseURL), "/")
	if c.Platform.BaseURL == "" {
		c.Platform.BaseURL = defaultBaseURL
	}
	if value, ok := os.LookupEnv("STORYDL_USER_AGENT"); ok && strings.TrimSpace(value) != "" {
		c.Platform.UserAgent = value
	}
	c.Platform.UserAgent = strings.TrimSpace(c.Platform.UserAgent)
	if c.Platform.UserAgent == "" {
		c.Platform.UserAgent = defaultUserAgent
	}
	if c.Platform.Proxy == "" {
		if value, ok := os.LookupEnv("STORYDL_PROXY"); ok {
			c.Platform.Proxy = value
		}
	}
	c.Platform.Proxy = strings.TrimSpace(c.Platform.Proxy)
}

func (c *Config) normalizeOutput() error {
	if value, ok := os.LookupEnv("STORYDL_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Output.Dir = value
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	var err error
	if c.Output.Dir, err = expandPath(strings.TrimSpace(c.Output.Dir)); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	c.Output.Format = NormalizeFormat(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	return nil
}

func (c *Config) normalizeEPUB() {
	c.EPUB.Language = strings.TrimSpace(c.EPUB.Language)
	if c.EPUB.Language == "" {
		c.EPUB.Language = defaultEPUBLanguage
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

// NormalizeFormat canonicalizes an output format name. "text" is accepted as
// an alias for "txt". Unknown values are returned lowercased for validation
// to reject.
func NormalizeFormat(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, ".")
	if value == "text" {
		return FormatText
	}
	return value
}
