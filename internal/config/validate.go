package config

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable. It also canonicalizes the
// e-book language tag.
func (c *Config) Validate() error {
	if err := c.validatePlatform(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateEPUB(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePlatform() error {
	base, err := url.Parse(c.Platform.BaseURL)
	if err != nil {
		return fmt.Errorf("platform.base_url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return fmt.Errorf("platform.base_url must use http or https, got %q", c.Platform.BaseURL)
	}
	if base.Host == "" {
		return fmt.Errorf("platform.base_url must include a host, got %q", c.Platform.BaseURL)
	}
	if c.Platform.Proxy != "" {
		proxy, err := url.Parse(c.Platform.Proxy)
		if err != nil {
			return fmt.Errorf("platform.proxy: %w", err)
		}
		switch proxy.Scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			return fmt.Errorf("platform.proxy scheme must be http, https, socks5, or socks5h, got %q", proxy.Scheme)
		}
		if proxy.Host == "" {
			return fmt.Errorf("platform.proxy must include a host, got %q", c.Platform.Proxy)
		}
	}
	if c.Platform.TimeoutSeconds < 0 {
		return errors.New("platform.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case FormatText, FormatEPUB:
		return nil
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", FormatText, FormatEPUB, c.Output.Format)
	}
}

func (c *Config) validateEPUB() error {
	tag, err := language.Parse(c.EPUB.Language)
	if err != nil {
		return fmt.Errorf("epub.language %q is not a valid BCP 47 tag: %w", c.EPUB.Language, err)
	}
	c.EPUB.Language = tag.String()
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
