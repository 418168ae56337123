package config

import (
	"fmt"
	"strings"

	"thumbcache/domain"
)

// validateConfig validates the loaded configuration values
func validateConfig(config *Config) error {
	if err := validateCacheConfig(&config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if strings.TrimSpace(config.Public.Root) == "" {
		return fmt.Errorf("public root must not be empty")
	}

	if err := validateImageConfig(&config.Image); err != nil {
		return fmt.Errorf("image config validation failed: %w", err)
	}

	if err := validateHTTPConfig(&config.HTTP); err != nil {
		return fmt.Errorf("HTTP config validation failed: %w", err)
	}

	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

func validateCacheConfig(config *CacheConfig) error {
	if strings.TrimSpace(config.Root) == "" {
		return fmt.Errorf("cache root must not be empty")
	}
	if config.Expire < 0 {
		return fmt.Errorf("expire must not be negative, got %v", config.Expire)
	}
	if config.SweepInterval < 0 {
		return fmt.Errorf("sweep interval must not be negative, got %v", config.SweepInterval)
	}
	return nil
}

func validateImageConfig(config *ImageConfig) error {
	if config.Quality < 0 || config.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", config.Quality)
	}
	if _, err := domain.ParseResizeMode(config.Mode); err != nil {
		return err
	}
	if _, err := domain.ParseStalenessPolicy(config.CacheMode); err != nil {
		return err
	}
	if _, err := domain.MimeType(strings.TrimPrefix(config.PictureFormat, ".")); err != nil {
		return err
	}
	return nil
}

func validateHTTPConfig(config *HTTPConfig) error {
	if config.ClientTimeout <= 0 {
		return fmt.Errorf("client timeout must be positive, got %v", config.ClientTimeout)
	}
	if config.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", config.MaxBodyBytes)
	}
	if config.HostInterval < 0 {
		return fmt.Errorf("host interval must not be negative, got %v", config.HostInterval)
	}
	return nil
}

func validateServerConfig(config *ServerConfig) error {
	// Validate port range
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	if config.ReadTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got ReadTimeout: %v", config.ReadTimeout)
	}

	if config.WriteTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got WriteTimeout: %v", config.WriteTimeout)
	}

	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(config.Level)] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", config.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(config.Format)] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", config.Format)
	}
	return nil
}
