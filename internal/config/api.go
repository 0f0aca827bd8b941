package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/scorecard/pkg/formatting"
	"github.com/JaimeStill/scorecard/pkg/middleware"
	"github.com/JaimeStill/scorecard/pkg/openapi"
	"github.com/JaimeStill/scorecard/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SCORECARD_CORS_ENABLED",
	Origins:          "SCORECARD_CORS_ORIGINS",
	AllowedMethods:   "SCORECARD_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SCORECARD_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "SCORECARD_CORS_EXPOSED_HEADERS",
	AllowCredentials: "SCORECARD_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SCORECARD_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SCORECARD_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SCORECARD_PAGINATION_MAX_PAGE_SIZE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "SCORECARD_OPENAPI_TITLE",
	Description: "SCORECARD_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns the upload limit, falling back to 10MB when unparseable.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("SCORECARD_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("SCORECARD_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
