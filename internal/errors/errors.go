// Package errors provides custom error types for volley.
package errors

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// Configuration errors
	ErrMissingURL         = errors.New("target url is required")
	ErrInvalidURL         = errors.New("target url is not valid")
	ErrInvalidDuration    = errors.New("duration must be at least 1 second")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrInvalidQPS         = errors.New("qps must be at least 1")
	ErrConfigNotFound     = errors.New("config file not found")

	// Hook errors
	ErrPreHookNotFound  = errors.New("pre-hook script not found")
	ErrPostHookNotFound = errors.New("post-hook script not found")

	// Script errors
	ErrScriptNoRequestFn = errors.New("script must define a 'request()' function")
	ErrScriptBadReturn   = errors.New("script must return a dict")
	ErrScriptEmptyURL    = errors.New("script returned an empty url")

	// Report errors
	ErrOutputDirEmpty = errors.New("output directory path is empty")
)

// WithInvalidURLDetails adds the parse failure to the invalid url error.
func WithInvalidURLDetails(rawURL string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidURL, rawURL, err)
}

// WithPreHookNotFoundDetails adds the hook path to the pre-hook not found error.
func WithPreHookNotFoundDetails(path string) error {
	return fmt.Errorf("%w: %s", ErrPreHookNotFound, path)
}

// WithPostHookNotFoundDetails adds the hook path to the post-hook not found error.
func WithPostHookNotFoundDetails(path string) error {
	return fmt.Errorf("%w: %s", ErrPostHookNotFound, path)
}

// WithConfigNotFoundDetails adds the config path to the config not found error.
func WithConfigNotFoundDetails(path string) error {
	return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
}
