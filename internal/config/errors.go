package config

import "errors"

var (
	// ErrUnsupportedFormat marks a file extension with no known parser.
	ErrUnsupportedFormat = errors.New("config: unsupported format")

	// ErrLoadFailed marks an unreadable config file.
	ErrLoadFailed = errors.New("config: failed to load")

	// ErrParseFailed marks config data the parser rejected.
	ErrParseFailed = errors.New("config: failed to parse")

	// ErrInvalid marks settings that fail validation.
	ErrInvalid = errors.New("config: invalid settings")
)
