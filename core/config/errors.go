package config

import "errors"

// ErrParse wraps failures to parse environment variables into a config struct.
var ErrParse = errors.New("failed to parse config from environment")
