// Package configs provides embedded configuration files for postboard.
package configs

import _ "embed"

// DefaultConfig holds the built-in configuration every user file is merged over.
//
//go:embed default.yaml
var DefaultConfig []byte
