//go:build tools
// +build tools

// Package relay pins code generators (mockgen) as module dependencies.
package relay

import (
	_ "go.uber.org/mock/mockgen"
)
