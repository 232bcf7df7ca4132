//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// MockGen - Mock generation for collaborator interfaces
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Version: v0.6.0 (pinned, matches go.mod)
//   Docs: https://github.com/uber-go/mock
//
// golangci-lint - Lint aggregator
//   Install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@v1.64.8
//   Docs: https://golangci-lint.run
