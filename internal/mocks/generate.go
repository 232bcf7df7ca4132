// Package mocks provides mock implementations for testing the application
// engine.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the collaborator interfaces in internal/core. The generated files are
// committed so the tree builds without a codegen step.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	oracle := mocks.NewMockOracle(ctrl)
//	oracle.EXPECT().AnswerNumeric(gomock.Any(), gomock.Any()).Return(5, nil)
package mocks

// Generate mock for the Oracle interface from internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=oracle_mock.go github.com/applypilot/applypilot/internal/core Oracle

// Generate mock for the DocumentGenerator interface from internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=document_generator_mock.go github.com/applypilot/applypilot/internal/core DocumentGenerator
