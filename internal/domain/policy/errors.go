package policy

import "errors"

var (
	ErrConfigurationNotFound = errors.New("attendance configuration not found")
	ErrGlobalConfigExists    = errors.New("global attendance configuration already exists")
)
