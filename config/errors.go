package config

import "errors"

var (
	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidEnv indicates an override variable could not be parsed.
	ErrInvalidEnv = errors.New("config: invalid environment override")

	// ErrWatcherStopped indicates Start was called on a stopped Watcher.
	ErrWatcherStopped = errors.New("config: watcher stopped")
)
