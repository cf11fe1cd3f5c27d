// SPDX-License-Identifier: MIT

package daemon

import "errors"

var (
	// ErrMissingLogger is returned when no logger is provided.
	ErrMissingLogger = errors.New("logger is required")

	// ErrMissingAPIHandler is returned when no API handler is provided.
	ErrMissingAPIHandler = errors.New("API handler is required")

	// ErrManagerNotStarted is returned when shutting down a manager that
	// never started.
	ErrManagerNotStarted = errors.New("manager not started")
)
