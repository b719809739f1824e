// Package config provides configuration types and defaults for carve.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrMissingInput indicates no input path was provided.
	ErrMissingInput = errors.New("input path is required")

	// ErrNoIntent indicates neither a segment count nor a segment duration was set.
	ErrNoIntent = errors.New("either a segment count or a segment duration is required")

	// ErrConflictingIntent indicates both segment count and duration were set.
	ErrConflictingIntent = errors.New("segment count and segment duration are mutually exclusive")

	// ErrInvalidSegmentCount indicates a negative segment count.
	ErrInvalidSegmentCount = errors.New("segment count out of range")

	// ErrInvalidSegmentDuration indicates a negative segment duration.
	ErrInvalidSegmentDuration = errors.New("segment duration out of range")

	// ErrInvalidMode indicates an unknown rate-control mode name.
	ErrInvalidMode = errors.New("invalid rate-control mode")

	// ErrInvalidFrameRate indicates a negative target frame rate.
	ErrInvalidFrameRate = errors.New("target frame rate out of range")
)
