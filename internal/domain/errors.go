// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrTrackNotFound is returned when a requested track cannot be found.
	ErrTrackNotFound = errors.New("track not found")

	// ErrAlbumNotFound is returned when a requested album or playlist cannot be found.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrArtistNotFound is returned when a requested artist cannot be found.
	ErrArtistNotFound = errors.New("artist not found")

	// ErrThemeNotFound is returned when no visualizer theme exists for an album.
	ErrThemeNotFound = errors.New("visualizer theme not found")

	// ErrUnknownDrawStyle is returned when a theme names a draw style outside the closed set.
	ErrUnknownDrawStyle = errors.New("unknown draw style")

	// ErrNoTrackLoaded is returned when playback is attempted with no track loaded.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrPlaybackRejected is returned when the platform refuses to start playback.
	ErrPlaybackRejected = errors.New("playback rejected by platform")

	// ErrStreamUnavailable is returned when a stream URL cannot be resolved.
	ErrStreamUnavailable = errors.New("stream unavailable")

	// ErrUnsupportedFormat is returned when an audio source format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNoSource is returned when an output operation needs a loaded source.
	ErrNoSource = errors.New("no source loaded")

	// ErrOutputClosed is returned when an audio output is used after Close.
	ErrOutputClosed = errors.New("audio output closed")

	// ErrAnalyzerNotRegistered is returned when connecting an analyzer without an audio element.
	ErrAnalyzerNotRegistered = errors.New("no audio element registered for analysis")

	// ErrAnalyzerUnavailable is returned when frequency analysis is not supported by the output.
	ErrAnalyzerUnavailable = errors.New("frequency analysis unavailable")

	// ErrInvalidDimensions is returned when a render surface has a non-positive size.
	ErrInvalidDimensions = errors.New("invalid surface dimensions")

	// ErrAccessRuleNotFound is returned when no access rule exists for a track.
	ErrAccessRuleNotFound = errors.New("access rule not found")

	// ErrAccessDenied is returned when a session is not entitled to a track.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotRunning is returned when stopping a loop that is not running.
	ErrNotRunning = errors.New("not running")

	// ErrAlreadyRunning is returned when starting a loop that is already running.
	ErrAlreadyRunning = errors.New("already running")

	// ErrInvalidVolume is returned when a volume is outside [0, 1].
	ErrInvalidVolume = errors.New("volume must be between 0.0 and 1.0")
)

// AudioOutputError represents an error from the audio output.
// This wraps low-level decoder and device errors with additional context.
type AudioOutputError struct {
	Op      string // Operation that failed (e.g., "load", "play", "seek")
	Source  string // Source URL (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *AudioOutputError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("audio output %s failed for '%s': %s", e.Op, e.Source, e.Message)
	}
	return fmt.Sprintf("audio output %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioOutputError) Unwrap() error {
	return e.Err
}

// NewAudioOutputError creates a new AudioOutputError.
func NewAudioOutputError(op, source, message string, err error) *AudioOutputError {
	return &AudioOutputError{
		Op:      op,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load", "delete")
	Type    string // Repository type (e.g., "preferences", "access_rules")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// CatalogError represents a failed catalog lookup.
type CatalogError struct {
	Op     string // Operation that failed (e.g., "track", "playlist", "stream")
	ID     string // Requested identifier
	Status int    // HTTP status (0 when not applicable)
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog %s %q failed: status %d", e.Op, e.ID, e.Status)
	}
	return fmt.Sprintf("catalog %s %q failed: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(op, id string, status int, err error) *CatalogError {
	return &CatalogError{
		Op:     op,
		ID:     id,
		Status: status,
		Err:    err,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "AudioBridge", "AccessService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
