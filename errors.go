// Copyright 2026 The RFBridge Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rfbridge

import (
	"errors"
	"fmt"
)

// Error categories for error handling and recovery logic
var (
	// Transport errors - surfaced to the caller, never recovered locally
	ErrTransportTimeout = errors.New("transport timeout")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportClosed  = errors.New("transport is closed")

	// Desync errors - recovered by resynchronization, never fatal
	ErrChannelRange  = errors.New("channel out of range")
	ErrChunkTooLarge = errors.New("chunk length exceeds buffer capacity")
	ErrNotSynced     = errors.New("receive stream is not synchronized")

	// Session errors - programming errors, not protocol errors
	ErrAlreadyConfigured = errors.New("session already configured")
	ErrNotConfigured     = errors.New("session not configured")

	// ErrEndOfTransfer reports the zero-length terminator chunk. It marks
	// the normal end of the data phase, not a failure.
	ErrEndOfTransfer = errors.New("end of transfer")

	// Radio errors
	ErrRadioMaxRetries = errors.New("radio gave up after max retransmits")
	ErrRadioNoPayload  = errors.New("no payload available")
)

// ErrorType represents the category of error for recovery logic
type ErrorType int

const (
	// ErrorTypeTransient indicates a potentially retryable error
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates a non-retryable error
	ErrorTypePermanent
	// ErrorTypeTimeout indicates a timeout error (special handling)
	ErrorTypeTimeout
)

// TransportError wraps byte source/sink failures with additional context.
// It always represents a link-level fault, never a protocol violation.
type TransportError struct {
	Err       error     // Underlying error
	Op        string    // Operation that failed
	Port      string    // Port or device identifier
	Type      ErrorType // Error category
	Retryable bool      // Whether the error is retryable
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DesyncError reports a byte that arrived outside the expected phase
// pattern: a malformed length prefix, an out-of-range channel, or any
// other framing violation. The session has already been forced back to
// SyncFlushing when one of these is returned; the caller recovers by
// resynchronizing, not by aborting.
type DesyncError struct {
	Err   error  // Violated constraint
	Phase string // Protocol phase that detected the violation
	Byte  byte   // Offending byte value
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("desync in %s phase (byte 0x%02X): %v", e.Phase, e.Byte, e.Err)
}

func (e *DesyncError) Unwrap() error {
	return e.Err
}

// NewTransportReadError creates a TransportError for a failed read
func NewTransportReadError(op, port string, err error) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       fmt.Errorf("%w: %w", ErrTransportRead, err),
		Type:      ErrorTypeTransient,
		Retryable: true,
	}
}

// NewTransportWriteError creates a TransportError for a short or failed write
func NewTransportWriteError(op, port string) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       ErrTransportWrite,
		Type:      ErrorTypeTransient,
		Retryable: true,
	}
}

// NewTransportTimeoutError creates a TransportError for an expired deadline
func NewTransportTimeoutError(op, port string) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       ErrTransportTimeout,
		Type:      ErrorTypeTimeout,
		Retryable: true,
	}
}

// IsDesync reports whether err is a recoverable protocol violation. The
// caller is expected to resynchronize and continue rather than fail the
// session.
func IsDesync(err error) bool {
	var desyncErr *DesyncError
	return errors.As(err, &desyncErr)
}

// IsTransport reports whether err is a link-level fault that must be
// surfaced to the caller. Resynchronization cannot recover these.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsRetryable reports whether an operation that returned err is worth
// retrying on the same link.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable
	}

	// Desync errors are always recoverable via resynchronization
	return IsDesync(err)
}
