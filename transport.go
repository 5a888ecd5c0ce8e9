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
	"context"
	"sync"
	"time"
)

// Transport is the byte source/sink the protocol runs over. This can be
// implemented by a UART backend or an in-memory pipe for tests.
//
// The protocol core suspends only inside ReadBytes, never mid-field;
// cancellation between reads leaves the session at a field boundary.
type Transport interface {
	// ReadBytes blocks until exactly n bytes are available or the context
	// is cancelled. Partial reads are never returned.
	ReadBytes(ctx context.Context, n int) ([]byte, error)

	// WriteBytes writes the full buffer to the outbound channel.
	WriteBytes(p []byte) error

	// Close closes the transport connection
	Close() error

	// SetTimeout sets the per-read timeout for the transport
	SetTimeout(timeout time.Duration) error

	// Type returns the transport type
	Type() TransportType
}

// TransportType identifies the transport backend
type TransportType string

const (
	// TransportUART is a serial port transport
	TransportUART TransportType = "uart"
	// TransportPipe is an in-memory duplex transport for tests
	TransportPipe TransportType = "pipe"
	// TransportMock is a scripted transport for tests
	TransportMock TransportType = "mock"
)

// MockTransport provides a scripted implementation of Transport for
// testing. Inbound bytes are queued with Feed; everything written by the
// code under test is captured and retrievable with Written.
type MockTransport struct {
	readErr   error
	inbound   []byte
	written   []byte
	timeout   time.Duration
	delay     time.Duration
	mu        sync.RWMutex
	connected bool
}

// NewMockTransport creates a new mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{
		connected: true,
		timeout:   time.Second,
	}
}

// ReadBytes implements Transport
func (m *MockTransport) ReadBytes(ctx context.Context, n int) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	connected := m.connected
	delay := m.delay
	m.mu.RUnlock()

	if !connected {
		return nil, &TransportError{
			Op: "ReadBytes", Err: ErrTransportClosed,
			Type: ErrorTypePermanent, Retryable: false,
		}
	}

	// Simulate hardware delay if configured
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		err := m.readErr
		return nil, err
	}

	if len(m.inbound) < n {
		// A real port would block here; a mock that runs dry means the
		// script is exhausted, which tests treat like a dead link.
		return nil, NewTransportTimeoutError("ReadBytes", "mock")
	}

	out := make([]byte, n)
	copy(out, m.inbound[:n])
	m.inbound = m.inbound[n:]
	return out, nil
}

// WriteBytes implements Transport
func (m *MockTransport) WriteBytes(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return &TransportError{
			Op: "WriteBytes", Err: ErrTransportClosed,
			Type: ErrorTypePermanent, Retryable: false,
		}
	}

	m.written = append(m.written, p...)
	return nil
}

// Close implements Transport
func (m *MockTransport) Close() error {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
	return nil
}

// SetTimeout implements Transport
func (m *MockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	m.timeout = timeout
	m.mu.Unlock()
	return nil
}

// Type implements Transport
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// Test helper methods

// Feed queues bytes to be returned by subsequent reads
func (m *MockTransport) Feed(p ...byte) {
	m.mu.Lock()
	m.inbound = append(m.inbound, p...)
	m.mu.Unlock()
}

// SetReadError configures an error to be returned by the next reads
func (m *MockTransport) SetReadError(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

// ClearReadError removes read error injection
func (m *MockTransport) ClearReadError() {
	m.mu.Lock()
	m.readErr = nil
	m.mu.Unlock()
}

// SetDelay configures a delay to simulate hardware response time
func (m *MockTransport) SetDelay(delay time.Duration) {
	m.mu.Lock()
	m.delay = delay
	m.mu.Unlock()
}

// Written returns everything the code under test has sent outbound
func (m *MockTransport) Written() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]byte, len(m.written))
	copy(out, m.written)
	return out
}

// Pending returns the number of unread scripted bytes
func (m *MockTransport) Pending() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.inbound)
}

// Reset clears the script, captured writes and reconnects the transport
func (m *MockTransport) Reset() {
	m.mu.Lock()
	m.inbound = nil
	m.written = nil
	m.readErr = nil
	m.connected = true
	m.mu.Unlock()
}

// Ensure MockTransport implements Transport
var _ Transport = (*MockTransport)(nil)
