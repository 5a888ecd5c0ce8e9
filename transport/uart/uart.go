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

// Package uart provides the serial port transport for the bridge
// protocol.
package uart

import (
	"context"
	"fmt"
	"strings"
	"time"

	rfbridge "github.com/rfbridge-project/go-rfbridge"
	"github.com/rfbridge-project/go-rfbridge/internal/syncutil"
	"go.bug.st/serial"
)

// readPollInterval is how long to idle when the port returns no data
// before the next poll.
const readPollInterval = 2 * time.Millisecond

// Transport implements the rfbridge.Transport interface for UART
// communication.
type Transport struct {
	port     serial.Port
	portName string
	mu       syncutil.Mutex
}

// Option configures a Transport during construction
type Option func(*options)

type options struct {
	baudRate    int
	readTimeout time.Duration
}

// WithBaudRate overrides the default link speed.
func WithBaudRate(baud int) Option {
	return func(o *options) { o.baudRate = baud }
}

// WithReadTimeout overrides the default per-read poll timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = d }
}

// New creates a new UART transport. The port is opened 8N1 at
// rfbridge.DefaultBaudRate unless overridden.
func New(portName string, opts ...Option) (*Transport, error) {
	o := &options{
		baudRate:    rfbridge.DefaultBaudRate,
		readTimeout: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: o.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(o.readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set UART read timeout: %w", err)
	}

	return &Transport{
		port:     port,
		portName: portName,
	}, nil
}

// ListPorts returns the serial ports available on this machine.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// ReadBytes blocks until exactly n bytes arrive or ctx is cancelled.
// The port's own read timeout only bounds each poll; accumulation across
// polls means a slow host never produces a partial field.
func (t *Transport) ReadBytes(ctx context.Context, n int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil, &rfbridge.TransportError{
			Op: "ReadBytes", Port: t.portName,
			Err:  rfbridge.ErrTransportClosed,
			Type: rfbridge.ErrorTypePermanent,
		}
	}

	buf := make([]byte, n)
	got := 0
	for got < n {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		read, err := t.port.Read(buf[got:])
		if err != nil {
			return nil, rfbridge.NewTransportReadError("ReadBytes", t.portName, err)
		}
		if read == 0 {
			// Poll timeout expired with nothing buffered
			time.Sleep(readPollInterval)
			continue
		}
		got += read
	}

	return buf, nil
}

// WriteBytes writes the full buffer and drains the port.
func (t *Transport) WriteBytes(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return &rfbridge.TransportError{
			Op: "WriteBytes", Port: t.portName,
			Err:  rfbridge.ErrTransportClosed,
			Type: rfbridge.ErrorTypePermanent,
		}
	}

	n, err := t.port.Write(p)
	if err != nil {
		return fmt.Errorf("UART write failed: %w", err)
	} else if n != len(p) {
		return rfbridge.NewTransportWriteError("WriteBytes", t.portName)
	}

	return t.drainWithRetry("write")
}

// SetTimeout sets the per-poll read timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("UART set timeout failed: %w", err)
	}
	return nil
}

// Close closes the transport connection
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port != nil {
		port := t.port
		t.port = nil
		if err := port.Close(); err != nil {
			return fmt.Errorf("UART close failed: %w", err)
		}
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() rfbridge.TransportType {
	return rfbridge.TransportUART
}

// isInterruptedSystemCall checks if an error is caused by an interrupted
// system call
func isInterruptedSystemCall(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "interrupted system call") ||
		strings.Contains(errStr, "eintr")
}

// drainWithRetry performs port drain with retry logic for interrupted
// system calls
func (t *Transport) drainWithRetry(operation string) error {
	const maxRetries = 3
	baseDelay := 2 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := t.port.Drain()
		if err == nil {
			return nil
		}

		if isInterruptedSystemCall(err) {
			if attempt < maxRetries-1 {
				delay := baseDelay * time.Duration(1<<attempt) // 2ms, 4ms, 8ms
				time.Sleep(delay)
				continue
			}
		}

		return fmt.Errorf("UART %s drain failed: %w", operation, err)
	}

	return fmt.Errorf("UART %s drain failed after %d retries", operation, maxRetries)
}

// Ensure Transport implements rfbridge.Transport
var _ rfbridge.Transport = (*Transport)(nil)
