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
	"fmt"
	"time"
)

// ProgressCallback is called after each acknowledged chunk to report
// transfer progress.
type ProgressCallback func(sent, total int)

// Sender drives the host side of the bridge protocol over a Transport:
// it emits the sentinel run, the configuration record and the chunked
// file payload, waiting for the firmware's handshake character before
// each unit.
type Sender struct {
	transport        Transport
	progress         ProgressCallback
	config           RadioConfig
	handshakeTimeout time.Duration
}

// SenderOption configures a Sender during construction
type SenderOption func(*Sender) error

// WithProgressCallback reports per-chunk progress during Send.
func WithProgressCallback(cb ProgressCallback) SenderOption {
	return func(s *Sender) error {
		s.progress = cb
		return nil
	}
}

// WithHandshakeTimeout bounds how long the sender waits for each
// handshake character. Default is 10 seconds.
func WithHandshakeTimeout(d time.Duration) SenderOption {
	return func(s *Sender) error {
		if d <= 0 {
			return fmt.Errorf("invalid handshake timeout %v", d)
		}
		s.handshakeTimeout = d
		return nil
	}
}

// NewSender creates a host-side sender for the given configuration.
func NewSender(transport Transport, config RadioConfig, opts ...SenderOption) (*Sender, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Sender{
		transport:        transport,
		config:           config,
		handshakeTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Send performs one complete transfer: sentinel run, configuration
// record, then data chunks of at most MaxChunkSize, finishing with the
// zero-length terminator. Each unit is flow controlled by the firmware's
// handshake character.
func (s *Sender) Send(ctx context.Context, data []byte) error {
	if err := s.synchronize(ctx); err != nil {
		return err
	}
	if err := s.sendConfig(ctx); err != nil {
		return err
	}
	return s.sendChunks(ctx, data)
}

// synchronize emits the sentinel run that aligns the firmware's receive
// buffer, then waits for the firmware to confirm.
func (s *Sender) synchronize(ctx context.Context) error {
	run := make([]byte, SyncRunLength)
	for i := range run {
		run[i] = SyncByte
	}
	if err := s.transport.WriteBytes(run); err != nil {
		return fmt.Errorf("sentinel run write: %w", err)
	}
	return s.awaitHandshake(ctx)
}

// sendConfig writes the fixed configuration record one field at a time,
// waiting for the firmware to latch each field.
func (s *Sender) sendConfig(ctx context.Context) error {
	if err := s.transport.WriteBytes([]byte{s.config.Channel}); err != nil {
		return fmt.Errorf("channel write: %w", err)
	}
	if err := s.awaitHandshake(ctx); err != nil {
		return err
	}

	addr := s.config.AddressBytes()
	if err := s.transport.WriteBytes(addr[:]); err != nil {
		return fmt.Errorf("address write: %w", err)
	}
	if err := s.awaitHandshake(ctx); err != nil {
		return err
	}

	if err := s.transport.WriteBytes(s.config.Extension[:]); err != nil {
		return fmt.Errorf("extension write: %w", err)
	}
	return s.awaitHandshake(ctx)
}

// sendChunks streams the payload in length-prefixed chunks and closes the
// transfer with the zero-length terminator. No handshake follows the
// terminator.
func (s *Sender) sendChunks(ctx context.Context, data []byte) error {
	for sent := 0; sent < len(data); {
		n := len(data) - sent
		if n > MaxChunkSize {
			n = MaxChunkSize
		}

		framed := make([]byte, 0, 1+n)
		framed = append(framed, byte(n))
		framed = append(framed, data[sent:sent+n]...)
		if err := s.transport.WriteBytes(framed); err != nil {
			return fmt.Errorf("chunk write: %w", err)
		}
		if err := s.awaitHandshake(ctx); err != nil {
			return err
		}

		sent += n
		if s.progress != nil {
			s.progress(sent, len(data))
		}
	}

	if err := s.transport.WriteBytes([]byte{0}); err != nil {
		return fmt.Errorf("terminator write: %w", err)
	}
	return nil
}

// awaitHandshake blocks until the firmware's handshake character shows
// up. Any other bytes ahead of it (debug echo, stale output) are skipped.
func (s *Sender) awaitHandshake(ctx context.Context) error {
	deadline, cancel := context.WithTimeout(ctx, s.handshakeTimeout)
	defer cancel()

	for {
		b, err := s.transport.ReadBytes(deadline, 1)
		if err != nil {
			return fmt.Errorf("handshake wait: %w", err)
		}
		if b[0] == HandshakeByte {
			return nil
		}
	}
}
