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
	"encoding/binary"
	"fmt"
)

// Session is the serial bridge state machine. It owns the link and sync
// states, the latched radio configuration and the chunk buffer, and runs
// the protocol phases in order: synchronize, decode the configuration
// record, then decode chunks until the terminator.
//
// Thread Safety: Session is NOT thread-safe. All methods must be called
// from the single goroutine that drives the protocol loop. The shared
// buffers and state enums assume single-writer access throughout.
type Session struct {
	transport Transport
	cfg       RadioConfig
	chunk     FileChunk
	link      LinkState
	sync      SyncState
	direction Direction
}

// SessionOption configures a Session during construction
type SessionOption func(*Session) error

// WithDirection sets the transfer role of this end of the bridge. The
// default is DirectionUpload (host file relayed out over the radio).
func WithDirection(d Direction) SessionOption {
	return func(s *Session) error {
		if d != DirectionUpload && d != DirectionDownload {
			return fmt.Errorf("invalid direction %d", d)
		}
		s.direction = d
		return nil
	}
}

// NewSession creates a session over the given transport. The session
// boots in LinkConfiguring/SyncFlushing: nothing is trusted until
// Synchronize has observed the sentinel run.
func NewSession(transport Transport, opts ...SessionOption) (*Session, error) {
	s := &Session{
		transport: transport,
		link:      LinkConfiguring,
		sync:      SyncFlushing,
		direction: DirectionUpload,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// LinkState returns the current protocol phase.
func (s *Session) LinkState() LinkState { return s.link }

// SyncState returns whether the receive stream is currently trusted.
func (s *Session) SyncState() SyncState { return s.sync }

// Direction returns the transfer role fixed at construction.
func (s *Session) Direction() Direction { return s.direction }

// Config returns the latched configuration record. Only meaningful once
// LinkState is LinkReady.
func (s *Session) Config() RadioConfig { return s.cfg }

// Chunk returns the buffer holding the most recently decoded chunk.
func (s *Session) Chunk() *FileChunk { return &s.chunk }

// ExpectedRadioMode answers which mode the radio should currently be in.
// Pure query, never blocks.
func (s *Session) ExpectedRadioMode() RadioMode {
	return ResolveRadioMode(s.link, s.direction)
}

// Handshake writes the reserved phase-completion character to the host.
// It performs no read: the host is expected to wait for the character,
// but the firmware never verifies that it did. If the host races ahead,
// a downstream decoder detects the malformed framing and forces
// resynchronization instead.
func (s *Session) Handshake() error {
	if err := s.transport.WriteBytes([]byte{HandshakeByte}); err != nil {
		return fmt.Errorf("handshake write: %w", err)
	}
	return nil
}

// Synchronize consumes one byte at a time until SyncRunLength consecutive
// sentinel bytes have been observed, then marks the stream synchronized,
// emits a handshake and stops consuming. Any non-sentinel byte resets the
// run counter. Byte SyncRunLength+1 onward is never re-scanned: it
// belongs to the configuration phase.
func (s *Session) Synchronize(ctx context.Context) error {
	if s.sync == SyncSynchronized {
		return nil
	}

	run := 0
	for run < SyncRunLength {
		b, err := s.readByte(ctx, "synchronize")
		if err != nil {
			return err
		}
		if b == SyncByte {
			run++
		} else {
			run = 0
		}
	}

	s.sync = SyncSynchronized
	debugln("stream synchronized")
	return s.Handshake()
}

// Resynchronize is the recovery procedure after a protocol violation: it
// discards trust in the stream and re-runs the synchronizer. Safe to call
// in any state; the configuration already latched is not touched.
func (s *Session) Resynchronize(ctx context.Context) error {
	s.sync = SyncFlushing
	debugln("resynchronizing after desync")
	return s.Synchronize(ctx)
}

// ReadConfig decodes the fixed configuration record: 1 byte channel,
// 4 bytes little-endian address, then the fixed-width extension, emitting
// a handshake after each field is latched. On success the link becomes
// LinkReady; that transition happens at most once per session.
//
// An out-of-range channel is a protocol error, not a clamp: the session
// drops back to SyncFlushing and the caller must resynchronize.
func (s *Session) ReadConfig(ctx context.Context) (RadioConfig, error) {
	if s.link != LinkConfiguring {
		return RadioConfig{}, ErrAlreadyConfigured
	}
	if s.sync != SyncSynchronized {
		return RadioConfig{}, ErrNotSynced
	}

	field, err := s.transport.ReadBytes(ctx, ChannelSize)
	if err != nil {
		return RadioConfig{}, fmt.Errorf("config channel read: %w", err)
	}
	channel := field[0]
	if channel > MaxChannel {
		return RadioConfig{}, s.desync("config", channel, ErrChannelRange)
	}
	s.cfg.Channel = channel
	if err := s.Handshake(); err != nil {
		return RadioConfig{}, err
	}

	addr, err := s.transport.ReadBytes(ctx, AddressSize)
	if err != nil {
		return RadioConfig{}, fmt.Errorf("config address read: %w", err)
	}
	s.cfg.Address = binary.LittleEndian.Uint32(addr)
	if err := s.Handshake(); err != nil {
		return RadioConfig{}, err
	}

	ext, err := s.transport.ReadBytes(ctx, ExtensionSize)
	if err != nil {
		return RadioConfig{}, fmt.Errorf("config extension read: %w", err)
	}
	copy(s.cfg.Extension[:], ext)
	if err := s.Handshake(); err != nil {
		return RadioConfig{}, err
	}

	s.link = LinkReady
	debugf("configured: channel=%d address=0x%08X extension=%q",
		s.cfg.Channel, s.cfg.Address, s.cfg.ExtensionString())
	return s.cfg, nil
}

// NextChunk decodes the next length-prefixed file chunk into the session
// buffer and emits a handshake. A zero length prefix is the transfer
// terminator and returns ErrEndOfTransfer, always, on every call, with no
// handshake and no buffer write.
//
// A length prefix above MaxChunkSize is rejected before any buffer write:
// the chunk buffer is untouched, the session drops to SyncFlushing and a
// DesyncError is returned for the caller to recover from.
func (s *Session) NextChunk(ctx context.Context) (*FileChunk, error) {
	if s.link != LinkReady {
		return nil, ErrNotConfigured
	}
	if s.sync != SyncSynchronized {
		return nil, ErrNotSynced
	}

	prefix, err := s.transport.ReadBytes(ctx, ChunkSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("chunk length read: %w", err)
	}
	size := prefix[0]
	if size == 0 {
		debugln("zero-length chunk, transfer complete")
		return nil, ErrEndOfTransfer
	}
	if int(size) > MaxChunkSize {
		return nil, s.desync("chunk", size, ErrChunkTooLarge)
	}

	payload, err := s.transport.ReadBytes(ctx, int(size))
	if err != nil {
		return nil, fmt.Errorf("chunk payload read: %w", err)
	}
	s.chunk.set(payload)

	if err := s.Handshake(); err != nil {
		return nil, err
	}
	return &s.chunk, nil
}

// SoftReset clears the file-phase buffers (chunk and extension) for a new
// transfer over the same link. The radio configuration and the link and
// sync states are deliberately kept.
func (s *Session) SoftReset() {
	s.chunk.Empty()
	s.cfg.Extension = [ExtensionSize]byte{}
}

// desync drops trust in the stream and wraps the violation. Shared
// buffers are left exactly as they were before the offending field.
func (s *Session) desync(phase string, b byte, err error) error {
	s.sync = SyncFlushing
	return &DesyncError{Phase: phase, Byte: b, Err: err}
}

// readByte reads a single scan byte for the synchronizer, tagging
// transport failures with the phase they interrupted.
func (s *Session) readByte(ctx context.Context, phase string) (byte, error) {
	b, err := s.transport.ReadBytes(ctx, 1)
	if err != nil {
		return 0, fmt.Errorf("%s read: %w", phase, err)
	}
	return b[0], nil
}
