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
	"errors"
	"fmt"
)

// Bridge supervises a session end to end: it drives the protocol phases,
// applies the decoded configuration to the radio, relays chunks, and
// recovers from desyncs inside a retry budget. Resynchronizations are
// logged but only treated as failure once the budget runs out with no
// forward progress.
type Bridge struct {
	session *Session
	radio   RadioDevice
	signal  ModeSignal
	resync  *ResyncConfig
}

// BridgeOption configures a Bridge during construction
type BridgeOption func(*Bridge) error

// WithModeSignal wires the platform's command/data UART mode switch.
// Defaults to NopSignal.
func WithModeSignal(signal ModeSignal) BridgeOption {
	return func(b *Bridge) error {
		if signal == nil {
			return errors.New("nil mode signal")
		}
		b.signal = signal
		return nil
	}
}

// WithResyncConfig replaces the default resynchronization budget.
func WithResyncConfig(config *ResyncConfig) BridgeOption {
	return func(b *Bridge) error {
		b.resync = config
		return nil
	}
}

// NewBridge creates a bridge over an already constructed session and
// radio device.
func NewBridge(session *Session, radio RadioDevice, opts ...BridgeOption) (*Bridge, error) {
	if session == nil {
		return nil, errors.New("nil session")
	}
	if radio == nil {
		return nil, errors.New("nil radio device")
	}

	b := &Bridge{
		session: session,
		radio:   radio,
		signal:  NopSignal{},
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Session returns the underlying protocol session.
func (b *Bridge) Session() *Session { return b.session }

// Run executes one full bridge session: synchronize, decode and apply
// the configuration, then relay file chunks until the terminator (upload)
// or until ctx is cancelled (download). Transport failures end the run;
// everything protocol-level is recovered in place.
func (b *Bridge) Run(ctx context.Context) error {
	budget := newResyncBudget(b.resync)

	if err := b.session.Synchronize(ctx); err != nil {
		return err
	}

	cfg, err := b.configure(ctx, budget)
	if err != nil {
		return err
	}

	if err := b.radio.SetChannel(cfg.Channel); err != nil {
		return fmt.Errorf("apply channel: %w", err)
	}
	if err := b.radio.SetAddress(cfg.Address); err != nil {
		return fmt.Errorf("apply address: %w", err)
	}

	// Switch the radio-control chip into data mode for the transfer.
	if err := b.signal.Trigger(); err != nil {
		return fmt.Errorf("mode switch trigger: %w", err)
	}
	defer func() { _ = b.signal.Clear() }()

	if err := b.radio.SetMode(b.session.ExpectedRadioMode()); err != nil {
		return fmt.Errorf("apply radio mode: %w", err)
	}

	if b.session.Direction() == DirectionDownload {
		return b.relayDownload(ctx)
	}
	return b.relayUpload(ctx, budget)
}

// configure decodes the configuration record, resynchronizing on protocol
// violations until the budget is spent.
func (b *Bridge) configure(ctx context.Context, budget *resyncBudget) (RadioConfig, error) {
	for {
		cfg, err := b.session.ReadConfig(ctx)
		if err == nil {
			budget.progress()
			return cfg, nil
		}
		if !IsDesync(err) {
			return RadioConfig{}, err
		}

		debugf("config phase desync: %v", err)
		if budgetErr := budget.spend(ctx, err); budgetErr != nil {
			return RadioConfig{}, budgetErr
		}
		if resyncErr := b.session.Resynchronize(ctx); resyncErr != nil {
			return RadioConfig{}, resyncErr
		}
	}
}

// relayUpload moves chunks from the host to the radio until the
// terminator chunk arrives.
func (b *Bridge) relayUpload(ctx context.Context, budget *resyncBudget) error {
	for {
		chunk, err := b.session.NextChunk(ctx)
		switch {
		case errors.Is(err, ErrEndOfTransfer):
			return nil
		case IsDesync(err):
			debugf("chunk phase desync: %v", err)
			if budgetErr := budget.spend(ctx, err); budgetErr != nil {
				return budgetErr
			}
			if resyncErr := b.session.Resynchronize(ctx); resyncErr != nil {
				return resyncErr
			}
			continue
		case err != nil:
			return err
		}

		if err := b.radio.Transmit(chunk.Bytes()); err != nil {
			return fmt.Errorf("relay chunk: %w", err)
		}
		chunk.Empty()
		budget.progress()
	}
}

// relayDownload moves radio payloads back to the host as length-prefixed
// chunks until ctx is cancelled.
func (b *Bridge) relayDownload(ctx context.Context) error {
	for {
		payload, err := b.radio.Receive(ctx)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case errors.Is(err, ErrRadioNoPayload):
			continue
		case err != nil:
			return fmt.Errorf("radio receive: %w", err)
		}
		if len(payload) == 0 || len(payload) > MaxChunkSize {
			continue
		}

		framed := make([]byte, 0, 1+len(payload))
		framed = append(framed, byte(len(payload)))
		framed = append(framed, payload...)
		if err := b.session.transport.WriteBytes(framed); err != nil {
			return fmt.Errorf("relay payload: %w", err)
		}
	}
}
