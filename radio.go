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
)

// RadioDevice is the register-level radio peripheral the bridge drives.
// Channel tuning, address-pipe setup and the RF-layer packet handling
// (ShockBurst framing, CRC, auto-retransmit) are all the device's
// concern; the bridge only hands it validated values and payloads.
type RadioDevice interface {
	// SetChannel tunes the radio. The bridge only passes values already
	// validated against MaxChannel.
	SetChannel(channel uint8) error

	// SetAddress configures the transmit and receive address pipes.
	SetAddress(address uint32) error

	// SetMode switches the radio between primary receiver and primary
	// transmitter.
	SetMode(mode RadioMode) error

	// Transmit sends a payload over the air. Payloads larger than the
	// radio FIFO are the device's problem to split.
	Transmit(payload []byte) error

	// Receive blocks for the next payload from the air, honoring ctx.
	Receive(ctx context.Context) ([]byte, error)

	// Close powers the radio down and releases the bus.
	Close() error
}

// ModeSignal is the platform mechanism that switches the physical
// radio-control chip between its command and data UART modes via the
// in-band command character. The bridge only triggers and clears it;
// the interrupt wiring itself lives outside the core.
type ModeSignal interface {
	Trigger() error
	Clear() error
}

// NopSignal is a ModeSignal for platforms without the in-band command
// interrupt (development hosts, tests).
type NopSignal struct{}

// Trigger implements ModeSignal
func (NopSignal) Trigger() error { return nil }

// Clear implements ModeSignal
func (NopSignal) Clear() error { return nil }

// CommandSignal is a ModeSignal for radio-control chips that take the
// in-band command character over a dedicated control link. The same
// character toggles the chip in and out of data mode.
type CommandSignal struct {
	control Transport
}

// NewCommandSignal creates a signal over the given control link. The
// control link is separate from the session transport; the command
// character must never appear in the data stream.
func NewCommandSignal(control Transport) (*CommandSignal, error) {
	if control == nil {
		return nil, fmt.Errorf("nil control transport")
	}
	return &CommandSignal{control: control}, nil
}

// Trigger implements ModeSignal
func (s *CommandSignal) Trigger() error {
	if err := s.control.WriteBytes([]byte{ModeSwitchByte}); err != nil {
		return fmt.Errorf("mode switch write: %w", err)
	}
	return nil
}

// Clear implements ModeSignal
func (s *CommandSignal) Clear() error {
	return s.Trigger()
}
