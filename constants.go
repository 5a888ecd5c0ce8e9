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

// Package rfbridge implements the serial bridge protocol that relays files
// from a host computer, over a byte-oriented serial link, to a wireless
// radio transceiver. The protocol runs in strictly sequential phases:
// stream synchronization, a fixed-layout configuration record, then a
// series of length-prefixed file chunks.
package rfbridge

// Wire protocol constants. Multi-byte integers on the wire are
// little-endian.
const (
	// SyncByte is the sentinel value the synchronizer looks for. The link
	// is only trusted after SyncRunLength consecutive occurrences.
	SyncByte = 0x09

	// SyncRunLength is the number of consecutive SyncByte values required
	// before the receive buffer is considered aligned. Requiring a run,
	// rather than a single byte, keeps arbitrary payload bytes from being
	// mistaken for the marker.
	SyncRunLength = 5

	// HandshakeByte is the reserved character written to the host after
	// each protocol phase completes. The host waits for it before sending
	// the next unit.
	HandshakeByte = '\t'

	// ModeSwitchByte is the in-band command character that switches the
	// radio-control chip between its command and data UART modes. The
	// bridge only triggers and clears this signal; the platform owns the
	// interrupt wiring.
	ModeSwitchByte = '~'
)

// Field sizes of the configuration record and the chunk framing.
const (
	// ChannelSize is the width of the radio channel field.
	ChannelSize = 1

	// AddressSize is the width of the radio address field.
	AddressSize = 4

	// ExtensionSize is the fixed width of the file extension field. Unused
	// trailing positions are space padded, not null terminated.
	ExtensionSize = 10

	// ChunkSizeBytes is the width of the chunk length prefix.
	ChunkSizeBytes = 1

	// MaxChunkSize is the largest payload a single chunk may carry. It is
	// a multiple of the radio's 32-byte FIFO and fits the serial receive
	// buffer. A length prefix above this value is a protocol error.
	MaxChunkSize = 224
)

// MaxChannel is the highest valid radio channel. The transceiver operates
// on channels 0-124 within the 2.4 GHz band.
const MaxChannel = 124

// DefaultBaudRate is the serial link speed both sides are expected to use.
const DefaultBaudRate = 115200
