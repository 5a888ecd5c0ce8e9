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

// LinkState signifies whether the session is currently being configured or
// has been configured and is ready to move file chunks.
type LinkState int

const (
	// LinkConfiguring is the boot state; incoming bytes are interpreted as
	// configuration fields.
	LinkConfiguring LinkState = iota
	// LinkReady is entered exactly once, after the configuration record
	// decodes successfully. It never reverts for the session lifetime.
	LinkReady
)

func (s LinkState) String() string {
	switch s {
	case LinkConfiguring:
		return "configuring"
	case LinkReady:
		return "ready"
	default:
		return "unknown"
	}
}

// SyncState signifies whether the receive stream is currently trusted.
type SyncState int

const (
	// SyncFlushing means bytes are being discarded until the sentinel run
	// confirms alignment. This is the boot state and the state after any
	// detected desync.
	SyncFlushing SyncState = iota
	// SyncSynchronized means the sentinel run has been observed and
	// downstream decoders may parse the stream.
	SyncSynchronized
)

func (s SyncState) String() string {
	switch s {
	case SyncFlushing:
		return "flushing"
	case SyncSynchronized:
		return "synchronized"
	default:
		return "unknown"
	}
}

// Direction is the transfer role of this end of the bridge. The wire
// format carries no direction field; the role is fixed per session by the
// caller that constructs it.
type Direction int

const (
	// DirectionUpload relays chunks from the host out over the radio.
	DirectionUpload Direction = iota
	// DirectionDownload relays radio payloads back to the host.
	DirectionDownload
)

func (d Direction) String() string {
	switch d {
	case DirectionUpload:
		return "upload"
	case DirectionDownload:
		return "download"
	default:
		return "unknown"
	}
}

// RadioMode is the operating mode the radio should currently be in.
type RadioMode int

const (
	// ModeReceive configures the radio as a primary receiver.
	ModeReceive RadioMode = iota
	// ModeTransmit configures the radio as a primary transmitter.
	ModeTransmit
)

func (m RadioMode) String() string {
	switch m {
	case ModeReceive:
		return "receive"
	case ModeTransmit:
		return "transmit"
	default:
		return "unknown"
	}
}

// ResolveRadioMode answers which mode the radio should be in for the given
// protocol phase and transfer direction. While configuration is still in
// progress the radio idles in receive; once the link is ready the mode
// follows the session's role. Pure function, safe to call at any time.
func ResolveRadioMode(link LinkState, direction Direction) RadioMode {
	if link != LinkReady {
		return ModeReceive
	}
	if direction == DirectionUpload {
		return ModeTransmit
	}
	return ModeReceive
}
