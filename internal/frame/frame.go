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

// Package frame packs and unpacks the ShockBurst-style air frame layout
// into a uint64. The encoding is explicit shift-and-mask, not overlapping
// storage, so it is portable across endianness and testable in isolation.
//
// Bit layout, LSB first:
//
//	[0,8)   preamble
//	[8,32)  address (24 bits)
//	[32,38) payload length (6 bits)
//	[38,40) packet ID (2 bits)
//	[40,41) no-ack flag
//	[41,57) two payload bytes
//	[57,64) padding, always zero
package frame

import "fmt"

// Field widths and offsets of the packed frame.
const (
	preambleShift = 0
	addressShift  = 8
	lengthShift   = 32
	pidShift      = 38
	noAckShift    = 40
	payload0Shift = 41
	payload1Shift = 49

	addressMask = 0xFFFFFF // 24 bits
	lengthMask  = 0x3F     // 6 bits
	pidMask     = 0x03     // 2 bits
)

// MaxPayloadLen is the largest value the 6-bit length field can carry.
const MaxPayloadLen = lengthMask

// MaxAddress is the largest address the 24-bit field can carry.
const MaxAddress = addressMask

// DefaultPreamble is the alternating-bit preamble the radio expects ahead
// of an address starting with a zero bit.
const DefaultPreamble = 0xAA

// Frame is the unpacked view of one air frame header plus the first two
// payload bytes.
type Frame struct {
	Preamble byte
	Address  uint32 // 24 bits used
	Length   byte   // 6 bits used
	PacketID byte   // 2 bits used
	NoAck    bool
	Payload  [2]byte
}

// Pack encodes the frame into its 64-bit wire representation.
func Pack(f Frame) (uint64, error) {
	if f.Address > MaxAddress {
		return 0, fmt.Errorf("address 0x%X exceeds 24 bits", f.Address)
	}
	if f.Length > MaxPayloadLen {
		return 0, fmt.Errorf("payload length %d exceeds 6 bits", f.Length)
	}
	if f.PacketID > pidMask {
		return 0, fmt.Errorf("packet ID %d exceeds 2 bits", f.PacketID)
	}

	v := uint64(f.Preamble) << preambleShift
	v |= uint64(f.Address) << addressShift
	v |= uint64(f.Length) << lengthShift
	v |= uint64(f.PacketID) << pidShift
	if f.NoAck {
		v |= 1 << noAckShift
	}
	v |= uint64(f.Payload[0]) << payload0Shift
	v |= uint64(f.Payload[1]) << payload1Shift
	return v, nil
}

// Unpack decodes the 64-bit wire representation into its named fields.
// Padding bits are ignored.
func Unpack(v uint64) Frame {
	return Frame{
		Preamble: byte(v >> preambleShift),
		Address:  uint32(v>>addressShift) & addressMask,
		Length:   byte(v>>lengthShift) & lengthMask,
		PacketID: byte(v>>pidShift) & pidMask,
		NoAck:    v>>noAckShift&1 == 1,
		Payload:  [2]byte{byte(v >> payload0Shift), byte(v >> payload1Shift)},
	}
}

// Preview builds the packed header for a payload about to be handed to
// the radio, for diagnostics. Only the first two payload bytes fit the
// packed form.
func Preview(address uint32, pid byte, payload []byte) (uint64, error) {
	f := Frame{
		Preamble: DefaultPreamble,
		Address:  address & addressMask,
		PacketID: pid & pidMask,
	}
	n := len(payload)
	if n > MaxPayloadLen {
		n = MaxPayloadLen
	}
	f.Length = byte(n)
	copy(f.Payload[:], payload)
	return Pack(f)
}
