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
	"encoding/binary"
	"fmt"
	"strings"
)

// RadioConfig is the validated configuration record decoded during the
// configuration phase: radio channel, radio address and the extension of
// the file about to be transferred. Immutable once latched by the session.
type RadioConfig struct {
	Channel   uint8
	Address   uint32
	Extension [ExtensionSize]byte
}

// AddressBytes returns the address as the 4 raw little-endian bytes that
// travelled on the wire.
func (c *RadioConfig) AddressBytes() [AddressSize]byte {
	var b [AddressSize]byte
	binary.LittleEndian.PutUint32(b[:], c.Address)
	return b
}

// ExtensionString returns the extension with the space padding stripped.
func (c *RadioConfig) ExtensionString() string {
	return strings.TrimRight(strings.TrimRight(string(c.Extension[:]), "\x00"), " ")
}

// SetExtension stores ext space padded to the fixed field width.
func (c *RadioConfig) SetExtension(ext string) error {
	if len(ext) > ExtensionSize {
		return fmt.Errorf("extension %q longer than %d bytes", ext, ExtensionSize)
	}
	copy(c.Extension[:], ext)
	for i := len(ext); i < ExtensionSize; i++ {
		c.Extension[i] = ' '
	}
	return nil
}

// Validate checks the record against the radio's limits.
func (c *RadioConfig) Validate() error {
	if c.Channel > MaxChannel {
		return fmt.Errorf("%w: %d > %d", ErrChannelRange, c.Channel, MaxChannel)
	}
	return nil
}
