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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBytesLittleEndian(t *testing.T) {
	t.Parallel()

	cfg := RadioConfig{Address: 0x12345678}
	assert.Equal(t, [AddressSize]byte{0x78, 0x56, 0x34, 0x12}, cfg.AddressBytes())
}

func TestSetExtensionPadsWithSpaces(t *testing.T) {
	t.Parallel()

	var cfg RadioConfig
	require.NoError(t, cfg.SetExtension("txt"))
	assert.Equal(t, []byte("txt       "), cfg.Extension[:])
	assert.Equal(t, "txt", cfg.ExtensionString())
}

func TestSetExtensionTooLong(t *testing.T) {
	t.Parallel()

	var cfg RadioConfig
	require.Error(t, cfg.SetExtension("presentation"))
}

func TestExtensionStringHandlesNulPadding(t *testing.T) {
	t.Parallel()

	// The wire field is fixed width, not null-terminated; senders that
	// zero-pad instead of space-pad still decode cleanly.
	var cfg RadioConfig
	copy(cfg.Extension[:], "bin")
	assert.Equal(t, "bin", cfg.ExtensionString())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := RadioConfig{Channel: MaxChannel}
	require.NoError(t, valid.Validate())

	invalid := RadioConfig{Channel: MaxChannel + 1}
	err := invalid.Validate()
	require.ErrorIs(t, err, ErrChannelRange)
}
