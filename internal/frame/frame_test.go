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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	frames := []Frame{
		{},
		{Preamble: DefaultPreamble, Address: 0xE7E7E7 & MaxAddress, Length: 2, PacketID: 1, Payload: [2]byte{'h', 'i'}},
		{Preamble: 0x55, Address: MaxAddress, Length: MaxPayloadLen, PacketID: 3, NoAck: true, Payload: [2]byte{0xFF, 0xFF}},
		{Address: 1, Length: 1, Payload: [2]byte{0x80, 0}},
	}

	for _, f := range frames {
		packed, err := Pack(f)
		require.NoError(t, err)
		assert.Equal(t, f, Unpack(packed))
	}
}

func TestPackFieldPlacement(t *testing.T) {
	t.Parallel()

	// Each field lands in its own bit range and nowhere else
	cases := []struct {
		name  string
		frame Frame
		want  uint64
	}{
		{"preamble", Frame{Preamble: 0xAA}, 0xAA},
		{"address", Frame{Address: 0xABCDEF}, 0xABCDEF << 8},
		{"length", Frame{Length: 0x3F}, 0x3F << 32},
		{"pid", Frame{PacketID: 3}, 3 << 38},
		{"noack", Frame{NoAck: true}, 1 << 40},
		{"payload0", Frame{Payload: [2]byte{0xFF, 0}}, 0xFF << 41},
		{"payload1", Frame{Payload: [2]byte{0, 0xFF}}, 0xFF << 49},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			packed, err := Pack(tc.frame)
			require.NoError(t, err)
			assert.Equal(t, tc.want, packed)
		})
	}
}

func TestPackRejectsOversizedFields(t *testing.T) {
	t.Parallel()

	_, err := Pack(Frame{Address: MaxAddress + 1})
	require.Error(t, err)

	_, err = Pack(Frame{Length: MaxPayloadLen + 1})
	require.Error(t, err)

	_, err = Pack(Frame{PacketID: 4})
	require.Error(t, err)
}

func TestUnpackIgnoresPadding(t *testing.T) {
	t.Parallel()

	packed, err := Pack(Frame{Preamble: DefaultPreamble, Address: 1, Length: 1})
	require.NoError(t, err)

	dirty := packed | uint64(0x7F)<<57
	assert.Equal(t, Unpack(packed), Unpack(dirty))
}

func TestPreviewTruncates(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 200)
	payload[0] = 'a'
	payload[1] = 'b'

	packed, err := Preview(0x123456, 2, payload)
	require.NoError(t, err)

	f := Unpack(packed)
	assert.Equal(t, byte(DefaultPreamble), f.Preamble)
	assert.Equal(t, uint32(0x123456), f.Address)
	assert.Equal(t, byte(MaxPayloadLen), f.Length)
	assert.Equal(t, byte(2), f.PacketID)
	assert.Equal(t, [2]byte{'a', 'b'}, f.Payload)
}

func TestPreviewMasksWideInputs(t *testing.T) {
	t.Parallel()

	packed, err := Preview(0xFF123456, 0xFF, []byte{'x'})
	require.NoError(t, err)

	f := Unpack(packed)
	assert.Equal(t, uint32(0x123456), f.Address)
	assert.Equal(t, byte(3), f.PacketID)
	assert.Equal(t, byte(1), f.Length)
}
