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

func TestCommandSignalWritesCommandCharacter(t *testing.T) {
	t.Parallel()

	control := NewMockTransport()
	signal, err := NewCommandSignal(control)
	require.NoError(t, err)

	require.NoError(t, signal.Trigger())
	require.NoError(t, signal.Clear())

	// The same in-band character toggles the chip both ways
	assert.Equal(t, []byte{ModeSwitchByte, ModeSwitchByte}, control.Written())
}

func TestCommandSignalPropagatesWriteError(t *testing.T) {
	t.Parallel()

	control := NewMockTransport()
	require.NoError(t, control.Close())

	signal, err := NewCommandSignal(control)
	require.NoError(t, err)

	assert.ErrorIs(t, signal.Trigger(), ErrTransportClosed)
}

func TestNewCommandSignalNilTransport(t *testing.T) {
	t.Parallel()

	_, err := NewCommandSignal(nil)
	require.Error(t, err)
}

func TestNopSignal(t *testing.T) {
	t.Parallel()

	var signal NopSignal
	assert.NoError(t, signal.Trigger())
	assert.NoError(t, signal.Clear())
}
