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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRadioMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		link      LinkState
		direction Direction
		want      RadioMode
	}{
		{"configuring upload", LinkConfiguring, DirectionUpload, ModeReceive},
		{"configuring download", LinkConfiguring, DirectionDownload, ModeReceive},
		{"ready upload", LinkReady, DirectionUpload, ModeTransmit},
		{"ready download", LinkReady, DirectionDownload, ModeReceive},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ResolveRadioMode(tt.link, tt.direction))
		})
	}
}

func TestExpectedRadioModeTracksPhase(t *testing.T) {
	t.Parallel()
	session, mock := newTestSession(t)

	// Never blocks, callable in any state
	assert.Equal(t, ModeReceive, session.ExpectedRadioMode())

	configureSession(t, session, mock)
	assert.Equal(t, ModeTransmit, session.ExpectedRadioMode())
}

func TestExpectedRadioModeDownloadRole(t *testing.T) {
	t.Parallel()
	session, mock := newTestSession(t, WithDirection(DirectionDownload))

	assert.Equal(t, ModeReceive, session.ExpectedRadioMode())

	configureSession(t, session, mock)
	assert.Equal(t, ModeReceive, session.ExpectedRadioMode())
}

func TestWithDirectionValidation(t *testing.T) {
	t.Parallel()

	_, err := NewSession(NewMockTransport(), WithDirection(Direction(42)))
	require.Error(t, err)
}

func TestStateStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "configuring", LinkConfiguring.String())
	assert.Equal(t, "ready", LinkReady.String())
	assert.Equal(t, "flushing", SyncFlushing.String())
	assert.Equal(t, "synchronized", SyncSynchronized.String())
	assert.Equal(t, "upload", DirectionUpload.String())
	assert.Equal(t, "download", DirectionDownload.String())
	assert.Equal(t, "receive", ModeReceive.String())
	assert.Equal(t, "transmit", ModeTransmit.String())
}

func TestModeQueryDoesNotConsumeBytes(t *testing.T) {
	t.Parallel()
	session, mock := newTestSession(t)
	mock.Feed(sentinelRun()...)

	for i := 0; i < 10; i++ {
		_ = session.ExpectedRadioMode()
	}
	assert.Equal(t, SyncRunLength, mock.Pending())

	require.NoError(t, session.Synchronize(context.Background()))
}
