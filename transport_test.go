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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransportExactReads(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.Feed(1, 2, 3, 4, 5)
	ctx := context.Background()

	got, err := mock.ReadBytes(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got)
	assert.Equal(t, 3, mock.Pending())

	// Asking for more than the script holds is a timeout, never a
	// partial read
	_, err = mock.ReadBytes(ctx, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransportTimeout)
	assert.Equal(t, 3, mock.Pending())
}

func TestMockTransportCapturesWrites(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	require.NoError(t, mock.WriteBytes([]byte{'a', 'b'}))
	require.NoError(t, mock.WriteBytes([]byte{'c'}))
	assert.Equal(t, []byte("abc"), mock.Written())
}

func TestMockTransportClosed(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	require.NoError(t, mock.Close())

	_, err := mock.ReadBytes(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTransportClosed)
	assert.ErrorIs(t, mock.WriteBytes([]byte{0}), ErrTransportClosed)

	mock.Reset()
	require.NoError(t, mock.WriteBytes([]byte{0}))
}

func TestMockTransportReadErrorInjection(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.Feed(1)
	injected := NewTransportReadError("ReadBytes", "mock", assert.AnError)
	mock.SetReadError(injected)

	_, err := mock.ReadBytes(context.Background(), 1)
	require.ErrorIs(t, err, assert.AnError)

	mock.ClearReadError()
	got, err := mock.ReadBytes(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got)
}

func TestMockTransportHonorsContext(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.Feed(1)
	mock.SetDelay(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.ReadBytes(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
