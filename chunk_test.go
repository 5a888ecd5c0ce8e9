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
)

func TestFileChunkBytesAliasesBuffer(t *testing.T) {
	t.Parallel()

	var chunk FileChunk
	chunk.set([]byte("abc"))

	view := chunk.Bytes()
	assert.Equal(t, []byte("abc"), view)

	// Bytes is a window into the session buffer, not a copy. The next
	// decode overwrites it.
	chunk.set([]byte("xyz"))
	assert.Equal(t, []byte("xyz"), view)
}

func TestFileChunkEmpty(t *testing.T) {
	t.Parallel()

	var chunk FileChunk
	chunk.set([]byte("data"))
	assert.Equal(t, 4, chunk.Len())

	chunk.Empty()
	assert.Equal(t, 0, chunk.Len())
	assert.Empty(t, chunk.Bytes())
}

func TestFileChunkSetTruncatesAtCapacity(t *testing.T) {
	t.Parallel()

	var chunk FileChunk
	big := make([]byte, MaxChunkSize+10)
	chunk.set(big)
	assert.Equal(t, MaxChunkSize, chunk.Len())
}
