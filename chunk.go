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

// FileChunk holds the most recently decoded file chunk. The buffer is
// fixed capacity and overwritten in place by each decode; the relay step
// reads it and marks it consumed before the next chunk arrives.
//
// The declared length can never exceed the buffer capacity: frames that
// claim more are rejected before any byte is written (see Session).
type FileChunk struct {
	buf [MaxChunkSize]byte
	n   int
}

// Len returns the payload length of the held chunk, 0 if empty.
func (c *FileChunk) Len() int {
	return c.n
}

// Bytes returns the chunk payload. The slice aliases the internal buffer
// and is only valid until the next decode or Empty call.
func (c *FileChunk) Bytes() []byte {
	return c.buf[:c.n]
}

// Empty marks the chunk consumed. The buffer contents are not cleared;
// the length alone decides whether the chunk is live.
func (c *FileChunk) Empty() {
	c.n = 0
}

// set overwrites the chunk with p. Callers have already bounds-checked p
// against the capacity.
func (c *FileChunk) set(p []byte) {
	c.n = copy(c.buf[:], p)
}
