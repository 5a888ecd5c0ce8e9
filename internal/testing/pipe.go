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

// Package testing provides in-memory test doubles for the bridge
// protocol, most notably a duplex pipe transport that lets a host-side
// Sender and a firmware-side Session talk to each other inside one test.
package testing

import (
	"context"
	"sync"
	"time"

	rfbridge "github.com/rfbridge-project/go-rfbridge"
)

const pipeBufferSize = 4096

// PipeTransport is one end of an in-memory duplex byte link.
type PipeTransport struct {
	in     chan byte
	out    chan byte
	done   chan struct{}
	closer *sync.Once
}

// NewPipe creates a connected transport pair. Bytes written to one end
// are read from the other, byte by byte, like a serial wire. Closing
// either end severs the link for both.
func NewPipe() (*PipeTransport, *PipeTransport) {
	ab := make(chan byte, pipeBufferSize)
	ba := make(chan byte, pipeBufferSize)
	done := make(chan struct{})
	closer := &sync.Once{}

	a := &PipeTransport{in: ba, out: ab, done: done, closer: closer}
	b := &PipeTransport{in: ab, out: ba, done: done, closer: closer}
	return a, b
}

// ReadBytes implements rfbridge.Transport
func (p *PipeTransport) ReadBytes(ctx context.Context, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		select {
		case b := <-p.in:
			out = append(out, b)
		case <-p.done:
			// Drain what the peer wrote before closing
			select {
			case b := <-p.in:
				out = append(out, b)
			default:
				return nil, &rfbridge.TransportError{
					Op: "ReadBytes", Port: "pipe",
					Err:  rfbridge.ErrTransportClosed,
					Type: rfbridge.ErrorTypePermanent,
				}
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}

// WriteBytes implements rfbridge.Transport
func (p *PipeTransport) WriteBytes(buf []byte) error {
	for _, b := range buf {
		select {
		case p.out <- b:
		case <-p.done:
			return &rfbridge.TransportError{
				Op: "WriteBytes", Port: "pipe",
				Err:  rfbridge.ErrTransportClosed,
				Type: rfbridge.ErrorTypePermanent,
			}
		}
	}
	return nil
}

// Close implements rfbridge.Transport
func (p *PipeTransport) Close() error {
	p.closer.Do(func() { close(p.done) })
	return nil
}

// SetTimeout implements rfbridge.Transport. The pipe has no hardware
// timeout; callers bound reads with contexts instead.
func (*PipeTransport) SetTimeout(_ time.Duration) error { return nil }

// Type implements rfbridge.Transport
func (*PipeTransport) Type() rfbridge.TransportType { return rfbridge.TransportPipe }

// Ensure PipeTransport implements rfbridge.Transport
var _ rfbridge.Transport = (*PipeTransport)(nil)
