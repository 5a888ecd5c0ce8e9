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
	"fmt"
	"time"
)

// ResyncConfig bounds how hard the bridge tries to recover from repeated
// desyncs before giving up on the session. A single desync is routine;
// a run of them with no forward progress means the link is hopeless.
type ResyncConfig struct {
	// MaxAttempts is the number of consecutive resynchronizations allowed
	// without decoding progress in between (0 = unlimited)
	MaxAttempts int
	// InitialBackoff is the pause before the first retry
	InitialBackoff time.Duration
	// MaxBackoff caps the growing pause between retries
	MaxBackoff time.Duration
	// BackoffMultiplier is the factor by which the backoff increases
	BackoffMultiplier float64
}

// DefaultResyncConfig returns the resynchronization budget used when the
// caller does not supply one.
func DefaultResyncConfig() *ResyncConfig {
	return &ResyncConfig{
		MaxAttempts:       8,
		InitialBackoff:    5 * time.Millisecond,
		MaxBackoff:        250 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

// resyncBudget tracks consecutive recoveries against a ResyncConfig.
type resyncBudget struct {
	config   *ResyncConfig
	attempts int
	backoff  time.Duration
}

func newResyncBudget(config *ResyncConfig) *resyncBudget {
	if config == nil {
		config = DefaultResyncConfig()
	}
	return &resyncBudget{config: config, backoff: config.InitialBackoff}
}

// spend records one recovery attempt, sleeping the current backoff.
// It fails once the consecutive-attempt budget is exhausted.
func (b *resyncBudget) spend(ctx context.Context, cause error) error {
	b.attempts++
	if b.config.MaxAttempts > 0 && b.attempts > b.config.MaxAttempts {
		return fmt.Errorf("no forward progress after %d resynchronizations: %w",
			b.config.MaxAttempts, cause)
	}

	select {
	case <-time.After(b.backoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	b.backoff = time.Duration(float64(b.backoff) * b.config.BackoffMultiplier)
	if b.backoff > b.config.MaxBackoff {
		b.backoff = b.config.MaxBackoff
	}
	return nil
}

// progress resets the budget after a successfully decoded unit.
func (b *resyncBudget) progress() {
	b.attempts = 0
	b.backoff = b.config.InitialBackoff
}
