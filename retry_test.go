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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResyncBudgetExhaustion(t *testing.T) {
	t.Parallel()

	budget := newResyncBudget(&ResyncConfig{
		MaxAttempts:       2,
		InitialBackoff:    time.Microsecond,
		MaxBackoff:        time.Microsecond,
		BackoffMultiplier: 1.0,
	})
	cause := errors.New("bad length prefix")
	ctx := context.Background()

	require.NoError(t, budget.spend(ctx, cause))
	require.NoError(t, budget.spend(ctx, cause))

	err := budget.spend(ctx, cause)
	require.Error(t, err)
	require.ErrorIs(t, err, cause)
}

func TestResyncBudgetProgressResets(t *testing.T) {
	t.Parallel()

	budget := newResyncBudget(&ResyncConfig{
		MaxAttempts:       1,
		InitialBackoff:    time.Microsecond,
		MaxBackoff:        time.Microsecond,
		BackoffMultiplier: 1.0,
	})
	cause := errors.New("bad length prefix")
	ctx := context.Background()

	// Each decoded unit buys a fresh attempt
	for i := 0; i < 5; i++ {
		require.NoError(t, budget.spend(ctx, cause))
		budget.progress()
	}
}

func TestResyncBudgetUnlimited(t *testing.T) {
	t.Parallel()

	budget := newResyncBudget(&ResyncConfig{
		MaxAttempts:       0,
		InitialBackoff:    time.Microsecond,
		MaxBackoff:        time.Microsecond,
		BackoffMultiplier: 1.0,
	})
	cause := errors.New("bad length prefix")
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, budget.spend(ctx, cause))
	}
}

func TestResyncBudgetBackoffGrowthIsCapped(t *testing.T) {
	t.Parallel()

	budget := newResyncBudget(&ResyncConfig{
		MaxAttempts:       0,
		InitialBackoff:    time.Microsecond,
		MaxBackoff:        4 * time.Microsecond,
		BackoffMultiplier: 2.0,
	})
	cause := errors.New("bad length prefix")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, budget.spend(ctx, cause))
		assert.LessOrEqual(t, budget.backoff, 4*time.Microsecond)
	}
	assert.Equal(t, 4*time.Microsecond, budget.backoff)
}

func TestResyncBudgetHonorsContext(t *testing.T) {
	t.Parallel()

	budget := newResyncBudget(&ResyncConfig{
		MaxAttempts:       0,
		InitialBackoff:    time.Hour,
		MaxBackoff:        time.Hour,
		BackoffMultiplier: 1.0,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := budget.spend(ctx, errors.New("bad length prefix"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultResyncConfig(t *testing.T) {
	t.Parallel()

	config := DefaultResyncConfig()
	assert.Equal(t, 8, config.MaxAttempts)
	assert.Positive(t, config.InitialBackoff)
	assert.GreaterOrEqual(t, config.MaxBackoff, config.InitialBackoff)
	assert.GreaterOrEqual(t, config.BackoffMultiplier, 1.0)
}
