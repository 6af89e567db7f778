// Copyright © 2025 Attestant Limited.
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

package util

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// RetryPolicy governs bounded retries of transient failures.
type RetryPolicy struct {
	// Interval is the delay before the first retry.
	Interval time.Duration
	// MaxInterval caps the delay between retries; each retry doubles the
	// previous delay until this cap is reached.
	MaxInterval time.Duration
	// MaxAttempts is the total number of attempts, including the first.
	// 0 means retry until the context is done.
	MaxAttempts int
}

// Retry runs fn until it succeeds, returns a terminal error, exhausts the
// policy's attempts, or the context is done.  transient reports whether an
// error is worth retrying; a nil transient treats every error as transient.
func Retry(ctx context.Context,
	policy RetryPolicy,
	fn func(ctx context.Context) error,
	transient func(error) bool,
) error {
	interval := policy.Interval
	if interval == 0 {
		interval = time.Second
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if transient != nil && !transient(err) {
			return err
		}
		if policy.MaxAttempts > 0 && attempt >= policy.MaxAttempts {
			return errors.Wrap(err, "retries exhausted")
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Wrap(err, ctx.Err().Error())
		case <-timer.C:
		}

		interval *= 2
		if policy.MaxInterval != 0 && interval > policy.MaxInterval {
			interval = policy.MaxInterval
		}
	}
}
