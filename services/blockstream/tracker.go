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

package blockstream

import (
	"go.uber.org/atomic"
)

// Tracker holds the most recent header and signals consumers when it
// changes.  It is safe for concurrent use.
type Tracker struct {
	latest   atomic.Pointer[Header]
	notifyCh chan struct{}
}

// NewTracker creates a new header tracker.
func NewTracker() *Tracker {
	return &Tracker{
		notifyCh: make(chan struct{}, 1),
	}
}

// Update records a header observation.  Repeat observations of the
// current header are dropped; a lower block number is accepted, as it
// indicates a reorg.  It returns true if the header was recorded.
func (t *Tracker) Update(header Header) bool {
	current := t.latest.Load()
	if current != nil && current.Number == header.Number &&
		current.Hash != nil && header.Hash != nil && current.Hash.Equal(header.Hash) {
		return false
	}
	t.latest.Store(&header)

	// Coalesce the signal if the consumer has not drained the previous one.
	select {
	case t.notifyCh <- struct{}{}:
	default:
	}

	return true
}

// Latest provides the most recently observed header.
func (t *Tracker) Latest() (Header, bool) {
	header := t.latest.Load()
	if header == nil {
		return Header{}, false
	}
	return *header, true
}

// Notifications provides the new-header signal channel.
func (t *Tracker) Notifications() <-chan struct{} {
	return t.notifyCh
}
