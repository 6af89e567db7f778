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

// Package metrics tracks various metrics that measure the performance of the sentinel.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is the generic metrics service.
type Service interface {
	// Presenter provides the presenter for this service.
	Presenter() string
}

// ClientMonitor provides methods to monitor client connections.
type ClientMonitor interface {
	// ClientOperation provides a generic monitor for client operations.
	ClientOperation(provider string, name string, succeeded bool, duration time.Duration)
}

// BlockStreamMonitor provides methods to monitor the block stream.
type BlockStreamMonitor interface {
	// LatestBlockNumber is called when a new latest block is observed.
	LatestBlockNumber(number uint64)
}

// ControllerMonitor provides methods to monitor the attestation controller.
type ControllerMonitor interface {
	// EpochChanged is called when a new epoch's obligation has been derived.
	EpochChanged(epochID uint64, length uint64, startingBlock uint64, assignedBlock uint64)
	// AttestationSubmitted is called when an attestation transaction has been
	// accepted by the node for inclusion.
	AttestationSubmitted()
	// AttestationFailed is called when an attestation submission attempt failed.
	AttestationFailed()
	// AttestationConfirmed is called when the current obligation reaches a
	// confirmed state.
	AttestationConfirmed()
	// ConfirmationObserved is called for every attestation confirmation seen on
	// chain for the staker, including those submitted by third parties.
	ConfirmationObserved()
	// EpochMissed is called when an epoch closes without a confirmed attestation.
	EpochMissed()
}

// AccountManagerMonitor provides methods to monitor the operational account.
type AccountManagerMonitor interface {
	// Balance is called when the operational account balance has been refreshed.
	Balance(balance decimal.Decimal)
}
