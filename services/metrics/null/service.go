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

// Package null is a null metrics logger.
package null

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service is a metrics service that drops metrics.
type Service struct{}

// New creates a new null metrics service.
func New(_ context.Context) *Service {
	return &Service{}
}

// Presenter provides the presenter for this service.
func (*Service) Presenter() string {
	return "null"
}

// ClientOperation provides a generic monitor for client operations.
func (*Service) ClientOperation(_ string, _ string, _ bool, _ time.Duration) {}

// LatestBlockNumber is called when a new latest block is observed.
func (*Service) LatestBlockNumber(_ uint64) {}

// EpochChanged is called when a new epoch's obligation has been derived.
func (*Service) EpochChanged(_ uint64, _ uint64, _ uint64, _ uint64) {}

// AttestationSubmitted is called when an attestation transaction has been accepted for inclusion.
func (*Service) AttestationSubmitted() {}

// AttestationFailed is called when an attestation submission attempt failed.
func (*Service) AttestationFailed() {}

// AttestationConfirmed is called when the current obligation reaches a confirmed state.
func (*Service) AttestationConfirmed() {}

// ConfirmationObserved is called for every attestation confirmation seen on chain for the staker.
func (*Service) ConfirmationObserved() {}

// EpochMissed is called when an epoch closes without a confirmed attestation.
func (*Service) EpochMissed() {}

// Balance is called when the operational account balance has been refreshed.
func (*Service) Balance(_ decimal.Decimal) {}
