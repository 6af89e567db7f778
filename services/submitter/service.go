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

// Package submitter builds, signs and submits attestation transactions.
package submitter

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
)

// Service is the interface for attestation submitters.
type Service interface {
	// Submit signs and submits an attestation of the given block hash,
	// returning the transaction hash.
	Submit(ctx context.Context, blockHash *felt.Felt) (*felt.Felt, error)
}
