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

package local_test

import (
	"context"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/stakewatch/sentinel/services/signer/local"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params []local.Parameter
		err    string
	}{
		{
			name: "PrivateKeyMissing",
			err:  "problem with parameters: no private key specified",
		},
		{
			name: "PrivateKeyZero",
			params: []local.Parameter{
				local.WithPrivateKey(new(felt.Felt)),
			},
			err: "problem with parameters: private key is zero",
		},
		{
			name: "Good",
			params: []local.Parameter{
				local.WithPrivateKey(new(felt.Felt).SetUint64(12345)),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := local.New(ctx, test.params...)
			if test.err != "" {
				require.EqualError(t, err, test.err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSign(t *testing.T) {
	ctx := context.Background()

	s, err := local.New(ctx,
		local.WithPrivateKey(new(felt.Felt).SetUint64(12345)),
	)
	require.NoError(t, err)
	require.False(t, s.PublicKey().IsZero())

	txn := &rpc.InvokeTxnV3{
		SenderAddress: new(felt.Felt).SetUint64(1),
		Calldata:      []*felt.Felt{new(felt.Felt).SetUint64(2)},
		Nonce:         new(felt.Felt).SetUint64(3),
		Tip:           "0x0",
		ResourceBounds: rpc.ResourceBoundsMapping{
			L1Gas:     rpc.ResourceBounds{MaxAmount: "0x0", MaxPricePerUnit: "0x0"},
			L1DataGas: rpc.ResourceBounds{MaxAmount: "0x0", MaxPricePerUnit: "0x0"},
			L2Gas:     rpc.ResourceBounds{MaxAmount: "0x0", MaxPricePerUnit: "0x0"},
		},
	}
	chainID := new(felt.Felt).SetBytes([]byte("SN_SEPOLIA"))

	r1, s1, err := s.Sign(ctx, txn, chainID)
	require.NoError(t, err)
	require.False(t, r1.IsZero())
	require.False(t, s1.IsZero())

	// Signing is deterministic.
	r2, s2, err := s.Sign(ctx, txn, chainID)
	require.NoError(t, err)
	require.Equal(t, r1.String(), r2.String())
	require.Equal(t, s1.String(), s2.String())
}
