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

package signer_test

import (
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/stakewatch/sentinel/services/signer"
	"github.com/stretchr/testify/require"
)

func hexFelt(t *testing.T, value string) *felt.Felt {
	t.Helper()
	res, err := new(felt.Felt).SetString(value)
	require.NoError(t, err)
	return res
}

func TestHashInvokeV3(t *testing.T) {
	txn := &rpc.InvokeTxnV3{
		Type:          rpc.TransactionType_Invoke,
		Version:       rpc.TransactionV3,
		SenderAddress: hexFelt(t, "0x2e216b191ac966ba1d35cb6cfddfaf9c12aec4dfe869d9fa6233611bb334ee9"),
		Calldata: []*felt.Felt{
			hexFelt(t, "0x1"),
			hexFelt(t, "0x3f32e152b9637c31bfcf73e434f78591067a01ba070505ff6ee195642c9acfb"),
			hexFelt(t, "0x37446750a403c1b4014436073cf8d08ceadc5b156ac1c8b7b0ca41a0c9c1c54"),
			hexFelt(t, "0x1"),
			hexFelt(t, "0x7979a0a0a175d7e738e8e9ba6fa6d48f680d67758f719390eee58e790819836"),
		},
		Nonce: hexFelt(t, "0x106"),
		ResourceBounds: rpc.ResourceBoundsMapping{
			L1Gas: rpc.ResourceBounds{
				MaxAmount:       "0x0",
				MaxPricePerUnit: "0x51066a69ad72c",
			},
			L1DataGas: rpc.ResourceBounds{
				MaxAmount:       "0x600",
				MaxPricePerUnit: "0x1254",
			},
			L2Gas: rpc.ResourceBounds{
				MaxAmount:       "0xf00000",
				MaxPricePerUnit: "0x308c5bff6",
			},
		},
		Tip:                   "0x0",
		PayMasterData:         []*felt.Felt{},
		AccountDeploymentData: []*felt.Felt{},
		NonceDataMode:         rpc.DAModeL1,
		FeeMode:               rpc.DAModeL1,
	}
	chainID := new(felt.Felt).SetBytes([]byte("SN_SEPOLIA"))

	hash, err := signer.HashInvokeV3(txn, chainID)
	require.NoError(t, err)
	require.Equal(t,
		"0x382a7406fe3931ba1faf00d1eaa36b7c8770b8d185b091b730ecdb4dba5f3ce",
		hash.String(),
	)
}

func TestHashInvokeV3BadBounds(t *testing.T) {
	tests := []struct {
		name string
		txn  *rpc.InvokeTxnV3
		err  string
	}{
		{
			name: "BadTip",
			txn: &rpc.InvokeTxnV3{
				SenderAddress: new(felt.Felt),
				Nonce:         new(felt.Felt),
				Tip:           "0xzz",
			},
			err: "invalid tip",
		},
		{
			name: "BadMaxAmount",
			txn: &rpc.InvokeTxnV3{
				SenderAddress: new(felt.Felt),
				Nonce:         new(felt.Felt),
				Tip:           "0x0",
				ResourceBounds: rpc.ResourceBoundsMapping{
					L1Gas: rpc.ResourceBounds{
						MaxAmount:       "0x10000000000000000",
						MaxPricePerUnit: "0x0",
					},
				},
			},
			err: "invalid L1 gas bounds",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := signer.HashInvokeV3(test.txn, new(felt.Felt))
			require.ErrorContains(t, err, test.err)
		})
	}
}
