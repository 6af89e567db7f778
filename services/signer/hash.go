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

package signer

import (
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/pkg/errors"
)

// HashInvokeV3 computes the hash of an invoke v3 transaction as defined
// by SNIP-8, with both data availability modes fixed to L1.
func HashInvokeV3(txn *rpc.InvokeTxnV3, chainID *felt.Felt) (*felt.Felt, error) {
	tip, err := hexToBig(string(txn.Tip))
	if err != nil {
		return nil, errors.Wrap(err, "invalid tip")
	}

	l1Gas, err := resourceFelt("L1_GAS", txn.ResourceBounds.L1Gas)
	if err != nil {
		return nil, errors.Wrap(err, "invalid L1 gas bounds")
	}
	l2Gas, err := resourceFelt("L2_GAS", txn.ResourceBounds.L2Gas)
	if err != nil {
		return nil, errors.Wrap(err, "invalid L2 gas bounds")
	}
	l1DataGas, err := resourceFelt("L1_DATA", txn.ResourceBounds.L1DataGas)
	if err != nil {
		return nil, errors.Wrap(err, "invalid L1 data gas bounds")
	}

	feeFields := crypto.PoseidonArray(bigToFelt(tip), l1Gas, l2Gas, l1DataGas)

	return crypto.PoseidonArray(
		new(felt.Felt).SetBytes([]byte("invoke")),
		new(felt.Felt).SetUint64(3),
		txn.SenderAddress,
		feeFields,
		crypto.PoseidonArray(txn.PayMasterData...),
		chainID,
		txn.Nonce,
		// Combined data availability modes, both L1.
		new(felt.Felt),
		crypto.PoseidonArray(txn.AccountDeploymentData...),
		crypto.PoseidonArray(txn.Calldata...),
	), nil
}

// resourceFelt packs a resource bound into a single field element: the
// resource name right-aligned in the first 8 bytes, the maximum amount
// as a 64-bit value in the next 8, and the maximum price per unit as a
// 128-bit value in the final 16.
func resourceFelt(name string, bounds rpc.ResourceBounds) (*felt.Felt, error) {
	maxAmount, err := hexToBig(string(bounds.MaxAmount))
	if err != nil {
		return nil, errors.Wrap(err, "invalid max amount")
	}
	maxPrice, err := hexToBig(string(bounds.MaxPricePerUnit))
	if err != nil {
		return nil, errors.Wrap(err, "invalid max price per unit")
	}

	if maxAmount.BitLen() > 64 {
		return nil, errors.New("max amount out of range")
	}
	if maxPrice.BitLen() > 128 {
		return nil, errors.New("max price per unit out of range")
	}

	var buf [32]byte
	copy(buf[8-len(name):8], name)
	maxAmount.FillBytes(buf[8:16])
	maxPrice.FillBytes(buf[16:32])

	return new(felt.Felt).SetBytes(buf[:]), nil
}

func hexToBig(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	res, ok := new(big.Int).SetString(strings.TrimPrefix(value, "0x"), 16)
	if !ok {
		return nil, errors.New("not a hexadecimal value")
	}
	return res, nil
}

func bigToFelt(value *big.Int) *felt.Felt {
	var buf [32]byte
	value.FillBytes(buf[:])
	return new(felt.Felt).SetBytes(buf[:])
}
