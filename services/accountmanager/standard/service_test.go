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

package standard_test

import (
	"context"
	"sync"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"
	standard "github.com/stakewatch/sentinel/services/accountmanager/standard"
	mockchain "github.com/stakewatch/sentinel/services/chainclient/mock"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()

	tests := []struct {
		name   string
		params []standard.Parameter
		err    string
	}{
		{
			name: "ChainClientMissing",
			params: []standard.Parameter{
				standard.WithAddress(new(felt.Felt).SetUint64(1)),
			},
			err: "problem with parameters: no chain client specified",
		},
		{
			name: "AddressMissing",
			params: []standard.Parameter{
				standard.WithChainClient(chainClient),
			},
			err: "problem with parameters: no address specified",
		},
		{
			name: "Good",
			params: []standard.Parameter{
				standard.WithChainClient(chainClient),
				standard.WithAddress(new(felt.Felt).SetUint64(1)),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := standard.New(ctx, test.params...)
			if test.err != "" {
				require.EqualError(t, err, test.err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNextNonce(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.NonceFunc = func(_ context.Context, _ *felt.Felt) (*felt.Felt, error) {
		return new(felt.Felt).SetUint64(0x106), nil
	}

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithAddress(new(felt.Felt).SetUint64(1)),
	)
	require.NoError(t, err)

	// Nonces are allocated sequentially from the chain value.
	nonce, err := s.NextNonce(ctx)
	require.NoError(t, err)
	require.Equal(t, "0x106", nonce.String())

	nonce, err = s.NextNonce(ctx)
	require.NoError(t, err)
	require.Equal(t, "0x107", nonce.String())

	// A refresh resets to the chain value.
	require.NoError(t, s.RefreshNonce(ctx))
	nonce, err = s.NextNonce(ctx)
	require.NoError(t, err)
	require.Equal(t, "0x106", nonce.String())
}

func TestNextNonceConcurrent(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.NonceFunc = func(_ context.Context, _ *felt.Felt) (*felt.Felt, error) {
		return new(felt.Felt), nil
	}

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithAddress(new(felt.Felt).SetUint64(1)),
	)
	require.NoError(t, err)

	const goroutines = 32
	nonces := make([]string, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nonce, err := s.NextNonce(ctx)
			require.NoError(t, err)
			nonces[i] = nonce.String()
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, nonce := range nonces {
		require.False(t, seen[nonce], "duplicate nonce %s", nonce)
		seen[nonce] = true
	}
}

func TestRefreshBalance(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.BalanceFunc = func(_ context.Context, _ *felt.Felt) (*uint256.Int, error) {
		// 1.5 STRK in fri.
		return uint256.MustFromDecimal("1500000000000000000"), nil
	}

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithAddress(new(felt.Felt).SetUint64(1)),
	)
	require.NoError(t, err)

	balance, err := s.RefreshBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.5", balance.String())
}
