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
	"testing"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stakewatch/sentinel/services/chainclient"
	mockchain "github.com/stakewatch/sentinel/services/chainclient/mock"
	"github.com/stakewatch/sentinel/services/confirmer"
	"github.com/stakewatch/sentinel/services/confirmer/standard"
	"github.com/stretchr/testify/require"
)

func newConfirmer(t *testing.T, chainClient *mockchain.Service) *standard.Service {
	t.Helper()
	s, err := standard.New(context.Background(),
		standard.WithChainClient(chainClient),
		standard.WithStakerAddress(new(felt.Felt).SetUint64(99)),
		standard.WithPollInterval(0),
	)
	require.NoError(t, err)
	return s
}

func TestService(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params []standard.Parameter
		err    string
	}{
		{
			name: "ChainClientMissing",
			params: []standard.Parameter{
				standard.WithStakerAddress(new(felt.Felt).SetUint64(99)),
			},
			err: "problem with parameters: no chain client specified",
		},
		{
			name: "StakerAddressMissing",
			params: []standard.Parameter{
				standard.WithChainClient(mockchain.New()),
			},
			err: "problem with parameters: no staker address specified",
		},
		{
			name: "Good",
			params: []standard.Parameter{
				standard.WithChainClient(mockchain.New()),
				standard.WithStakerAddress(new(felt.Felt).SetUint64(99)),
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

func TestCheckLocalTransaction(t *testing.T) {
	ctx := context.Background()

	txStatus := chainclient.TransactionStatusPending
	chainClient := mockchain.New()
	chainClient.TransactionStatusFunc = func(_ context.Context, _ *felt.Felt) (chainclient.TransactionStatus, error) {
		return txStatus, nil
	}

	s := newConfirmer(t, chainClient)
	txHash := new(felt.Felt).SetUint64(0xdead)

	// Pending transaction, no event yet.
	status, err := s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusPending, status)

	// Transaction included.
	txStatus = chainclient.TransactionStatusIncluded
	status, err = s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusConfirmedLocal, status)
}

func TestCheckExternalEvent(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.TransactionStatusFunc = func(_ context.Context, _ *felt.Felt) (chainclient.TransactionStatus, error) {
		return chainclient.TransactionStatusPending, nil
	}

	s := newConfirmer(t, chainClient)
	txHash := new(felt.Felt).SetUint64(0xdead)

	// An attestation event for the epoch while the local transaction is
	// still pending means another party attested first.
	s.RecordEvent(40)
	status, err := s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusConfirmedExternal, status)

	// Events are scoped by epoch.
	status, err = s.Check(ctx, 41, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusPending, status)
}

func TestCheckWithoutSubmission(t *testing.T) {
	ctx := context.Background()

	done := false
	chainClient := mockchain.New()
	chainClient.AttestationDoneFunc = func(_ context.Context, _ *felt.Felt) (bool, error) {
		return done, nil
	}

	s := newConfirmer(t, chainClient)

	status, err := s.Check(ctx, 40, nil)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusPending, status)

	done = true
	status, err = s.Check(ctx, 40, nil)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusConfirmedExternal, status)
}

func TestCheckRejectedTransaction(t *testing.T) {
	ctx := context.Background()

	done := false
	chainClient := mockchain.New()
	chainClient.TransactionStatusFunc = func(_ context.Context, _ *felt.Felt) (chainclient.TransactionStatus, error) {
		return chainclient.TransactionStatusReverted, nil
	}
	chainClient.AttestationDoneFunc = func(_ context.Context, _ *felt.Felt) (bool, error) {
		return done, nil
	}

	s := newConfirmer(t, chainClient)
	txHash := new(felt.Felt).SetUint64(0xdead)

	status, err := s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusFailed, status)

	// A reverted local transaction with a chain-side attestation still
	// counts as confirmed.
	done = true
	status, err = s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusConfirmedExternal, status)
}

func TestPollInterval(t *testing.T) {
	ctx := context.Background()

	statusCalls := 0
	chainClient := mockchain.New()
	chainClient.TransactionStatusFunc = func(_ context.Context, _ *felt.Felt) (chainclient.TransactionStatus, error) {
		statusCalls++
		return chainclient.TransactionStatusPending, nil
	}
	chainClient.AttestationDoneFunc = func(_ context.Context, _ *felt.Felt) (bool, error) {
		return false, nil
	}

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithStakerAddress(new(felt.Felt).SetUint64(99)),
		standard.WithPollInterval(time.Hour),
	)
	require.NoError(t, err)
	txHash := new(felt.Felt).SetUint64(0xdead)

	// First check queries the chain.
	status, err := s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusPending, status)
	require.Equal(t, 1, statusCalls)

	// Subsequent checks inside the interval are served from the last result.
	status, err = s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusPending, status)
	require.Equal(t, 1, statusCalls)

	// A different confirmation is not served from the cache.
	_, err = s.Check(ctx, 41, txHash)
	require.NoError(t, err)
	require.Equal(t, 2, statusCalls)

	// A recorded event invalidates the cached result.
	s.RecordEvent(40)
	status, err = s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusConfirmedExternal, status)
	require.Equal(t, 3, statusCalls)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.TransactionStatusFunc = func(_ context.Context, _ *felt.Felt) (chainclient.TransactionStatus, error) {
		return chainclient.TransactionStatusPending, nil
	}

	s := newConfirmer(t, chainClient)
	s.RecordEvent(40)
	s.RecordEvent(41)
	s.Prune(40)

	txHash := new(felt.Felt).SetUint64(0xdead)
	status, err := s.Check(ctx, 40, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusPending, status)

	status, err = s.Check(ctx, 41, txHash)
	require.NoError(t, err)
	require.Equal(t, confirmer.StatusConfirmedExternal, status)
}
