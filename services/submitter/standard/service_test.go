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

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/pkg/errors"
	accountstandard "github.com/stakewatch/sentinel/services/accountmanager/standard"
	"github.com/stakewatch/sentinel/services/chainclient"
	mockchain "github.com/stakewatch/sentinel/services/chainclient/mock"
	"github.com/stakewatch/sentinel/services/signer"
	mocksigner "github.com/stakewatch/sentinel/services/signer/mock"
	"github.com/stakewatch/sentinel/services/submitter/standard"
	"github.com/stretchr/testify/require"
)

var chainID = new(felt.Felt).SetBytes([]byte("SN_SEPOLIA"))

func newAccountManager(t *testing.T, chainClient *mockchain.Service) *accountstandard.Service {
	t.Helper()
	accountManager, err := accountstandard.New(context.Background(),
		accountstandard.WithChainClient(chainClient),
		accountstandard.WithAddress(new(felt.Felt).SetUint64(0xaa)),
	)
	require.NoError(t, err)
	return accountManager
}

func TestService(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	accountManager := newAccountManager(t, chainClient)
	signerSvc := mocksigner.New()

	tests := []struct {
		name   string
		params []standard.Parameter
		err    string
	}{
		{
			name: "ChainClientMissing",
			params: []standard.Parameter{
				standard.WithAccountManager(accountManager),
				standard.WithSigner(signerSvc),
				standard.WithChainID(chainID),
				standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
			},
			err: "problem with parameters: no chain client specified",
		},
		{
			name: "AccountManagerMissing",
			params: []standard.Parameter{
				standard.WithChainClient(chainClient),
				standard.WithSigner(signerSvc),
				standard.WithChainID(chainID),
				standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
			},
			err: "problem with parameters: no account manager specified",
		},
		{
			name: "SignerMissing",
			params: []standard.Parameter{
				standard.WithChainClient(chainClient),
				standard.WithAccountManager(accountManager),
				standard.WithChainID(chainID),
				standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
			},
			err: "problem with parameters: no signer specified",
		},
		{
			name: "ChainIDMissing",
			params: []standard.Parameter{
				standard.WithChainClient(chainClient),
				standard.WithAccountManager(accountManager),
				standard.WithSigner(signerSvc),
				standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
			},
			err: "problem with parameters: no chain ID specified",
		},
		{
			name: "AttestationContractMissing",
			params: []standard.Parameter{
				standard.WithChainClient(chainClient),
				standard.WithAccountManager(accountManager),
				standard.WithSigner(signerSvc),
				standard.WithChainID(chainID),
			},
			err: "problem with parameters: no attestation contract specified",
		},
		{
			name: "Good",
			params: []standard.Parameter{
				standard.WithChainClient(chainClient),
				standard.WithAccountManager(accountManager),
				standard.WithSigner(signerSvc),
				standard.WithChainID(chainID),
				standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
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

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.SubmitInvokeFunc = func(_ context.Context, _ *rpc.BroadcastInvokeTxnV3) (*felt.Felt, error) {
		return new(felt.Felt).SetUint64(0xdead), nil
	}
	accountManager := newAccountManager(t, chainClient)

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithAccountManager(accountManager),
		standard.WithSigner(mocksigner.New()),
		standard.WithChainID(chainID),
		standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
	)
	require.NoError(t, err)

	blockHash := new(felt.Felt).SetUint64(0xbeef)
	hash, err := s.Submit(ctx, blockHash)
	require.NoError(t, err)
	require.Equal(t, "0xdead", hash.String())

	require.Equal(t, 1, chainClient.SubmissionCount())
	txn := chainClient.Submissions[0]
	require.Len(t, txn.Calldata, 5)
	require.Equal(t, "0xcc", txn.Calldata[1].String())
	require.Equal(t, blockHash.String(), txn.Calldata[4].String())
	require.Len(t, txn.Signature, 2)
}

func TestSubmitNonceConflict(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	chainClient := mockchain.New()
	chainClient.NonceFunc = func(_ context.Context, _ *felt.Felt) (*felt.Felt, error) {
		return new(felt.Felt).SetUint64(5), nil
	}
	chainClient.SubmitInvokeFunc = func(_ context.Context, _ *rpc.BroadcastInvokeTxnV3) (*felt.Felt, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.Wrap(chainclient.ErrNonceConflict, "invalid transaction nonce")
		}
		return new(felt.Felt).SetUint64(0xdead), nil
	}
	accountManager := newAccountManager(t, chainClient)

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithAccountManager(accountManager),
		standard.WithSigner(mocksigner.New()),
		standard.WithChainID(chainID),
		standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
	)
	require.NoError(t, err)

	hash, err := s.Submit(ctx, new(felt.Felt).SetUint64(0xbeef))
	require.NoError(t, err)
	require.Equal(t, "0xdead", hash.String())
	require.Equal(t, 2, attempts)
}

func TestSubmitPermanentNonceConflict(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.SubmitInvokeFunc = func(_ context.Context, _ *rpc.BroadcastInvokeTxnV3) (*felt.Felt, error) {
		return nil, errors.Wrap(chainclient.ErrNonceConflict, "invalid transaction nonce")
	}
	accountManager := newAccountManager(t, chainClient)

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithAccountManager(accountManager),
		standard.WithSigner(mocksigner.New()),
		standard.WithChainID(chainID),
		standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
	)
	require.NoError(t, err)

	_, err = s.Submit(ctx, new(felt.Felt).SetUint64(0xbeef))
	require.ErrorIs(t, err, chainclient.ErrNonceConflict)
	// One initial attempt plus a single retry.
	require.Equal(t, 2, chainClient.SubmissionCount())
}

func TestSubmitSigningFailureDoesNotConsumeNonce(t *testing.T) {
	ctx := context.Background()

	chainClient := mockchain.New()
	chainClient.NonceFunc = func(_ context.Context, _ *felt.Felt) (*felt.Felt, error) {
		return new(felt.Felt).SetUint64(5), nil
	}
	accountManager := newAccountManager(t, chainClient)

	signerSvc := mocksigner.New()
	failing := true
	signerSvc.SignFunc = func(_ context.Context, _ *rpc.InvokeTxnV3, _ *felt.Felt) (*felt.Felt, *felt.Felt, error) {
		if failing {
			return nil, nil, errors.Wrap(signer.ErrUnavailable, "connection refused")
		}
		return new(felt.Felt).SetUint64(1), new(felt.Felt).SetUint64(2), nil
	}

	s, err := standard.New(ctx,
		standard.WithChainClient(chainClient),
		standard.WithAccountManager(accountManager),
		standard.WithSigner(signerSvc),
		standard.WithChainID(chainID),
		standard.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
	)
	require.NoError(t, err)

	_, err = s.Submit(ctx, new(felt.Felt).SetUint64(0xbeef))
	require.ErrorIs(t, err, signer.ErrUnavailable)
	require.Equal(t, 0, chainClient.SubmissionCount())

	// The failed attempt did not consume the nonce.
	failing = false
	_, err = s.Submit(ctx, new(felt.Felt).SetUint64(0xbeef))
	require.NoError(t, err)
	require.Equal(t, 1, chainClient.SubmissionCount())
	require.Equal(t, "0x5", chainClient.Submissions[0].Nonce.String())
}
