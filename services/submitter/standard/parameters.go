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

package standard

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stakewatch/sentinel/services/accountmanager"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/signer"
	"github.com/stakewatch/sentinel/services/submitter"
)

type parameters struct {
	logLevel            zerolog.Level
	chainClient         chainclient.InvokeSubmitter
	accountManager      accountmanager.Service
	signer              signer.Service
	chainID             *felt.Felt
	attestationContract *felt.Felt
	resourceBounds      *rpc.ResourceBoundsMapping
	tipCalculator       *submitter.TipCalculator
}

// Parameter is the interface for service parameters.
type Parameter interface {
	apply(*parameters)
}

type parameterFunc func(*parameters)

func (f parameterFunc) apply(p *parameters) {
	f(p)
}

// WithLogLevel sets the log level for the module.
func WithLogLevel(logLevel zerolog.Level) Parameter {
	return parameterFunc(func(p *parameters) {
		p.logLevel = logLevel
	})
}

// WithChainClient sets the chain client for transaction submission.
func WithChainClient(chainClient chainclient.InvokeSubmitter) Parameter {
	return parameterFunc(func(p *parameters) {
		p.chainClient = chainClient
	})
}

// WithAccountManager sets the account manager for nonce allocation.
func WithAccountManager(accountManager accountmanager.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.accountManager = accountManager
	})
}

// WithSigner sets the transaction signer.
func WithSigner(signerSvc signer.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.signer = signerSvc
	})
}

// WithChainID sets the chain identifier used in transaction hashing.
func WithChainID(chainID *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.chainID = chainID
	})
}

// WithAttestationContract sets the address of the attestation contract.
func WithAttestationContract(attestationContract *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.attestationContract = attestationContract
	})
}

// WithResourceBounds sets the resource bounds for attestation transactions.
func WithResourceBounds(resourceBounds rpc.ResourceBoundsMapping) Parameter {
	return parameterFunc(func(p *parameters) {
		p.resourceBounds = &resourceBounds
	})
}

// WithTipCalculator sets the tip calculator for attestation transactions.
func WithTipCalculator(tipCalculator *submitter.TipCalculator) Parameter {
	return parameterFunc(func(p *parameters) {
		p.tipCalculator = tipCalculator
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
		resourceBounds: &rpc.ResourceBoundsMapping{
			L1Gas:     rpc.ResourceBounds{MaxAmount: "0x0", MaxPricePerUnit: "0x1000000000000"},
			L1DataGas: rpc.ResourceBounds{MaxAmount: "0x1000", MaxPricePerUnit: "0x1000000000000"},
			L2Gas:     rpc.ResourceBounds{MaxAmount: "0x1000000", MaxPricePerUnit: "0x100000000000"},
		},
		tipCalculator: &submitter.TipCalculator{
			Boost:   decimal.NewFromInt(1),
			Minimum: 0,
		},
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.chainClient == nil {
		return nil, errors.New("no chain client specified")
	}
	if parameters.accountManager == nil {
		return nil, errors.New("no account manager specified")
	}
	if parameters.signer == nil {
		return nil, errors.New("no signer specified")
	}
	if parameters.chainID == nil {
		return nil, errors.New("no chain ID specified")
	}
	if parameters.attestationContract == nil {
		return nil, errors.New("no attestation contract specified")
	}

	return &parameters, nil
}
