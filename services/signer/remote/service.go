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

// Package remote is a signer using an HTTP signing service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/signer"
)

// Service is a signer that delegates to a remote HTTP signing service.
type Service struct {
	log       zerolog.Logger
	address   string
	client    *http.Client
	publicKey *felt.Felt
	legacy    bool
}

type signRequest struct {
	Transaction *rpc.InvokeTxnV3 `json:"transaction"`
	ChainID     *felt.Felt       `json:"chain_id"`
}

type signHashRequest struct {
	Hash *felt.Felt `json:"hash"`
}

type signResponse struct {
	Signature []*felt.Felt `json:"signature"`
}

type publicKeyResponse struct {
	PublicKey *felt.Felt `json:"public_key"`
}

// New creates a new remote signer.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "signer").Str("impl", "remote").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		log:       log,
		address:   strings.TrimSuffix(parameters.address, "/"),
		client:    &http.Client{Timeout: parameters.timeout},
		publicKey: parameters.publicKey,
		legacy:    parameters.legacy,
	}

	if s.publicKey == nil {
		publicKey, err := s.fetchPublicKey(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to obtain public key")
		}
		s.publicKey = publicKey
	}

	return s, nil
}

// PublicKey provides the public key of the signer.
func (s *Service) PublicKey() *felt.Felt {
	return s.publicKey
}

// Sign signs an invoke transaction for the given chain.
func (s *Service) Sign(ctx context.Context, txn *rpc.InvokeTxnV3, chainID *felt.Felt) (*felt.Felt, *felt.Felt, error) {
	if s.legacy {
		return s.signHash(ctx, txn, chainID)
	}

	body, err := json.Marshal(&signRequest{
		Transaction: txn,
		ChainID:     chainID,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode signing request")
	}

	return s.requestSignature(ctx, "sign", body)
}

// signHash hashes the transaction locally and requests a signature over the
// bare hash, for signers that only expose the sign_hash endpoint.
func (s *Service) signHash(ctx context.Context, txn *rpc.InvokeTxnV3, chainID *felt.Felt) (*felt.Felt, *felt.Felt, error) {
	hash, err := signer.HashInvokeV3(txn, chainID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to hash transaction")
	}

	body, err := json.Marshal(&signHashRequest{Hash: hash})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode signing request")
	}

	return s.requestSignature(ctx, "sign_hash", body)
}

// requestSignature posts a signing request and parses the signature pair.
func (s *Service) requestSignature(ctx context.Context, endpoint string, body []byte) (*felt.Felt, *felt.Felt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", s.address, endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create signing request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, errors.Wrap(signer.ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, errors.Wrapf(signer.ErrUnavailable, "signing request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(signer.ErrUnavailable, err.Error())
	}

	var res signResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, nil, errors.Wrap(signer.ErrUnavailable, "malformed signing response")
	}
	if len(res.Signature) != 2 || res.Signature[0] == nil || res.Signature[1] == nil {
		return nil, nil, errors.Wrap(signer.ErrUnavailable, "malformed signature")
	}
	s.log.Trace().Msg("Obtained signature")

	return res.Signature[0], res.Signature[1], nil
}

// fetchPublicKey obtains the public key from the remote signer.
func (s *Service) fetchPublicKey(ctx context.Context) (*felt.Felt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/get_public_key", s.address), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create public key request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(signer.ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(signer.ErrUnavailable, "public key request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(signer.ErrUnavailable, err.Error())
	}

	var res publicKeyResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrap(signer.ErrUnavailable, "malformed public key response")
	}
	if res.PublicKey == nil {
		return nil, errors.Wrap(signer.ErrUnavailable, "no public key in response")
	}

	return res.PublicKey, nil
}
