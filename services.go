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

package main

import (
	"context"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stakewatch/sentinel/services/accountmanager"
	accountmanagerstandard "github.com/stakewatch/sentinel/services/accountmanager/standard"
	"github.com/stakewatch/sentinel/services/blockstream"
	blockstreampoll "github.com/stakewatch/sentinel/services/blockstream/poll"
	blockstreamwebsocket "github.com/stakewatch/sentinel/services/blockstream/websocket"
	"github.com/stakewatch/sentinel/services/chainclient"
	chainclientstarknet "github.com/stakewatch/sentinel/services/chainclient/starknet"
	confirmerstandard "github.com/stakewatch/sentinel/services/confirmer/standard"
	controllerstandard "github.com/stakewatch/sentinel/services/controller/standard"
	epochtrackerstandard "github.com/stakewatch/sentinel/services/epochtracker/standard"
	"github.com/stakewatch/sentinel/services/metrics"
	nullmetrics "github.com/stakewatch/sentinel/services/metrics/null"
	prometheusmetrics "github.com/stakewatch/sentinel/services/metrics/prometheus"
	"github.com/stakewatch/sentinel/services/signer"
	localsigner "github.com/stakewatch/sentinel/services/signer/local"
	remotesigner "github.com/stakewatch/sentinel/services/signer/remote"
	"github.com/stakewatch/sentinel/services/submitter"
	submitterstandard "github.com/stakewatch/sentinel/services/submitter/standard"
	windowevaluatorstandard "github.com/stakewatch/sentinel/services/windowevaluator/standard"
	"github.com/stakewatch/sentinel/util"
)

// monitor is the interface the metrics services provide to consumers.
type monitor interface {
	metrics.Service
	metrics.ClientMonitor
	metrics.BlockStreamMonitor
	metrics.ControllerMonitor
	metrics.AccountManagerMonitor
}

// startServices starts the services for the agent.
func startServices(ctx context.Context) error {
	monitorSvc, err := startMonitor(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to start metrics service")
	}
	log.Trace().Msg("Started metrics service")

	operationalAddress, err := feltFromConfig("staker.operational-address")
	if err != nil {
		return err
	}
	stakingContract, err := feltFromConfig("staking-contract")
	if err != nil {
		return err
	}
	attestationContract, err := feltFromConfig("attestation-contract")
	if err != nil {
		return err
	}
	strkToken, err := feltFromConfig("strk-token")
	if err != nil {
		return err
	}
	chainID := new(felt.Felt).SetBytes([]byte(viper.GetString("chain-id")))

	chainClient, err := chainclientstarknet.New(ctx,
		chainclientstarknet.WithLogLevel(util.LogLevel("chainclient")),
		chainclientstarknet.WithMonitor(monitorSvc),
		chainclientstarknet.WithAddress(viper.GetString("node.http-url")),
		chainclientstarknet.WithTimeout(util.Timeout("node")),
		chainclientstarknet.WithStakingContract(stakingContract),
		chainclientstarknet.WithAttestationContract(attestationContract),
		chainclientstarknet.WithSTRKToken(strkToken),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start chain client")
	}
	log.Trace().Msg("Started chain client")

	// Hold startup until the node answers, and obtain the staker behind
	// the operational address.
	var stakerAddress *felt.Felt
	if err := util.Retry(ctx,
		util.RetryPolicy{Interval: time.Second, MaxInterval: 30 * time.Second, MaxAttempts: 0},
		func(ctx context.Context) error {
			info, err := chainClient.AttestationInfo(ctx, operationalAddress)
			if err != nil {
				return err
			}
			stakerAddress = info.StakerAddress
			return nil
		},
		func(error) bool { return true },
	); err != nil {
		return errors.Wrap(err, "failed to obtain attestation info from node")
	}
	log.Info().Stringer("staker_address", stakerAddress).Msg("Obtained staker for operational address")

	signerSvc, err := startSigner(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to start signer")
	}
	log.Trace().Msg("Started signer")

	epochTracker, err := epochtrackerstandard.New(ctx,
		epochtrackerstandard.WithLogLevel(util.LogLevel("epochtracker")),
		epochtrackerstandard.WithChainClient(chainClient),
		epochtrackerstandard.WithOperationalAddress(operationalAddress),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start epoch tracker")
	}

	windowEvaluator, err := windowevaluatorstandard.New(ctx,
		windowevaluatorstandard.WithLogLevel(util.LogLevel("windowevaluator")),
		windowevaluatorstandard.WithMinAttestationWindow(viper.GetUint64("min-attestation-window")),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start window evaluator")
	}

	accountManager, err := accountmanagerstandard.New(ctx,
		accountmanagerstandard.WithLogLevel(util.LogLevel("accountmanager")),
		accountmanagerstandard.WithMonitor(monitorSvc),
		accountmanagerstandard.WithChainClient(chainClient),
		accountmanagerstandard.WithAddress(operationalAddress),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start account manager")
	}
	startBalanceRefresher(ctx, accountManager)

	tipBoost, err := decimal.NewFromString(viper.GetString("tip.boost"))
	if err != nil {
		return errors.Wrap(err, "invalid tip boost")
	}
	submitterParams := []submitterstandard.Parameter{
		submitterstandard.WithLogLevel(util.LogLevel("submitter")),
		submitterstandard.WithChainClient(chainClient),
		submitterstandard.WithAccountManager(accountManager),
		submitterstandard.WithSigner(signerSvc),
		submitterstandard.WithChainID(chainID),
		submitterstandard.WithAttestationContract(attestationContract),
		submitterstandard.WithTipCalculator(&submitter.TipCalculator{
			Boost:   tipBoost,
			Minimum: viper.GetUint64("tip.minimum"),
		}),
	}
	if viper.IsSet("submitter.resource-bounds") {
		submitterParams = append(submitterParams,
			submitterstandard.WithResourceBounds(resourceBoundsFromConfig()))
	}
	submitterSvc, err := submitterstandard.New(ctx, submitterParams...)
	if err != nil {
		return errors.Wrap(err, "failed to start submitter")
	}

	confirmerSvc, err := confirmerstandard.New(ctx,
		confirmerstandard.WithLogLevel(util.LogLevel("confirmer")),
		confirmerstandard.WithChainClient(chainClient),
		confirmerstandard.WithStakerAddress(stakerAddress),
		confirmerstandard.WithPollInterval(viper.GetDuration("confirmer.poll-interval")),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start confirmer")
	}

	blockStream, err := startBlockStream(ctx, monitorSvc, chainClient, attestationContract, stakerAddress, confirmerSvc.RecordEvent)
	if err != nil {
		return errors.Wrap(err, "failed to start block stream")
	}
	log.Trace().Msg("Started block stream")

	controllerSvc, err := controllerstandard.New(ctx,
		controllerstandard.WithLogLevel(util.LogLevel("controller")),
		controllerstandard.WithMonitor(monitorSvc),
		controllerstandard.WithBlockStream(blockStream),
		controllerstandard.WithChainClient(chainClient),
		controllerstandard.WithEpochTracker(epochTracker),
		controllerstandard.WithWindowEvaluator(windowEvaluator),
		controllerstandard.WithSubmitter(submitterSvc),
		controllerstandard.WithConfirmer(confirmerSvc),
		controllerstandard.WithResubmitDelay(viper.GetUint64("controller.resubmit-delay")),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start controller")
	}

	go func() {
		if err := controllerSvc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Controller exited")
		}
	}()

	return nil
}

// startMonitor starts the metrics service.
func startMonitor(ctx context.Context) (monitor, error) {
	address := viper.GetString("metrics.prometheus.listen-address")
	if address == "" {
		log.Debug().Msg("No metrics listen address supplied; metrics not enabled")
		return nullmetrics.New(ctx), nil
	}
	return prometheusmetrics.New(ctx,
		prometheusmetrics.WithLogLevel(util.LogLevel("metrics.prometheus")),
		prometheusmetrics.WithAddress(address),
		prometheusmetrics.WithNetwork(viper.GetString("network")),
	)
}

// startSigner starts the configured signing service.
func startSigner(ctx context.Context) (signer.Service, error) {
	switch viper.GetString("signer.type") {
	case "remote":
		return remotesigner.New(ctx,
			remotesigner.WithLogLevel(util.LogLevel("signer")),
			remotesigner.WithAddress(viper.GetString("signer.url")),
			remotesigner.WithTimeout(util.Timeout("signer")),
			remotesigner.WithLegacy(viper.GetBool("signer.legacy")),
		)
	case "local":
		privateKey, err := feltFromConfig("signer.private-key")
		if err != nil {
			return nil, err
		}
		return localsigner.New(ctx,
			localsigner.WithLogLevel(util.LogLevel("signer")),
			localsigner.WithPrivateKey(privateKey),
		)
	default:
		return nil, errors.Errorf("unknown signer type %q", viper.GetString("signer.type"))
	}
}

// startBlockStream starts the websocket block stream, falling back to
// polling if no websocket URL is configured.
func startBlockStream(ctx context.Context,
	monitorSvc monitor,
	chainClient chainclient.Service,
	attestationContract *felt.Felt,
	stakerAddress *felt.Felt,
	eventHandler blockstream.EventHandler,
) (blockstream.Service, error) {
	if wsURL := viper.GetString("node.ws-url"); wsURL != "" {
		return blockstreamwebsocket.New(ctx,
			blockstreamwebsocket.WithLogLevel(util.LogLevel("blockstream")),
			blockstreamwebsocket.WithMonitor(monitorSvc),
			blockstreamwebsocket.WithAddress(wsURL),
			blockstreamwebsocket.WithAttestationContract(attestationContract),
			blockstreamwebsocket.WithStakerAddress(stakerAddress),
			blockstreamwebsocket.WithEventHandler(eventHandler),
			blockstreamwebsocket.WithRestartDelay(viper.GetDuration("blockstream.restart-delay")),
		)
	}

	log.Info().Msg("No websocket URL supplied; polling for blocks")
	return blockstreampoll.New(ctx,
		blockstreampoll.WithLogLevel(util.LogLevel("blockstream")),
		blockstreampoll.WithMonitor(monitorSvc),
		blockstreampoll.WithChainClient(chainClient),
		blockstreampoll.WithInterval(viper.GetDuration("blockstream.poll-interval")),
	)
}

// startBalanceRefresher periodically updates the operational account's
// balance gauge.
func startBalanceRefresher(ctx context.Context, accountManager accountmanager.Service) {
	interval := viper.GetDuration("accountmanager.balance-interval")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if _, err := accountManager.RefreshBalance(ctx); err != nil {
				log.Debug().Err(err).Msg("Failed to refresh balance")
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// resourceBoundsFromConfig builds the submitter's resource bounds from
// configuration.
func resourceBoundsFromConfig() rpc.ResourceBoundsMapping {
	bounds := func(key string) rpc.ResourceBounds {
		return rpc.ResourceBounds{
			MaxAmount:       rpc.U64(viper.GetString(key + ".max-amount")),
			MaxPricePerUnit: rpc.U128(viper.GetString(key + ".max-price-per-unit")),
		}
	}
	return rpc.ResourceBoundsMapping{
		L1Gas:     bounds("submitter.resource-bounds.l1-gas"),
		L1DataGas: bounds("submitter.resource-bounds.l1-data-gas"),
		L2Gas:     bounds("submitter.resource-bounds.l2-gas"),
	}
}

// feltFromConfig parses a required field element from configuration.
func feltFromConfig(key string) (*felt.Felt, error) {
	value := viper.GetString(key)
	if value == "" {
		return nil, errors.Errorf("no %s specified", key)
	}
	res, err := new(felt.Felt).SetString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", key)
	}
	return res, nil
}
