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

package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupControllerMetrics() error {
	var err error

	s.currentEpochID, err = registerGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "validator_attestation",
		Name:        "current_epoch_id",
		Help:        "Current epoch ID.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.currentEpochLength, err = registerGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "validator_attestation",
		Name:        "current_epoch_length",
		Help:        "Current epoch length in blocks.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.currentEpochStartingBlock, err = registerGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "validator_attestation",
		Name:        "current_epoch_starting_block_number",
		Help:        "Current epoch starting block number.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.currentEpochAssignedBlock, err = registerGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "validator_attestation",
		Name:        "current_epoch_assigned_block_number",
		Help:        "Block number to attest in the current epoch.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.lastAttestationTimestamp, err = registerGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "validator_attestation",
		Name:        "last_attestation_timestamp_seconds",
		Help:        "Timestamp of the last attestation submission.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.attestationsSubmitted, err = registerCounter(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "validator_attestation",
		Name:        "attestation_submitted_count",
		Help:        "Number of successfully submitted attestations.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.attestationsFailed, err = registerCounter(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "validator_attestation",
		Name:        "attestation_failure_count",
		Help:        "Number of failed attestation attempts.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.attestationsConfirmed, err = registerCounter(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "validator_attestation",
		Name:        "attestation_confirmed_count",
		Help:        "Number of confirmed attestations.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.confirmationsObserved, err = registerCounter(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "validator_attestation",
		Name:        "confirmations_observed_count",
		Help:        "Number of attestation confirmations observed on chain, including third-party submissions.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	s.missedEpochs, err = registerCounter(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "validator_attestation",
		Name:        "missed_epochs_count",
		Help:        "Number of epochs with no successful attestation.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}
	// Expose the missed epoch counter from startup so that absence of misses is visible.
	s.missedEpochs.Add(0)

	return nil
}

// EpochChanged is called when a new epoch's obligation has been derived.
func (s *Service) EpochChanged(epochID uint64, length uint64, startingBlock uint64, assignedBlock uint64) {
	s.currentEpochID.Set(float64(epochID))
	s.currentEpochLength.Set(float64(length))
	s.currentEpochStartingBlock.Set(float64(startingBlock))
	s.currentEpochAssignedBlock.Set(float64(assignedBlock))
}

// AttestationSubmitted is called when an attestation transaction has been accepted for inclusion.
func (s *Service) AttestationSubmitted() {
	s.attestationsSubmitted.Inc()
	s.lastAttestationTimestamp.Set(float64(time.Now().Unix()))
}

// AttestationFailed is called when an attestation submission attempt failed.
func (s *Service) AttestationFailed() {
	s.attestationsFailed.Inc()
}

// AttestationConfirmed is called when the current obligation reaches a confirmed state.
func (s *Service) AttestationConfirmed() {
	s.attestationsConfirmed.Inc()
}

// ConfirmationObserved is called for every attestation confirmation seen on chain for the staker.
func (s *Service) ConfirmationObserved() {
	s.confirmationsObserved.Inc()
}

// EpochMissed is called when an epoch closes without a confirmed attestation.
func (s *Service) EpochMissed() {
	s.missedEpochs.Inc()
}
