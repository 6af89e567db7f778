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

package websocket

import (
	"context"
	"fmt"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/stakewatch/sentinel/services/blockstream"
	nullmetrics "github.com/stakewatch/sentinel/services/metrics/null"
	"github.com/stretchr/testify/require"
)

func testService(eventHandler blockstream.EventHandler) *Service {
	return &Service{
		monitor:       nullmetrics.New(context.Background()),
		stakerAddress: new(felt.Felt).SetUint64(99),
		eventHandler:  eventHandler,
		eventKey:      utils.GetSelectorFromNameFelt("StakerAttestationSuccessful"),
		tracker:       blockstream.NewTracker(),
	}
}

func TestHandleNewHeads(t *testing.T) {
	s := testService(func(uint64) {})

	msg := `{
		"jsonrpc": "2.0",
		"method": "starknet_subscriptionNewHeads",
		"params": {
			"result": {"block_hash": "0xabc", "block_number": 1023, "l1_da_mode": "CALLDATA"},
			"subscription_id": 7
		}
	}`
	require.NoError(t, s.handleMessage([]byte(msg)))

	header, ok := s.Latest()
	require.True(t, ok)
	require.Equal(t, uint64(1023), header.Number)
	require.Equal(t, "0xabc", header.Hash.String())
}

func TestHandleEvents(t *testing.T) {
	var epochs []uint64
	s := testService(func(epochID uint64) {
		epochs = append(epochs, epochID)
	})

	eventKey := utils.GetSelectorFromNameFelt("StakerAttestationSuccessful")

	// An event for the configured staker is forwarded.
	msg := fmt.Sprintf(`{
		"jsonrpc": "2.0",
		"method": "starknet_subscriptionEvents",
		"params": {
			"result": {
				"from_address": "0xcc",
				"keys": ["%s", "0x63"],
				"data": ["0x28"],
				"block_number": 1025,
				"transaction_hash": "0x4"
			},
			"subscription_id": 8
		}
	}`, eventKey.String())
	require.NoError(t, s.handleMessage([]byte(msg)))
	require.Equal(t, []uint64{40}, epochs)

	// An event for a different staker is ignored.
	msg = fmt.Sprintf(`{
		"jsonrpc": "2.0",
		"method": "starknet_subscriptionEvents",
		"params": {
			"result": {
				"from_address": "0xcc",
				"keys": ["%s", "0x64"],
				"data": ["0x29"],
				"block_number": 1026,
				"transaction_hash": "0x5"
			},
			"subscription_id": 8
		}
	}`, eventKey.String())
	require.NoError(t, s.handleMessage([]byte(msg)))
	require.Equal(t, []uint64{40}, epochs)

	// An unrelated event is ignored.
	msg = `{
		"jsonrpc": "2.0",
		"method": "starknet_subscriptionEvents",
		"params": {
			"result": {
				"from_address": "0xcc",
				"keys": ["0x1", "0x63"],
				"data": ["0x2a"],
				"block_number": 1027,
				"transaction_hash": "0x6"
			},
			"subscription_id": 8
		}
	}`
	require.NoError(t, s.handleMessage([]byte(msg)))
	require.Equal(t, []uint64{40}, epochs)
}

func TestHandleReorg(t *testing.T) {
	s := testService(func(uint64) {})

	msg := `{
		"jsonrpc": "2.0",
		"method": "starknet_subscriptionReorg",
		"params": {
			"result": {
				"starting_block_number": 20,
				"starting_block_hash": "0xdead",
				"ending_block_number": 30,
				"ending_block_hash": "0xbeef"
			},
			"subscription_id": 9
		}
	}`
	require.NoError(t, s.handleMessage([]byte(msg)))
}

func TestHandleUnknownMethod(t *testing.T) {
	s := testService(func(uint64) {})

	msg := `{"jsonrpc": "2.0", "method": "starknet_subscriptionUnknown", "params": {}}`
	require.Error(t, s.handleMessage([]byte(msg)))
}
