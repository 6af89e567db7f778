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

package websocket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	gorilla "github.com/gorilla/websocket"
	"github.com/stakewatch/sentinel/services/blockstream/websocket"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params []websocket.Parameter
		err    string
	}{
		{
			name: "AddressMissing",
			params: []websocket.Parameter{
				websocket.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
				websocket.WithStakerAddress(new(felt.Felt).SetUint64(99)),
				websocket.WithEventHandler(func(uint64) {}),
			},
			err: "problem with parameters: no address specified",
		},
		{
			name: "AttestationContractMissing",
			params: []websocket.Parameter{
				websocket.WithAddress("ws://localhost:1"),
				websocket.WithStakerAddress(new(felt.Felt).SetUint64(99)),
				websocket.WithEventHandler(func(uint64) {}),
			},
			err: "problem with parameters: no attestation contract specified",
		},
		{
			name: "StakerAddressMissing",
			params: []websocket.Parameter{
				websocket.WithAddress("ws://localhost:1"),
				websocket.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
				websocket.WithEventHandler(func(uint64) {}),
			},
			err: "problem with parameters: no staker address specified",
		},
		{
			name: "EventHandlerMissing",
			params: []websocket.Parameter{
				websocket.WithAddress("ws://localhost:1"),
				websocket.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
				websocket.WithStakerAddress(new(felt.Felt).SetUint64(99)),
			},
			err: "problem with parameters: no event handler specified",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			_, err := websocket.New(ctx, test.params...)
			require.EqualError(t, err, test.err)
		})
	}
}

func TestSubscriptions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventKey := utils.GetSelectorFromNameFelt("StakerAttestationSuccessful").String()

	upgrader := gorilla.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		require.NoError(t, json.Unmarshal(data, &req))
		require.NoError(t, conn.WriteJSON(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": 7}))

		switch req.Method {
		case "starknet_subscribeNewHeads":
			require.NoError(t, conn.WriteJSON(map[string]any{
				"jsonrpc": "2.0",
				"method":  "starknet_subscriptionNewHeads",
				"params": map[string]any{
					"result":          map[string]any{"block_hash": "0xabc", "block_number": 1023},
					"subscription_id": 7,
				},
			}))
		case "starknet_subscribeEvents":
			require.NoError(t, conn.WriteJSON(map[string]any{
				"jsonrpc": "2.0",
				"method":  "starknet_subscriptionEvents",
				"params": map[string]any{
					"result": map[string]any{
						"from_address":     "0xcc",
						"keys":             []string{eventKey, "0x63"},
						"data":             []string{"0x28"},
						"block_number":     1025,
						"transaction_hash": "0x4",
					},
					"subscription_id": 7,
				},
			}))
		}

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	epochs := make(chan uint64, 1)
	s, err := websocket.New(ctx,
		websocket.WithAddress("ws"+strings.TrimPrefix(srv.URL, "http")),
		websocket.WithAttestationContract(new(felt.Felt).SetUint64(0xcc)),
		websocket.WithStakerAddress(new(felt.Felt).SetUint64(99)),
		websocket.WithEventHandler(func(epochID uint64) {
			epochs <- epochID
		}),
	)
	require.NoError(t, err)

	select {
	case <-s.Notifications():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for header")
	}
	header, ok := s.Latest()
	require.True(t, ok)
	require.Equal(t, uint64(1023), header.Number)

	select {
	case epochID := <-epochs:
		require.Equal(t, uint64(40), epochID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
