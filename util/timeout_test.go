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

package util_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stakewatch/sentinel/util"
	"gotest.tools/assert"
)

func TestTimeout(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		path    string
		timeout time.Duration
	}{
		{
			name: "Default",
			vars: map[string]string{
				"timeout": "2s",
			},
			path:    "",
			timeout: 2 * time.Second,
		},
		{
			name: "Inherited",
			vars: map[string]string{
				"timeout": "2s",
			},
			path:    "chainclient",
			timeout: 2 * time.Second,
		},
		{
			name: "Overridden",
			vars: map[string]string{
				"timeout":             "2s",
				"chainclient.timeout": "10s",
			},
			path:    "chainclient",
			timeout: 10 * time.Second,
		},
		{
			name: "MultiLevelInherited",
			vars: map[string]string{
				"timeout":        "2s",
				"signer.timeout": "30s",
			},
			path:    "signer.remote",
			timeout: 30 * time.Second,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range test.vars {
				viper.Set(k, v)
			}
			assert.Equal(t, test.timeout, util.Timeout(test.path))
		})
	}
}
