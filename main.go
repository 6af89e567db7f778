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

// sentinel is an unattended agent that attests on behalf of a StarkNet
// validator, once per epoch, at its pseudo-randomly assigned block.
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	zerologger "github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ReleaseVersion is the release version of the codebase.
var ReleaseVersion = "0.3.0"

func main() {
	os.Exit(main2())
}

func main2() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := fetchConfig(); err != nil {
		zerologger.Error().Err(err).Msg("Failed to fetch configuration")
		return 1
	}

	if err := initLogging(); err != nil {
		zerologger.Error().Err(err).Msg("Failed to initialise logging")
		return 1
	}

	initProfiling()

	log.Info().Str("version", ReleaseVersion).Msg("Starting sentinel")

	if err := startServices(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start services")
		return 1
	}
	log.Info().Msg("All services operational")

	<-ctx.Done()
	log.Info().Msg("Stopping sentinel")

	return 0
}

// fetchConfig fetches configuration from various sources.
func fetchConfig() error {
	pflag.String("base-dir", "", "base directory for sentinel")
	pflag.String("log-level", "info", "minimum level of messages to log")
	pflag.String("config", "", "path to the configuration file")
	pflag.String("profile-address", "", "address on which to run the profile server")
	pflag.String("staker.operational-address", "", "operational address of the validator")
	pflag.String("node.http-url", "", "HTTP URL of the node's JSON-RPC API")
	pflag.String("node.ws-url", "", "websocket URL of the node's JSON-RPC API")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return fmt.Errorf("failed to bind pflags to viper: %w", err)
	}

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("failed to obtain home directory: %w", err)
		}

		// Search config in home directory with name ".sentinel" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".sentinel")
	}

	viper.SetEnvPrefix("SENTINEL")
	viper.AutomaticEnv() // read in environment variables that match

	viper.SetDefault("timeout", 10*time.Second)
	viper.SetDefault("chain-id", "SN_MAIN")
	viper.SetDefault("network", "mainnet")
	viper.SetDefault("node.http-url", "http://127.0.0.1:9545/rpc/v0_8")
	viper.SetDefault("staking-contract", "0x034370fc9931c636ab07b16ada82d60f05d32993943debe2376847e0921c1162")
	viper.SetDefault("attestation-contract", "0x04862e05d00f2d0981c4a912269c21ad99438598ab86b6e70d1cee267caaa78d")
	viper.SetDefault("strk-token", "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d")
	viper.SetDefault("min-attestation-window", 10)
	viper.SetDefault("signer.type", "local")
	viper.SetDefault("tip.boost", "1.5")
	viper.SetDefault("tip.minimum", 0)
	viper.SetDefault("confirmer.poll-interval", 5*time.Second)
	viper.SetDefault("controller.resubmit-delay", 10)
	viper.SetDefault("blockstream.restart-delay", 5*time.Second)
	viper.SetDefault("blockstream.poll-interval", 5*time.Second)
	viper.SetDefault("accountmanager.balance-interval", time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	return nil
}

// initProfiling initialises the profiling server.
func initProfiling() {
	profileAddress := viper.GetString("profile-address")
	if profileAddress != "" {
		go func() {
			runtime.SetMutexProfileFraction(1)
			if err := http.ListenAndServe(profileAddress, nil); err != nil {
				log.Warn().Str("profile_address", profileAddress).Err(err).Msg("Failed to start profile server")
			}
		}()
	}
}
