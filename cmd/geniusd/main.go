// Copyright 2026 The Genius Authors
//
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
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/GeniusVentures/geniuscore/internal/config"
	"github.com/GeniusVentures/geniuscore/internal/fixedpoint"
	"github.com/GeniusVentures/geniuscore/internal/logging"
	"github.com/GeniusVentures/geniuscore/internal/node"
	_ "go.uber.org/automaxprocs"
)

const (
	programName    = "geniusd"
	versionString  = "1.0.0"
	defaultNetwork = "963"
)

var cmdlineFlags struct {
	configFile string
	version    bool
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.BoolVar(&cmdlineFlags.version, "version", false, "show version")
	flag.Parse()

	if cmdlineFlags.version {
		fmt.Printf("%s %s\n", programName, versionString)
		os.Exit(0)
	}

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	logging.Configure()
	logger := logging.GetLogger()

	// Start debug listener
	if cfg.Debug.ListenPort > 0 {
		logger.Info("starting debug listener", "address", cfg.Debug.ListenAddress, "port", cfg.Debug.ListenPort)
		go func() {
			addr := fmt.Sprintf("%s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort)
			if err := http.ListenAndServe(addr, nil); err != nil {
				logger.Error("debug listener failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	networkID := cfg.NetworkID
	if networkID == "" {
		networkID = defaultNetwork
	}

	tokenValueInNative, err := fixedpoint.FromString(cfg.TokenValueInNative, 6)
	if err != nil {
		logger.Error("invalid tokenValueInNative", "value", cfg.TokenValueInNative, "error", err)
		os.Exit(1)
	}

	n, err := node.New(node.Config{
		NetworkID:              networkID,
		BaseWritePath:          cfg.BaseWritePath,
		DevAddress:             cfg.DevAddress,
		PeersCutFP:             cfg.PeersCut,
		TokenValueInNative:     tokenValueInNative,
		TokenValueInNativePrec: 6,
		AutoDHT:                cfg.AutoDHT,
		BasePort:               int(cfg.BasePort),
	})
	if err != nil {
		logger.Error("failed to assemble node", "error", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		logger.Error("failed to start node", "error", err)
		os.Exit(1)
	}
	logger.Info("node started", "address", n.Address(), "network", networkID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	n.Stop()
}
