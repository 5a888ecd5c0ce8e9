// Copyright 2026 The RFBridge Project Contributors.
// SPDX-License-Identifier: Apache-2.0
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

// bridged runs the serial bridge loop: it waits for a host on the serial
// port, decodes the configuration handshake and relays the file to or
// from an nRF24L01+ radio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rfbridge "github.com/rfbridge-project/go-rfbridge"
	"github.com/rfbridge-project/go-rfbridge/radio/nrf24"
	"github.com/rfbridge-project/go-rfbridge/transport/uart"
)

type config struct {
	serialPort  string
	spiPort     string
	cePin       string
	controlPort string
	download    bool
	debug       bool
}

// Package-level flag variables
var (
	flagSerialPort  string
	flagSPIPort     string
	flagCEPin       string
	flagControlPort string
	flagDownload    bool
	flagDebug       bool
)

func init() {
	flag.StringVar(&flagSerialPort, "port", "/dev/ttyUSB0", "Serial port connected to the host")
	flag.StringVar(&flagSPIPort, "spi", "/dev/spidev0.0", "SPI port of the nRF24L01+ radio")
	flag.StringVar(&flagCEPin, "ce", "GPIO25", "CE pin of the nRF24L01+ radio")
	flag.StringVar(&flagControlPort, "control", "", "Control port of the radio-control chip (optional)")
	flag.BoolVar(&flagDownload, "download", false, "Relay radio payloads to the host instead of uploading")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig() *config {
	cfg := &config{
		serialPort:  flagSerialPort,
		spiPort:     flagSPIPort,
		cePin:       flagCEPin,
		controlPort: flagControlPort,
		download:    flagDownload,
		debug:       flagDebug,
	}

	if cfg.debug {
		rfbridge.SetDebugEnabled(true)
	}

	return cfg
}

func run(cfg *config) error {
	transport, err := uart.New(cfg.serialPort)
	if err != nil {
		return fmt.Errorf("open serial port: %w", err)
	}
	defer func() { _ = transport.Close() }()

	radio, err := nrf24.New(cfg.spiPort, cfg.cePin)
	if err != nil {
		return fmt.Errorf("open radio: %w", err)
	}
	defer func() { _ = radio.Close() }()

	direction := rfbridge.DirectionUpload
	if cfg.download {
		direction = rfbridge.DirectionDownload
	}

	session, err := rfbridge.NewSession(transport, rfbridge.WithDirection(direction))
	if err != nil {
		return err
	}

	var bridgeOpts []rfbridge.BridgeOption
	if cfg.controlPort != "" {
		control, err := uart.New(cfg.controlPort)
		if err != nil {
			return fmt.Errorf("open control port: %w", err)
		}
		defer func() { _ = control.Close() }()

		modeSignal, err := rfbridge.NewCommandSignal(control)
		if err != nil {
			return err
		}
		bridgeOpts = append(bridgeOpts, rfbridge.WithModeSignal(modeSignal))
	}

	bridge, err := rfbridge.NewBridge(session, radio, bridgeOpts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Bridging %s <-> %s (%s)\n", cfg.serialPort, cfg.spiPort, direction)
	if err := bridge.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	cfg2 := session.Config()
	fmt.Printf("Transfer complete: channel=%d address=0x%08X extension=%q\n",
		cfg2.Channel, cfg2.Address, cfg2.ExtensionString())
	return nil
}

func main() {
	flag.Parse()
	cfg := parseConfig()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
