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

// rfsend is the host-side counterpart of the bridge firmware: it sends a
// file to a connected bridge over serial for transfer across the radio
// link.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	rfbridge "github.com/rfbridge-project/go-rfbridge"
	"github.com/rfbridge-project/go-rfbridge/transport/uart"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	portFlag    string
	baudFlag    int
	channelFlag uint8
	addressFlag uint32
	timeoutFlag time.Duration
	debugFlag   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rfsend",
		Short: "Send files to an rfbridge device over serial",
		Long: `rfsend transfers a file to a connected rfbridge device. The bridge
forwards the file over its nRF24L01+ radio to the receiving station.

The radio channel and address you pass here are relayed to the bridge
during the configuration handshake, before any file data moves.`,
	}

	sendCmd := &cobra.Command{
		Use:   "send <file>",
		Short: "Send a file through the bridge",
		Args:  cobra.ExactArgs(1),
		RunE:  runSend,
	}
	sendCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Serial port (auto-detect if not specified)")
	sendCmd.Flags().IntVarP(&baudFlag, "baud", "b", rfbridge.DefaultBaudRate, "Baud rate")
	sendCmd.Flags().Uint8VarP(&channelFlag, "channel", "c", 76, "Radio channel (0-124)")
	sendCmd.Flags().Uint32VarP(&addressFlag, "address", "a", 0xE7E7E7E7, "Radio address")
	sendCmd.Flags().DurationVar(&timeoutFlag, "timeout", 10*time.Second, "Per-handshake timeout")
	sendCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug output")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available serial ports",
		RunE:  runList,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("rfsend %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}

	rootCmd.AddCommand(sendCmd, listCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSend(_ *cobra.Command, args []string) error {
	filePath := args[0]

	if debugFlag {
		rfbridge.SetDebugEnabled(true)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	fmt.Printf("File: %s (%d bytes)\n", filePath, len(data))

	portName := portFlag
	if portName == "" {
		portName, err = detectPort()
		if err != nil {
			return err
		}
		fmt.Printf("Using %s\n", portName)
	}

	transport, err := uart.New(portName, uart.WithBaudRate(baudFlag))
	if err != nil {
		return err
	}
	defer func() { _ = transport.Close() }()

	var config rfbridge.RadioConfig
	config.Channel = channelFlag
	config.Address = addressFlag
	if err := config.SetExtension(fileExtension(filePath)); err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(data),
		progressbar.OptionSetDescription("Sending"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	sender, err := rfbridge.NewSender(transport, config,
		rfbridge.WithHandshakeTimeout(timeoutFlag),
		rfbridge.WithProgressCallback(func(sent, _ int) {
			_ = bar.Set(sent)
		}),
	)
	if err != nil {
		return err
	}

	if err := sender.Send(context.Background(), data); err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}

	_ = bar.Finish()
	fmt.Printf("Sent %d bytes on channel %d to 0x%08X\n", len(data), config.Channel, config.Address)
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	ports, err := uart.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

// detectPort picks the only available serial port, or fails when the
// choice is ambiguous.
func detectPort() (string, error) {
	ports, err := uart.ListPorts()
	if err != nil {
		return "", err
	}
	switch len(ports) {
	case 0:
		return "", fmt.Errorf("no serial ports found; specify one with --port")
	case 1:
		return ports[0], nil
	default:
		return "", fmt.Errorf("multiple serial ports found (%s); specify one with --port",
			strings.Join(ports, ", "))
	}
}

// fileExtension returns the extension without the leading dot, the way
// the bridge expects it in the configuration record.
func fileExtension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
