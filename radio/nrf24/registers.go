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

package nrf24

// SPI command bytes (nRF24L01+ data sheet, section 8). Each command
// starts with a high to low transition on CSN; the bus driver handles
// chip select for us.
const (
	cmdReadRegister  = 0x00 // OR with register address
	cmdWriteRegister = 0x20 // OR with register address
	cmdReadRxPayload = 0x61
	cmdWriteTxPload  = 0xA0
	cmdFlushTx       = 0xE1
	cmdFlushRx       = 0xE2
	cmdNop           = 0xFF
)

// Register addresses
const (
	regConfig     = 0x00
	regEnAA       = 0x01
	regEnRxAddr   = 0x02
	regSetupAW    = 0x03
	regSetupRetr  = 0x04
	regRFChannel  = 0x05
	regRFSetup    = 0x06
	regStatus     = 0x07
	regObserveTx  = 0x08
	regRxAddrP0   = 0x0A
	regTxAddr     = 0x10
	regRxPwP0     = 0x11
	regFifoStatus = 0x17
	regDynPd      = 0x1C
	regFeature    = 0x1D
)

// CONFIG register bits
const (
	// configPrimRx selects RX/TX control: 1 = primary receiver, 0 =
	// primary transmitter.
	configPrimRx = 1 << 0
	// configPwrUp enables power up mode; register values stay accessible
	// over SPI either way.
	configPwrUp = 1 << 1
	// configCRCO selects the 2-byte CRC encoding scheme.
	configCRCO = 1 << 2
	// configEnCRC enables CRC, used by the RF layer for error detection.
	configEnCRC = 1 << 3
)

// STATUS register bits
const (
	statusTxFull = 1 << 0
	statusMaxRT  = 1 << 4
	statusTxDS   = 1 << 5
	statusRxDR   = 1 << 6
)

// FIFO_STATUS register bits
const (
	fifoRxEmpty = 1 << 0
	fifoTxEmpty = 1 << 4
)

// setupAW4Bytes configures 4-byte address pipes, matching the 4-byte
// address field of the bridge's configuration record.
const setupAW4Bytes = 0x02

// payloadSize is the static payload width of the radio FIFO. Chunks are
// relayed as a series of these.
const payloadSize = 32
