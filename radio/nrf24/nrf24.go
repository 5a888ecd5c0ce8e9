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

// Package nrf24 provides an nRF24L01+ implementation of the
// rfbridge.RadioDevice interface over SPI.
package nrf24

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	rfbridge "github.com/rfbridge-project/go-rfbridge"
	"github.com/rfbridge-project/go-rfbridge/internal/frame"
	"github.com/rfbridge-project/go-rfbridge/internal/syncutil"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// defaultFreq keeps a wide margin under the chip's 10 MHz SPI limit
	defaultFreq = 1 * physic.MegaHertz
	mode        = spi.Mode0 // CPOL=0, CPHA=0

	powerUpDelay   = 5 * time.Millisecond
	cePulseWidth   = 15 * time.Microsecond
	txPollInterval = 100 * time.Microsecond
	rxPollInterval = 1 * time.Millisecond
	txTimeout      = 100 * time.Millisecond
)

// Device drives an nRF24L01+ transceiver over SPI with a GPIO chip
// enable line. It implements rfbridge.RadioDevice.
type Device struct {
	port     spi.PortCloser
	conn     spi.Conn
	ce       gpio.PinOut
	portName string
	address  uint32
	mu       syncutil.Mutex
	mode     rfbridge.RadioMode
	packetID byte
}

// Option configures a Device during construction
type Option func(*options)

type options struct {
	freq physic.Frequency
}

// WithSPIFrequency overrides the default SPI bus speed.
func WithSPIFrequency(freq physic.Frequency) Option {
	return func(o *options) { o.freq = freq }
}

// New opens the SPI port and CE pin and powers the radio up in receive
// mode with CRC enabled and 4-byte addressing.
func New(spiPort, cePin string, opts ...Option) (*Device, error) {
	o := &options{freq: defaultFreq}
	for _, opt := range opts {
		opt(o)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", spiPort, err)
	}

	conn, err := port.Connect(o.freq, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	ce := gpioreg.ByName(cePin)
	if ce == nil {
		_ = port.Close()
		return nil, fmt.Errorf("CE pin %s not found", cePin)
	}
	if err := ce.Out(gpio.Low); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to drive CE low: %w", err)
	}

	d := &Device{
		port:     port,
		conn:     conn,
		ce:       ce,
		portName: spiPort,
		mode:     rfbridge.ModeReceive,
	}

	if err := d.powerUp(); err != nil {
		_ = port.Close()
		return nil, err
	}

	return d, nil
}

// powerUp brings the chip out of power down with the bridge's fixed RF
// settings.
func (d *Device) powerUp() error {
	if err := d.writeRegister(regConfig, configEnCRC|configCRCO|configPwrUp|configPrimRx); err != nil {
		return err
	}
	if err := d.writeRegister(regSetupAW, setupAW4Bytes); err != nil {
		return err
	}
	if err := d.writeRegister(regRxPwP0, payloadSize); err != nil {
		return err
	}
	if err := d.command(cmdFlushTx); err != nil {
		return err
	}
	if err := d.command(cmdFlushRx); err != nil {
		return err
	}
	// Clear any interrupt flags left from a previous session
	if err := d.writeRegister(regStatus, statusRxDR|statusTxDS|statusMaxRT); err != nil {
		return err
	}

	time.Sleep(powerUpDelay)
	return nil
}

// SetChannel implements rfbridge.RadioDevice. Channel n transmits at
// 2400+n MHz.
func (d *Device) SetChannel(channel uint8) error {
	if channel > rfbridge.MaxChannel {
		return fmt.Errorf("%w: %d", rfbridge.ErrChannelRange, channel)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRegister(regRFChannel, channel)
}

// SetAddress implements rfbridge.RadioDevice. The same address is loaded
// into the transmit pipe and receive pipe 0 so the auto-acknowledge path
// works in both modes.
func (d *Device) SetAddress(address uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var addr [4]byte
	binary.LittleEndian.PutUint32(addr[:], address)

	if err := d.writeRegisterBytes(regRxAddrP0, addr[:]); err != nil {
		return err
	}
	if err := d.writeRegisterBytes(regTxAddr, addr[:]); err != nil {
		return err
	}
	d.address = address
	return nil
}

// SetMode implements rfbridge.RadioDevice. Receive mode holds CE high to
// keep the radio listening; transmit mode idles with CE low and pulses it
// per payload.
func (d *Device) SetMode(radioMode rfbridge.RadioMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setModeLocked(radioMode)
}

func (d *Device) setModeLocked(radioMode rfbridge.RadioMode) error {
	cfg, err := d.readRegister(regConfig)
	if err != nil {
		return err
	}

	switch radioMode {
	case rfbridge.ModeReceive:
		cfg |= configPrimRx
	case rfbridge.ModeTransmit:
		cfg &^= configPrimRx
	default:
		return fmt.Errorf("unknown radio mode %d", radioMode)
	}

	if err := d.writeRegister(regConfig, cfg); err != nil {
		return err
	}

	var level gpio.Level
	if radioMode == rfbridge.ModeReceive {
		level = gpio.High
	}
	if err := d.ce.Out(level); err != nil {
		return fmt.Errorf("failed to drive CE: %w", err)
	}

	d.mode = radioMode
	return nil
}

// Transmit implements rfbridge.RadioDevice. Payloads wider than the
// radio FIFO are split into fixed-size frames, zero padded at the tail.
func (d *Device) Transmit(payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mode != rfbridge.ModeTransmit {
		if err := d.setModeLocked(rfbridge.ModeTransmit); err != nil {
			return err
		}
	}

	for off := 0; off < len(payload); off += payloadSize {
		end := off + payloadSize
		if end > len(payload) {
			end = len(payload)
		}
		if err := d.transmitFrame(payload[off:end]); err != nil {
			return err
		}
	}
	return nil
}

// transmitFrame pushes one FIFO-sized frame and waits for the data-sent
// flag.
func (d *Device) transmitFrame(part []byte) error {
	if preview, err := frame.Preview(d.address&frame.MaxAddress, d.packetID, part); err == nil {
		rfbridge.Debugf("air frame 0x%016X (%d bytes)", preview, len(part))
	}
	d.packetID = (d.packetID + 1) & 0x03

	buf := make([]byte, 1+payloadSize)
	buf[0] = cmdWriteTxPload
	copy(buf[1:], part)
	if err := d.tx(buf); err != nil {
		return err
	}

	// CE pulse of at least 10us starts the transmission
	if err := d.ce.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to pulse CE: %w", err)
	}
	time.Sleep(cePulseWidth)
	if err := d.ce.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to release CE: %w", err)
	}

	deadline := time.Now().Add(txTimeout)
	for {
		status, err := d.readStatus()
		if err != nil {
			return err
		}

		if status&statusMaxRT != 0 {
			_ = d.command(cmdFlushTx)
			_ = d.writeRegister(regStatus, statusMaxRT)
			return rfbridge.ErrRadioMaxRetries
		}
		if status&statusTxDS != 0 {
			return d.writeRegister(regStatus, statusTxDS)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: no TX_DS within %v", rfbridge.ErrTransportTimeout, txTimeout)
		}
		time.Sleep(txPollInterval)
	}
}

// Receive implements rfbridge.RadioDevice. It polls the data-ready flag
// until a payload arrives or ctx is cancelled.
func (d *Device) Receive(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mode != rfbridge.ModeReceive {
		if err := d.setModeLocked(rfbridge.ModeReceive); err != nil {
			return nil, err
		}
	}

	for {
		status, err := d.readStatus()
		if err != nil {
			return nil, err
		}

		if status&statusRxDR != 0 {
			return d.readPayload()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(rxPollInterval):
		}
	}
}

// readPayload pulls one frame out of the RX FIFO and clears the
// data-ready flag.
func (d *Device) readPayload() ([]byte, error) {
	buf := make([]byte, 1+payloadSize)
	buf[0] = cmdReadRxPayload
	rx := make([]byte, len(buf))
	if err := d.conn.Tx(buf, rx); err != nil {
		return nil, fmt.Errorf("SPI payload read failed: %w", err)
	}

	if err := d.writeRegister(regStatus, statusRxDR); err != nil {
		return nil, err
	}

	payload := make([]byte, payloadSize)
	copy(payload, rx[1:])
	return payload, nil
}

// Close powers the radio down and releases the bus.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		return nil
	}

	_ = d.ce.Out(gpio.Low)
	if cfg, err := d.readRegister(regConfig); err == nil {
		_ = d.writeRegister(regConfig, cfg&^configPwrUp)
	}

	port := d.port
	d.port = nil
	if err := port.Close(); err != nil {
		return fmt.Errorf("SPI close failed: %w", err)
	}
	return nil
}

// Register access helpers

func (d *Device) tx(w []byte) error {
	rx := make([]byte, len(w))
	if err := d.conn.Tx(w, rx); err != nil {
		return fmt.Errorf("SPI transfer failed: %w", err)
	}
	return nil
}

func (d *Device) command(cmd byte) error {
	return d.tx([]byte{cmd})
}

func (d *Device) writeRegister(reg, value byte) error {
	return d.tx([]byte{cmdWriteRegister | reg, value})
}

func (d *Device) writeRegisterBytes(reg byte, values []byte) error {
	buf := make([]byte, 1+len(values))
	buf[0] = cmdWriteRegister | reg
	copy(buf[1:], values)
	return d.tx(buf)
}

func (d *Device) readRegister(reg byte) (byte, error) {
	w := []byte{cmdReadRegister | reg, cmdNop}
	rx := make([]byte, len(w))
	if err := d.conn.Tx(w, rx); err != nil {
		return 0, fmt.Errorf("SPI register read failed: %w", err)
	}
	return rx[1], nil
}

// readStatus reads the STATUS register, shifted out while the NOP
// command goes in.
func (d *Device) readStatus() (byte, error) {
	w := []byte{cmdNop}
	rx := make([]byte, 1)
	if err := d.conn.Tx(w, rx); err != nil {
		return 0, fmt.Errorf("SPI status read failed: %w", err)
	}
	return rx[0], nil
}

// Ensure Device implements rfbridge.RadioDevice
var _ rfbridge.RadioDevice = (*Device)(nil)
