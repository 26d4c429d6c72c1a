// Package sensor provides the heading and range collaborators the scan loop
// reads from, plus the I2C bus they hang off. The drivers here simulate a
// QMC5883L compass and a VL53L0X time-of-flight sensor on a rotating mount.
package sensor

import (
	"errors"
	"fmt"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/logger"
)

var (
	// ErrNack means nothing acknowledged the address.
	ErrNack = errors.New("i2c: address not acknowledged")
	// ErrDeviceNotFound is returned by Begin when a driver's chip is missing.
	ErrDeviceNotFound = errors.New("device not found")
)

var knownDevices = map[uint8]string{
	config.AddrCompass:     "QMC5883L",
	0x1E:                   "HMC5883L",
	config.AddrRangefinder: "VL53L0X",
	config.AddrDisplay:     "SSD1306",
}

// DeviceName returns the usual part at addr, or "".
func DeviceName(addr uint8) string {
	return knownDevices[addr]
}

// Bus answers address probes the way an empty I2C write transaction does.
type Bus interface {
	Probe(addr uint8) error
}

// SimBus is an in-memory bus with a fixed set of responding addresses.
type SimBus struct {
	devices map[uint8]error
}

// NewSimBus creates a bus where every addr in present acknowledges.
func NewSimBus(present ...uint8) *SimBus {
	b := &SimBus{devices: make(map[uint8]error)}
	for _, a := range present {
		b.devices[a] = nil
	}
	return b
}

// Fault makes addr answer with err instead of an ACK.
func (b *SimBus) Fault(addr uint8, err error) {
	b.devices[addr] = err
}

// Remove detaches addr from the bus.
func (b *SimBus) Remove(addr uint8) {
	delete(b.devices, addr)
}

func (b *SimBus) Probe(addr uint8) error {
	err, ok := b.devices[addr]
	if !ok {
		return ErrNack
	}
	return err
}

// ScanBus probes every 7-bit address from 0x01 to 0x7E and returns the ones
// that acknowledged, logging each find and every unexpected error.
func ScanBus(bus Bus) []uint8 {
	log := logger.With("i2c")
	log.Info().Msg("scanning i2c bus")

	var found []uint8
	for addr := uint8(1); addr < 127; addr++ {
		err := bus.Probe(addr)
		switch {
		case err == nil:
			log.Info().Str("addr", hexAddr(addr)).Str("device", DeviceName(addr)).Msg("i2c device found")
			found = append(found, addr)
		case errors.Is(err, ErrNack):
		default:
			log.Warn().Err(err).Str("addr", hexAddr(addr)).Msg("unknown error at address")
		}
	}

	if len(found) == 0 {
		log.Warn().Msg("no i2c devices found")
	} else {
		log.Info().Int("devices", len(found)).Msg("scan complete")
	}
	return found
}

func hexAddr(addr uint8) string {
	return fmt.Sprintf("0x%02X", addr)
}

func probe(bus Bus, addr uint8, part string) error {
	if err := bus.Probe(addr); err != nil {
		return fmt.Errorf("%s at %s: %w: %w", part, hexAddr(addr), ErrDeviceNotFound, err)
	}
	return nil
}
