// Package i2cencoder provides a TinyGo-compatible driver for the DuPPa
// I2C Encoder V2.1, a rotary encoder breakout with push button, RGB LED and
// three general-purpose pins behind a single I²C register file.
//
// Design notes (board firmware register map):
//   - I²C up to 400kHz; multi-byte registers are big-endian, MSB first.
//   - Every operation is one bus transaction: a write, or a write followed by
//     a repeated-start read. The driver never retries and never sleeps.
//   - The counter, thresholds and step are either int32 or IEEE-754 binary32
//     depending on the FloatData/IntData configuration flag.
//   - ESTATUS/I2STATUS are clear-on-read; UpdateStatus decodes them into the
//     registered callbacks.
//
// A Device is not safe for concurrent use. Exactly one goroutine should own
// it, matching the one-transaction-per-call bus discipline.
package i2cencoder

import (
	"tinygo.org/x/drivers"
)

// Callbacks holds the optional event hooks fired by UpdateStatus. Nil slots
// are skipped. A callback returning a non-nil error aborts the remainder of
// the current dispatch cycle; the error is returned by UpdateStatus.
type Callbacks struct {
	OnButtonRelease    func() error
	OnButtonPush       func() error
	OnButtonDoublePush func() error

	// OnIncrement and OnDecrement fire before OnChange when both are set.
	OnIncrement func() error
	OnDecrement func() error
	OnChange    func() error

	// OnMax and OnMin fire before OnMinMax when both are set.
	OnMax    func() error
	OnMin    func() error
	OnMinMax func() error

	OnGP1Rise func() error
	OnGP1Fall func() error
	OnGP2Rise func() error
	OnGP2Fall func() error
	OnGP3Rise func() error
	OnGP3Fall func() error

	OnFadeProcess func() error
}

// Device represents one encoder on an I²C bus.
type Device struct {
	i2c  drivers.I2C
	addr uint16

	// Callbacks may be repointed freely between UpdateStatus calls.
	Callbacks Callbacks

	gconf Config  // retained configuration word, drives EEPROM bank selection
	stat  Status  // last primary status observed by UpdateStatus
	stat2 Status2 // last secondary status observed by UpdateStatus

	// Fixed buffers to avoid per-call heap allocations.
	w [5]byte
	r [4]byte
}

// New constructs a Device bound to a configured bus and board address.
// It does not touch the hardware.
func New(i2c drivers.I2C, addr uint16) *Device {
	return &Device{
		i2c:  i2c,
		addr: addr,
	}
}

// Begin writes the configuration word (low byte to GCONF, high byte to
// GCONF2) and retains it for later EEPROM bank decisions.
func (d *Device) Begin(cfg Config) error {
	if err := d.writeReg(regGConf, byte(cfg)); err != nil {
		return err
	}
	if err := d.writeReg(regGConf2, byte(cfg>>8)); err != nil {
		return err
	}
	d.gconf = cfg
	return nil
}

// Reset restarts the board firmware. The board needs about 400µs before it
// accepts further transactions; the caller must provide that delay.
func (d *Device) Reset() error {
	return d.writeReg(regGConf, byte(Reset))
}

// ConfigWord returns the retained configuration word. It reflects the last
// Begin call plus any bank switches performed by the EEPROM accessors.
func (d *Device) ConfigWord() Config { return d.gconf }

// ReadIDCode returns the board identification code.
func (d *Device) ReadIDCode() (byte, error) { return d.readReg(regIDCode) }

// ReadVersion returns the board firmware version.
func (d *Device) ReadVersion() (byte, error) { return d.readReg(regVersion) }
