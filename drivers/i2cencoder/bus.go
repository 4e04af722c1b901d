package i2cencoder

import (
	"encoding/binary"
	"math"
)

// I2C register transactions. Reads are a one-byte register write followed by
// a repeated-start read of the register contents; writes are a single write
// of [reg, payload...]. Multi-byte values are big-endian, MSB first.
// Bus errors propagate unchanged; there are no retries here.

func (d *Device) writeReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.i2c.Tx(d.addr, d.w[:2], nil)
}

// writeReg24 writes the low 3 bytes of val. The top byte is discarded.
func (d *Device) writeReg24(reg byte, val int32) error {
	d.w[0] = reg
	d.w[1] = byte(val >> 16)
	d.w[2] = byte(val >> 8)
	d.w[3] = byte(val)
	return d.i2c.Tx(d.addr, d.w[:4], nil)
}

func (d *Device) writeReg32(reg byte, val int32) error {
	d.w[0] = reg
	binary.BigEndian.PutUint32(d.w[1:5], uint32(val))
	return d.i2c.Tx(d.addr, d.w[:5], nil)
}

func (d *Device) writeRegFloat(reg byte, val float32) error {
	d.w[0] = reg
	binary.BigEndian.PutUint32(d.w[1:5], math.Float32bits(val))
	return d.i2c.Tx(d.addr, d.w[:5], nil)
}

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) readReg16(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(d.r[:2]), nil
}

func (d *Device) readReg24(reg byte) (uint32, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:3]); err != nil {
		return 0, err
	}
	return uint32(d.r[0])<<16 | uint32(d.r[1])<<8 | uint32(d.r[2]), nil
}

func (d *Device) readReg32(reg byte) (int32, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:4]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(d.r[:4])), nil
}

func (d *Device) readRegFloat(reg byte) (float32, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:4]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(d.r[:4])), nil
}
