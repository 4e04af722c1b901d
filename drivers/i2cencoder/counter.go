package i2cencoder

// Counter, threshold and step accessors. Each value lives in a 4-byte
// register quad and is interpreted as int32 or binary32 float depending on
// the FloatData/IntData configuration flag; the driver performs no
// representation check, callers pick the variant matching their Begin word.
//
// No ordering validation is done on min/max: writing min > max is accepted
// and left to the board firmware.

// ReadCounter returns the running counter as a signed 32-bit integer.
func (d *Device) ReadCounter() (int32, error) { return d.readReg32(regCVal) }

// ReadCounterFloat returns the running counter as a float.
func (d *Device) ReadCounterFloat() (float32, error) { return d.readRegFloat(regCVal) }

// ReadCounter16 returns the low 16 bits of the counter quad.
func (d *Device) ReadCounter16() (int16, error) {
	v, err := d.readReg16(regCValB2)
	return int16(v), err
}

// ReadCounter8 returns the low byte of the counter quad.
func (d *Device) ReadCounter8() (int8, error) {
	v, err := d.readReg(regCValB1)
	return int8(v), err
}

// WriteCounter sets the running counter.
func (d *Device) WriteCounter(v int32) error { return d.writeReg32(regCVal, v) }

// WriteCounterFloat sets the running counter in float representation.
func (d *Device) WriteCounterFloat(v float32) error { return d.writeRegFloat(regCVal, v) }

// ReadMax returns the maximum threshold.
func (d *Device) ReadMax() (int32, error) { return d.readReg32(regCMax) }

// ReadMaxFloat returns the maximum threshold in float representation.
func (d *Device) ReadMaxFloat() (float32, error) { return d.readRegFloat(regCMax) }

// WriteMax sets the maximum threshold.
func (d *Device) WriteMax(v int32) error { return d.writeReg32(regCMax, v) }

// WriteMaxFloat sets the maximum threshold in float representation.
func (d *Device) WriteMaxFloat(v float32) error { return d.writeRegFloat(regCMax, v) }

// ReadMin returns the minimum threshold.
func (d *Device) ReadMin() (int32, error) { return d.readReg32(regCMin) }

// ReadMinFloat returns the minimum threshold in float representation.
func (d *Device) ReadMinFloat() (float32, error) { return d.readRegFloat(regCMin) }

// WriteMin sets the minimum threshold.
func (d *Device) WriteMin(v int32) error { return d.writeReg32(regCMin, v) }

// WriteMinFloat sets the minimum threshold in float representation.
func (d *Device) WriteMinFloat(v float32) error { return d.writeRegFloat(regCMin, v) }

// ReadStep returns the per-detent increment.
func (d *Device) ReadStep() (int32, error) { return d.readReg32(regIStep) }

// ReadStepFloat returns the per-detent increment in float representation.
func (d *Device) ReadStepFloat() (float32, error) { return d.readRegFloat(regIStep) }

// WriteStep sets the per-detent increment.
func (d *Device) WriteStep(v int32) error { return d.writeReg32(regIStep, v) }

// WriteStepFloat sets the per-detent increment in float representation.
func (d *Device) WriteStepFloat(v float32) error { return d.writeRegFloat(regIStep, v) }
