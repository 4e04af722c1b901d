package i2cencoder

// RGB LED, general-purpose pin and timing registers.

// ReadLEDR returns the red channel PWM duty.
func (d *Device) ReadLEDR() (uint8, error) { return d.readReg(regRLed) }

// ReadLEDG returns the green channel PWM duty.
func (d *Device) ReadLEDG() (uint8, error) { return d.readReg(regGLed) }

// ReadLEDB returns the blue channel PWM duty.
func (d *Device) ReadLEDB() (uint8, error) { return d.readReg(regBLed) }

// WriteLEDR sets the red channel PWM duty.
func (d *Device) WriteLEDR(v uint8) error { return d.writeReg(regRLed, v) }

// WriteLEDG sets the green channel PWM duty.
func (d *Device) WriteLEDG(v uint8) error { return d.writeReg(regGLed, v) }

// WriteLEDB sets the blue channel PWM duty.
func (d *Device) WriteLEDB(v uint8) error { return d.writeReg(regBLed, v) }

// WriteRGBCode sets all three channels in one transaction from a packed
// 0xRRGGBB code. The top byte of the input is discarded.
func (d *Device) WriteRGBCode(rgb uint32) error { return d.writeReg24(regRLed, int32(rgb)) }

// ReadRGBCode returns the three channels packed as 0xRRGGBB.
func (d *Device) ReadRGBCode() (uint32, error) { return d.readReg24(regRLed) }

// WriteGammaRLED selects the gamma curve for the red channel.
func (d *Device) WriteGammaRLED(g Gamma) error { return d.writeReg(regGammaRLed, byte(g)) }

// WriteGammaGLED selects the gamma curve for the green channel.
func (d *Device) WriteGammaGLED(g Gamma) error { return d.writeReg(regGammaGLed, byte(g)) }

// WriteGammaBLED selects the gamma curve for the blue channel.
func (d *Device) WriteGammaBLED(g Gamma) error { return d.writeReg(regGammaBLed, byte(g)) }

// WriteGammaGP1 selects the gamma curve for GP1 in PWM mode.
func (d *Device) WriteGammaGP1(g Gamma) error { return d.writeReg(regGammaGP1, byte(g)) }

// WriteGammaGP2 selects the gamma curve for GP2 in PWM mode.
func (d *Device) WriteGammaGP2(g Gamma) error { return d.writeReg(regGammaGP2, byte(g)) }

// WriteGammaGP3 selects the gamma curve for GP3 in PWM mode.
func (d *Device) WriteGammaGP3(g Gamma) error { return d.writeReg(regGammaGP3, byte(g)) }

// ReadGP1Conf returns the GP1 pin configuration.
func (d *Device) ReadGP1Conf() (GPConf, error) {
	v, err := d.readReg(regGP1Conf)
	return GPConf(v), err
}

// ReadGP2Conf returns the GP2 pin configuration.
func (d *Device) ReadGP2Conf() (GPConf, error) {
	v, err := d.readReg(regGP2Conf)
	return GPConf(v), err
}

// ReadGP3Conf returns the GP3 pin configuration.
func (d *Device) ReadGP3Conf() (GPConf, error) {
	v, err := d.readReg(regGP3Conf)
	return GPConf(v), err
}

// WriteGP1Conf sets the GP1 pin mode, pull and edge-interrupt selection.
func (d *Device) WriteGP1Conf(c GPConf) error { return d.writeReg(regGP1Conf, byte(c)) }

// WriteGP2Conf sets the GP2 pin mode, pull and edge-interrupt selection.
func (d *Device) WriteGP2Conf(c GPConf) error { return d.writeReg(regGP2Conf, byte(c)) }

// WriteGP3Conf sets the GP3 pin mode, pull and edge-interrupt selection.
func (d *Device) WriteGP3Conf(c GPConf) error { return d.writeReg(regGP3Conf, byte(c)) }

// ReadGP1 returns the GP1 register value.
func (d *Device) ReadGP1() (uint8, error) { return d.readReg(regGP1) }

// ReadGP2 returns the GP2 register value.
func (d *Device) ReadGP2() (uint8, error) { return d.readReg(regGP2) }

// ReadGP3 returns the GP3 register value.
func (d *Device) ReadGP3() (uint8, error) { return d.readReg(regGP3) }

// WriteGP1 drives GP1 when configured as output or PWM.
func (d *Device) WriteGP1(v uint8) error { return d.writeReg(regGP1, v) }

// WriteGP2 drives GP2 when configured as output or PWM.
func (d *Device) WriteGP2(v uint8) error { return d.writeReg(regGP2, v) }

// WriteGP3 drives GP3 when configured as output or PWM.
func (d *Device) WriteGP3(v uint8) error { return d.writeReg(regGP3, v) }

// ReadAntibouncePeriod returns the anti-bounce period register.
func (d *Device) ReadAntibouncePeriod() (uint8, error) { return d.readReg(regAntBounc) }

// WriteAntibouncePeriod sets the anti-bounce period (units of 10ms).
func (d *Device) WriteAntibouncePeriod(v uint8) error { return d.writeReg(regAntBounc, v) }

// ReadDoublePushPeriod returns the double-push detection window register.
func (d *Device) ReadDoublePushPeriod() (uint8, error) { return d.readReg(regDPPeriod) }

// WriteDoublePushPeriod sets the double-push detection window (units of
// 10ms; 0 disables double-push detection).
func (d *Device) WriteDoublePushPeriod(v uint8) error { return d.writeReg(regDPPeriod, v) }

// ReadFadeRGB returns the RGB fade step timing.
func (d *Device) ReadFadeRGB() (uint8, error) { return d.readReg(regFadeRGB) }

// WriteFadeRGB sets the RGB fade step timing in ms (0 disables fading).
func (d *Device) WriteFadeRGB(v uint8) error { return d.writeReg(regFadeRGB, v) }

// ReadFadeGP returns the GP fade step timing.
func (d *Device) ReadFadeGP() (uint8, error) { return d.readReg(regFadeGP) }

// WriteFadeGP sets the GP fade step timing in ms (0 disables fading).
func (d *Device) WriteFadeGP(v uint8) error { return d.writeReg(regFadeGP, v) }
