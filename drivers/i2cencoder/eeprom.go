package i2cencoder

// Banked EEPROM access. The 256-byte EEPROM is split in two banks selected
// by the EEPROMBank1 bit of the configuration word. Addresses 0x00..0x7F
// are bank-relative and map into the EEPROM window above regEEPROM with the
// bank bit clear; addresses 0x80..0xFF are absolute register addresses and
// need the bank bit set. Switching banks rewrites GCONF as a side effect,
// so alternating across the boundary costs one extra transaction per
// access. The retained configuration word tracks the switch.

// ReadEEPROM reads one byte of EEPROM.
func (d *Device) ReadEEPROM(addr uint8) (byte, error) {
	reg, err := d.selectBank(addr)
	if err != nil {
		return 0, err
	}
	return d.readReg(reg)
}

// WriteEEPROM writes one byte of EEPROM.
func (d *Device) WriteEEPROM(addr uint8, data byte) error {
	reg, err := d.selectBank(addr)
	if err != nil {
		return err
	}
	return d.writeReg(reg, data)
}

// selectBank flips the bank bit when the target address needs the other
// bank and returns the register address for the data transaction.
func (d *Device) selectBank(addr uint8) (byte, error) {
	if addr <= 0x7F {
		if d.gconf&EEPROMBank1 != 0 {
			next := d.gconf &^ EEPROMBank1
			if err := d.writeReg(regGConf, byte(next)); err != nil {
				return 0, err
			}
			d.gconf = next
		}
		return regEEPROM + addr, nil
	}
	if d.gconf&EEPROMBank1 == 0 {
		next := d.gconf | EEPROMBank1
		if err := d.writeReg(regGConf, byte(next)); err != nil {
			return 0, err
		}
		d.gconf = next
	}
	return addr, nil
}
