package i2cencoder

// Status polling and event dispatch.

// UpdateStatus reads the primary status register and fires the registered
// callbacks for every set bit, in a fixed order: button release, push,
// double push, increment, decrement, max, min, then the secondary group.
// Increment and decrement additionally fire OnChange; max and min
// additionally fire OnMinMax, specific before generic.
//
// It returns false when the primary status is zero (the stored secondary
// status is cleared too). When the Int2 bit is set the secondary status
// register is read and, if non-zero, dispatched in order GP1 rising, GP1
// falling, GP2 rising, GP2 falling, GP3 rising, GP3 falling, fade complete.
// A secondary read of zero still reports a change.
//
// A callback error aborts the remaining dispatch for this cycle and is
// returned alongside changed=true; the statuses already read stay stored.
func (d *Device) UpdateStatus() (bool, error) {
	st, err := d.readReg(regEStatus)
	if err != nil {
		return false, err
	}
	d.stat = Status(st)

	if d.stat == 0 {
		d.stat2 = 0
		return false, nil
	}

	if d.stat&PushR != 0 {
		if err := fire(d.Callbacks.OnButtonRelease); err != nil {
			return true, err
		}
	}
	if d.stat&PushP != 0 {
		if err := fire(d.Callbacks.OnButtonPush); err != nil {
			return true, err
		}
	}
	if d.stat&PushD != 0 {
		if err := fire(d.Callbacks.OnButtonDoublePush); err != nil {
			return true, err
		}
	}
	if d.stat&RInc != 0 {
		if err := fire(d.Callbacks.OnIncrement); err != nil {
			return true, err
		}
		if err := fire(d.Callbacks.OnChange); err != nil {
			return true, err
		}
	}
	if d.stat&RDec != 0 {
		if err := fire(d.Callbacks.OnDecrement); err != nil {
			return true, err
		}
		if err := fire(d.Callbacks.OnChange); err != nil {
			return true, err
		}
	}
	if d.stat&RMax != 0 {
		if err := fire(d.Callbacks.OnMax); err != nil {
			return true, err
		}
		if err := fire(d.Callbacks.OnMinMax); err != nil {
			return true, err
		}
	}
	if d.stat&RMin != 0 {
		if err := fire(d.Callbacks.OnMin); err != nil {
			return true, err
		}
		if err := fire(d.Callbacks.OnMinMax); err != nil {
			return true, err
		}
	}

	if d.stat&Int2 != 0 {
		st2, err := d.readReg(regI2Status)
		if err != nil {
			return true, err
		}
		d.stat2 = Status2(st2)
		if d.stat2 == 0 {
			return true, nil
		}
		if d.stat2&GP1Pos != 0 {
			if err := fire(d.Callbacks.OnGP1Rise); err != nil {
				return true, err
			}
		}
		if d.stat2&GP1Neg != 0 {
			if err := fire(d.Callbacks.OnGP1Fall); err != nil {
				return true, err
			}
		}
		if d.stat2&GP2Pos != 0 {
			if err := fire(d.Callbacks.OnGP2Rise); err != nil {
				return true, err
			}
		}
		if d.stat2&GP2Neg != 0 {
			if err := fire(d.Callbacks.OnGP2Fall); err != nil {
				return true, err
			}
		}
		if d.stat2&GP3Pos != 0 {
			if err := fire(d.Callbacks.OnGP3Rise); err != nil {
				return true, err
			}
		}
		if d.stat2&GP3Neg != 0 {
			if err := fire(d.Callbacks.OnGP3Fall); err != nil {
				return true, err
			}
		}
		if d.stat2&FadeInt != 0 {
			if err := fire(d.Callbacks.OnFadeProcess); err != nil {
				return true, err
			}
		}
	}

	return true, nil
}

func fire(cb func() error) error {
	if cb == nil {
		return nil
	}
	return cb()
}

// StatusRaw returns the primary status stored by the last UpdateStatus.
func (d *Device) StatusRaw() Status { return d.stat }

// StatusIs reports whether any bit of mask was set in the last primary
// status. Call UpdateStatus first.
func (d *Device) StatusIs(mask Status) bool { return d.stat&mask != 0 }

// Status2Raw returns the secondary status stored by the last UpdateStatus.
func (d *Device) Status2Raw() Status2 { return d.stat2 }

// Status2Is reports whether any bit of mask was set in the last secondary
// status. Call UpdateStatus first.
func (d *Device) Status2Is(mask Status2) bool { return d.stat2&mask != 0 }

// ReadFadeStatusRaw reads the fade process status register.
func (d *Device) ReadFadeStatusRaw() (FadeStatus, error) {
	v, err := d.readReg(regFStatus)
	return FadeStatus(v), err
}

// ReadFadeStatus reports whether any bit of mask is set in FSTATUS. This is
// a bitwise AND test like the other status helpers; the reference library
// compared the whole register for equality with 1 here, which only worked
// for the red channel.
func (d *Device) ReadFadeStatus(mask FadeStatus) (bool, error) {
	v, err := d.ReadFadeStatusRaw()
	if err != nil {
		return false, err
	}
	return v&mask != 0, nil
}

// ReadInterruptConfig returns the current INTCONF enable mask.
func (d *Device) ReadInterruptConfig() (Status, error) {
	v, err := d.readReg(regIntConf)
	return Status(v), err
}

// SetInterrupts writes the INTCONF enable mask directly.
func (d *Device) SetInterrupts(mask Status) error {
	return d.writeReg(regIntConf, byte(mask))
}

// AutoconfigInterrupt derives the INTCONF mask from the non-nil callback
// slots and writes it in one transaction. OnChange enables both rotation
// sources, OnMinMax enables both thresholds, and any GP or fade callback
// enables the shared secondary interrupt.
func (d *Device) AutoconfigInterrupt() error {
	var mask Status
	cb := &d.Callbacks

	if cb.OnButtonRelease != nil {
		mask |= PushR
	}
	if cb.OnButtonPush != nil {
		mask |= PushP
	}
	if cb.OnButtonDoublePush != nil {
		mask |= PushD
	}
	if cb.OnIncrement != nil {
		mask |= RInc
	}
	if cb.OnDecrement != nil {
		mask |= RDec
	}
	if cb.OnChange != nil {
		mask |= RInc | RDec
	}
	if cb.OnMax != nil {
		mask |= RMax
	}
	if cb.OnMin != nil {
		mask |= RMin
	}
	if cb.OnMinMax != nil {
		mask |= RMax | RMin
	}
	if cb.OnGP1Rise != nil || cb.OnGP1Fall != nil ||
		cb.OnGP2Rise != nil || cb.OnGP2Fall != nil ||
		cb.OnGP3Rise != nil || cb.OnGP3Fall != nil ||
		cb.OnFadeProcess != nil {
		mask |= Int2
	}

	return d.writeReg(regIntConf, byte(mask))
}
