// Register sub-addresses and bitfield constants for the I2C Encoder V2.1.
// Addresses and bit positions follow the board firmware register map.
package i2cencoder

// --- Register sub-addresses (8-bit registers unless noted) ---

const (
	regGConf   = 0x00 // general configuration, low byte
	regGP1Conf = 0x01
	regGP2Conf = 0x02
	regGP3Conf = 0x03
	regIntConf = 0x04 // interrupt enable mask (same layout as Status)

	regEStatus  = 0x05 // primary status, clear-on-read
	regI2Status = 0x06 // secondary status, clear-on-read
	regFStatus  = 0x07 // fade process status

	// 32-bit big-endian quads, MSB first.
	regCVal  = 0x08 // counter value
	regCMax  = 0x0C // counter max threshold
	regCMin  = 0x10 // counter min threshold
	regIStep = 0x14 // increment step

	// Partial counter windows (low halves of the CVAL quad).
	regCValB2 = 0x0A
	regCValB1 = 0x0B

	regRLed = 0x18 // PWM duty, red
	regGLed = 0x19 // PWM duty, green
	regBLed = 0x1A // PWM duty, blue

	regGP1 = 0x1B
	regGP2 = 0x1C
	regGP3 = 0x1D

	regAntBounc = 0x1E // anti-bounce period
	regDPPeriod = 0x1F // double-push detection window
	regFadeRGB  = 0x20 // RGB fade timing, ms
	regFadeGP   = 0x21 // GP fade timing, ms

	regGammaRLed = 0x27
	regGammaGLed = 0x28
	regGammaBLed = 0x29
	regGammaGP1  = 0x2A
	regGammaGP2  = 0x2B
	regGammaGP3  = 0x2C

	regGConf2  = 0x30 // general configuration, high byte
	regIDCode  = 0x70
	regVersion = 0x71
	regEEPROM  = 0x80 // EEPROM window base (bank-relative)
)

// Config is the 16-bit GCONF/GCONF2 configuration word. Flags come in
// mutually exclusive pairs sharing a bit, with the zero flag as default.
type Config uint16

const (
	IntData   Config = 0x0000
	FloatData Config = 0x0001

	WrapDisable Config = 0x0000
	WrapEnable  Config = 0x0002

	DireRight Config = 0x0000
	DireLeft  Config = 0x0004

	IPupEnable  Config = 0x0000
	IPupDisable Config = 0x0008

	RModX1 Config = 0x0000
	RModX2 Config = 0x0010

	StdEncoder Config = 0x0000
	RGBEncoder Config = 0x0020

	EEPROMBank2 Config = 0x0000
	EEPROMBank1 Config = 0x0040

	Reset Config = 0x0080

	// High byte, written through GCONF2.
	ClkStretchDisable Config = 0x0000
	ClkStretchEnable  Config = 0x0100

	RelModeDisable Config = 0x0000
	RelModeEnable  Config = 0x0200
)

// ConfigDefault matches the board's power-on defaults for an RGB encoder.
const ConfigDefault = IntData | WrapDisable | DireRight | IPupEnable | RModX1 | RGBEncoder

// Status holds the primary status bits (ESTATUS). The same layout is written
// to INTCONF to enable the matching interrupt sources.
type Status uint8

const (
	PushR Status = 0x01 // button released
	PushP Status = 0x02 // button pushed
	PushD Status = 0x04 // button double-pushed
	RInc  Status = 0x08 // rotated towards max
	RDec  Status = 0x10 // rotated towards min
	RMax  Status = 0x20 // max threshold reached
	RMin  Status = 0x40 // min threshold reached
	Int2  Status = 0x80 // secondary status pending
)

// Status2 holds the secondary status bits (I2STATUS).
type Status2 uint8

const (
	GP1Pos  Status2 = 0x01 // GP1 rising edge
	GP1Neg  Status2 = 0x02 // GP1 falling edge
	GP2Pos  Status2 = 0x04
	GP2Neg  Status2 = 0x08
	GP3Pos  Status2 = 0x10
	GP3Neg  Status2 = 0x20
	FadeInt Status2 = 0x40 // fade process finished
)

// FadeStatus holds the FSTATUS bits, one per channel with a fade running.
type FadeStatus uint8

const (
	FadeR   FadeStatus = 0x01
	FadeG   FadeStatus = 0x02
	FadeB   FadeStatus = 0x04
	FadeGP1 FadeStatus = 0x08
	FadeGP2 FadeStatus = 0x10
	FadeGP3 FadeStatus = 0x20
)

// GPConf configures one general-purpose pin (GP1CONF..GP3CONF).
type GPConf uint8

const (
	GPPWM GPConf = 0x00
	GPOut GPConf = 0x01
	GPAn  GPConf = 0x02
	GPIn  GPConf = 0x03

	GPPullDisable GPConf = 0x00
	GPPullEnable  GPConf = 0x04

	GPIntDisable GPConf = 0x00
	GPIntPos     GPConf = 0x08
	GPIntNeg     GPConf = 0x10
	GPIntBoth    GPConf = 0x18
)

// Gamma selects one of the 8 brightness-correction curves for a PWM channel.
type Gamma uint8

const (
	GammaOff Gamma = iota
	Gamma1
	Gamma1_8
	Gamma2
	Gamma2_2
	Gamma2_4
	Gamma2_6
	Gamma2_8
)
