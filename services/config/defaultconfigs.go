package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPicoKnob = `{
  "encoder": {
    "version": 1,
    "devices": [
      {"name": "volume", "bus": "i2c0", "addr": 65,
       "min": 0, "max": 100, "step": 1, "rgb": true, "poll_ms": 20}
    ]
  },
  "bridge": {
    "transport": {"type": "uart", "uart": {"baud": 115200, "rx_pin": 1, "tx_pin": 0}}
  },
  "heartbeat": {
    "interval": 2
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico-knob": []byte(cfgPicoKnob),
}
