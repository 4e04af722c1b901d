package encoder

// Minimal JSON config structures, published on config/encoder.

type Config struct {
	Version int         `json:"version"`
	Devices []DeviceCfg `json:"devices"`
}

type DeviceCfg struct {
	Name string `json:"name"` // capability name, e.g. "volume"
	Bus  string `json:"bus"`  // i2c bus id, e.g. "i2c0"
	Addr uint16 `json:"addr"` // 7-bit board address

	Min  int32 `json:"min"`
	Max  int32 `json:"max"`
	Step int32 `json:"step"`

	Wrap bool `json:"wrap,omitempty"` // wrap at min/max instead of clamping
	RGB  bool `json:"rgb,omitempty"`  // board has the RGB illuminated shaft

	PollMS int `json:"poll_ms,omitempty"` // status poll period, default 50
}
