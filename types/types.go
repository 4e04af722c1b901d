package types

// ---- Common service state (retained) ----

type ServiceState struct {
	Level  string `json:"level"`  // e.g. "idle", "ready", "stopped"
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ms"`
}

// Link is the link/state reported for a capability.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

type CapabilityStatus struct {
	Link  Link   `json:"link"`
	TS    int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"`
}

// ---- Capability kinds & info ----

type Kind string

const (
	KindEncoder Kind = "encoder"
	KindButton  Kind = "button"
	KindLED     Kind = "led"
	KindGPIO    Kind = "gpio"
)

// Info envelope each device/cap exposes (retained)
type Info struct {
	SchemaVersion int         `json:"schema_version"`
	Driver        string      `json:"driver"`
	Detail        interface{} `json:"detail,omitempty"`
}

// ---- Encoder capability payloads ----

type EncoderInfo struct {
	Addr uint16 `json:"addr"`
	Min  int32  `json:"min"`
	Max  int32  `json:"max"`
	Step int32  `json:"step"`
	Wrap bool   `json:"wrap,omitempty"`
}

// EncoderValue is published under encoder/<name>/value (retained).
type EncoderValue struct {
	Count int32 `json:"count"`
	TS    int64 `json:"ts_ms"`
}

// Turn event tags published under encoder/<name>/event/<tag>.
const (
	TagIncrement  = "increment"
	TagDecrement  = "decrement"
	TagMaxReached = "max"
	TagMinReached = "min"
	TagPush       = "push"
	TagRelease    = "release"
	TagDoublePush = "double_push"
	TagFadeDone   = "fade_done"
)

// ---- Button / GPIO payloads ----

type ButtonValue struct {
	Pressed bool  `json:"pressed"`
	TS      int64 `json:"ts_ms"`
}

// GPIOEdge is the payload for encoder GP pin edge events.
type GPIOEdge struct {
	Pin    int   `json:"pin"` // 1..3
	Rising bool  `json:"rising"`
	TS     int64 `json:"ts_ms"`
}

// ---- Control payloads ----

type CounterSet struct {
	Count int32 `json:"count"`
}

type RangeSet struct {
	Min  int32 `json:"min"`
	Max  int32 `json:"max"`
	Step int32 `json:"step"`
}

type LEDSet struct {
	RGB uint32 `json:"rgb"` // packed 0xRRGGBB
}

// Generic replies
type OKReply struct {
	OK bool `json:"ok"`
}
type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
