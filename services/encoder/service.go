// services/encoder/service.go
package encoder

import (
	"context"
	"encoding/json"
	"time"

	"encodercode-go/bus"
	"encodercode-go/drivers/i2cencoder"
	"encodercode-go/errcode"
	"encodercode-go/types"
	"encodercode-go/x/mathx"

	"tinygo.org/x/drivers"
)

// I2CBusFactory injects configured I²C instances by id.
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// -----------------------------------------------------------------------------
// Entry point
// -----------------------------------------------------------------------------

// Run owns every configured encoder for the lifetime of ctx. All driver
// access happens on this goroutine; the drivers are not goroutine-safe.
func Run(ctx context.Context, conn *bus.Connection, buses I2CBusFactory) {
	s := &service{
		conn:    conn,
		buses:   buses,
		devices: map[string]*instance{},
		nextDue: map[string]time.Time{},
	}
	s.loop(ctx)
}

type instance struct {
	cfg       DeviceCfg
	dev       *i2cencoder.Device
	lastCount int32
}

type service struct {
	conn  *bus.Connection
	buses I2CBusFactory

	devices map[string]*instance
	nextDue map[string]time.Time

	timer *time.Timer
}

// -----------------------------------------------------------------------------
// Main loop
// -----------------------------------------------------------------------------

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(bus.T("config", "encoder"))
	ctrlSub := s.conn.Subscribe(bus.T("encoder", "+", "control", "+"))
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.publishState("idle", "awaiting_config", nil)

	s.timer = time.NewTimer(time.Hour)
	if !s.timer.Stop() {
		drainTimer(s.timer)
	}

	for {
		if next := s.earliestDue(); next.IsZero() {
			resetTimer(s.timer, time.Hour)
		} else {
			resetTimer(s.timer, time.Until(next))
		}

		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			var cfg Config
			if err := decodeJSON(msg.Payload, &cfg); err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			s.applyConfig(cfg)
			s.publishState("ready", "configured", nil)

		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)

		case <-s.timer.C:
			now := time.Now()
			for name, due := range s.nextDue {
				inst, ok := s.devices[name]
				if !ok || now.Before(due) {
					continue
				}
				s.poll(name)
				s.nextDue[name] = now.Add(time.Duration(inst.cfg.PollMS) * time.Millisecond)
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

func (s *service) applyConfig(cfg Config) {
	seen := map[string]struct{}{}

	for i := range cfg.Devices {
		dc := cfg.Devices[i]
		if dc.Name == "" || dc.Addr == 0 {
			continue
		}
		seen[dc.Name] = struct{}{}

		// Skip if already present (simple idempotence for now)
		if _, exists := s.devices[dc.Name]; exists {
			continue
		}

		i2c, ok := s.buses.ByID(dc.Bus)
		if !ok {
			s.pubStatus(dc.Name, types.LinkDown, string(errcode.UnknownBus))
			continue
		}

		dc.Step = mathx.Clamp(dc.Step, 1, 1<<30)
		dc.PollMS = mathx.Clamp(pollOrDefault(dc.PollMS), 10, 60_000)

		inst := &instance{cfg: dc, dev: i2cencoder.New(i2c, dc.Addr)}
		if err := s.setup(inst); err != nil {
			s.pubStatus(dc.Name, types.LinkDegraded, err.Error())
			continue
		}
		s.devices[dc.Name] = inst
		s.nextDue[dc.Name] = time.Now()

		s.pubRet(topicInfo(dc.Name), types.Info{
			SchemaVersion: 1,
			Driver:        "i2cencoder",
			Detail: types.EncoderInfo{
				Addr: dc.Addr, Min: dc.Min, Max: dc.Max, Step: dc.Step, Wrap: dc.Wrap,
			},
		})
		s.pubStatus(dc.Name, types.LinkUp, "")
		if err := s.publishValue(inst); err != nil {
			s.pubStatus(dc.Name, types.LinkDegraded, err.Error())
		}
	}

	// Tidy-up: remove devices not in config
	for name := range s.devices {
		if _, ok := seen[name]; ok {
			continue
		}
		s.pubRet(topicInfo(name), nil)
		s.pubRet(topicValue(name), nil)
		s.pubStatus(name, types.LinkDown, "")
		delete(s.devices, name)
		delete(s.nextDue, name)
	}
}

// setup programs the board and wires the dispatch callbacks.
func (s *service) setup(inst *instance) error {
	word := i2cencoder.IntData | i2cencoder.DireRight | i2cencoder.IPupEnable | i2cencoder.RModX1
	if inst.cfg.Wrap {
		word |= i2cencoder.WrapEnable
	}
	if inst.cfg.RGB {
		word |= i2cencoder.RGBEncoder
	}
	if err := inst.dev.Begin(word); err != nil {
		return err
	}
	if err := inst.dev.WriteMax(inst.cfg.Max); err != nil {
		return err
	}
	if err := inst.dev.WriteMin(inst.cfg.Min); err != nil {
		return err
	}
	if err := inst.dev.WriteStep(inst.cfg.Step); err != nil {
		return err
	}
	if err := inst.dev.WriteCounter(mathx.Clamp(0, inst.cfg.Min, inst.cfg.Max)); err != nil {
		return err
	}
	s.hook(inst)
	return inst.dev.AutoconfigInterrupt()
}

// hook points the driver callbacks at bus publications. Callbacks run
// synchronously inside poll, on the service goroutine.
func (s *service) hook(inst *instance) {
	name := inst.cfg.Name
	cb := &inst.dev.Callbacks

	cb.OnIncrement = func() error { s.pubEvent(name, types.TagIncrement, nil); return nil }
	cb.OnDecrement = func() error { s.pubEvent(name, types.TagDecrement, nil); return nil }
	cb.OnChange = func() error { return s.publishValue(inst) }
	cb.OnMax = func() error { s.pubEvent(name, types.TagMaxReached, nil); return nil }
	cb.OnMin = func() error { s.pubEvent(name, types.TagMinReached, nil); return nil }

	cb.OnButtonPush = func() error {
		s.pubEvent(name, types.TagPush, types.ButtonValue{Pressed: true, TS: nowMS()})
		return nil
	}
	cb.OnButtonRelease = func() error {
		s.pubEvent(name, types.TagRelease, types.ButtonValue{Pressed: false, TS: nowMS()})
		return nil
	}
	cb.OnButtonDoublePush = func() error {
		s.pubEvent(name, types.TagDoublePush, types.ButtonValue{Pressed: true, TS: nowMS()})
		return nil
	}

	edge := func(pin int, rising bool) func() error {
		return func() error {
			s.pubEvent(name, "gpio", types.GPIOEdge{Pin: pin, Rising: rising, TS: nowMS()})
			return nil
		}
	}
	cb.OnGP1Rise = edge(1, true)
	cb.OnGP1Fall = edge(1, false)
	cb.OnGP2Rise = edge(2, true)
	cb.OnGP2Fall = edge(2, false)
	cb.OnGP3Rise = edge(3, true)
	cb.OnGP3Fall = edge(3, false)

	cb.OnFadeProcess = func() error { s.pubEvent(name, types.TagFadeDone, nil); return nil }
}

// -----------------------------------------------------------------------------
// Polling
// -----------------------------------------------------------------------------

func (s *service) poll(name string) {
	inst, ok := s.devices[name]
	if !ok {
		return
	}
	if _, err := inst.dev.UpdateStatus(); err != nil {
		s.pubStatus(name, types.LinkDegraded, err.Error())
	}
}

func (s *service) publishValue(inst *instance) error {
	count, err := inst.dev.ReadCounter()
	if err != nil {
		return err
	}
	inst.lastCount = count
	s.pubRet(topicValue(inst.cfg.Name), types.EncoderValue{Count: count, TS: nowMS()})
	return nil
}

// -----------------------------------------------------------------------------
// Control plane
// -----------------------------------------------------------------------------

func (s *service) handleControl(msg *bus.Message) {
	// encoder/<name>/control/<verb>
	if len(msg.Topic) < 4 {
		return
	}
	name, _ := msg.Topic[1].(string)
	verb, _ := msg.Topic[3].(string)
	inst, ok := s.devices[name]
	if !ok {
		s.replyErr(msg, errcode.UnknownDevice)
		return
	}

	switch verb {
	case "set":
		var p types.CounterSet
		if err := decodeJSON(msg.Payload, &p); err != nil {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		v := mathx.Clamp(p.Count, inst.cfg.Min, inst.cfg.Max)
		if err := inst.dev.WriteCounter(v); err != nil {
			s.replyErr(msg, errcode.BusFault)
			return
		}
		if err := s.publishValue(inst); err != nil {
			s.replyErr(msg, errcode.BusFault)
			return
		}
		s.replyOK(msg, map[string]any{"count": v})

	case "range":
		var p types.RangeSet
		if err := decodeJSON(msg.Payload, &p); err != nil {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		p.Step = mathx.Clamp(p.Step, 1, 1<<30)
		if err := inst.dev.WriteMax(p.Max); err != nil {
			s.replyErr(msg, errcode.BusFault)
			return
		}
		if err := inst.dev.WriteMin(p.Min); err != nil {
			s.replyErr(msg, errcode.BusFault)
			return
		}
		if err := inst.dev.WriteStep(p.Step); err != nil {
			s.replyErr(msg, errcode.BusFault)
			return
		}
		inst.cfg.Min, inst.cfg.Max, inst.cfg.Step = p.Min, p.Max, p.Step
		s.pubRet(topicInfo(name), types.Info{
			SchemaVersion: 1,
			Driver:        "i2cencoder",
			Detail: types.EncoderInfo{
				Addr: inst.cfg.Addr, Min: p.Min, Max: p.Max, Step: p.Step, Wrap: inst.cfg.Wrap,
			},
		})
		s.replyOK(msg, nil)

	case "led":
		if !inst.cfg.RGB {
			s.replyErr(msg, errcode.Unsupported)
			return
		}
		var p types.LEDSet
		if err := decodeJSON(msg.Payload, &p); err != nil {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		if err := inst.dev.WriteRGBCode(p.RGB); err != nil {
			s.replyErr(msg, errcode.BusFault)
			return
		}
		s.replyOK(msg, nil)

	case "read_now":
		if err := s.publishValue(inst); err != nil {
			s.replyErr(msg, errcode.BusFault)
			return
		}
		s.replyOK(msg, map[string]any{"count": inst.lastCount})

	default:
		s.replyErr(msg, errcode.UnknownVerb)
	}
}

// -----------------------------------------------------------------------------
// Topics & helpers
// -----------------------------------------------------------------------------

func topicInfo(name string) bus.Topic  { return bus.T("encoder", name, "info") }
func topicValue(name string) bus.Topic { return bus.T("encoder", name, "value") }
func topicStatus(name string) bus.Topic {
	return bus.T("encoder", name, "status")
}
func topicEvent(name, tag string) bus.Topic {
	return bus.T("encoder", name, "event", tag)
}

func (s *service) publishState(level, status string, err error) {
	payload := map[string]any{"level": level, "status": status, "ts_ms": nowMS()}
	if err != nil {
		payload["error"] = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(bus.T("encoder", "state"), payload, true))
}

func (s *service) pubStatus(name string, link types.Link, e string) {
	s.pubRet(topicStatus(name), types.CapabilityStatus{Link: link, TS: nowMS(), Error: e})
}

func (s *service) pubEvent(name, tag string, payload any) {
	s.conn.Publish(s.conn.NewMessage(topicEvent(name, tag), payload, false))
}

func (s *service) pubRet(t bus.Topic, p any) {
	s.conn.Publish(s.conn.NewMessage(t, p, true))
}

func (s *service) replyOK(req *bus.Message, extra map[string]any) {
	if len(req.ReplyTo) == 0 {
		return
	}
	m := map[string]any{"ok": true}
	for k, v := range extra {
		m[k] = v
	}
	s.conn.Reply(req, m, false)
}

func (s *service) replyErr(req *bus.Message, c errcode.Code) {
	if len(req.ReplyTo) == 0 {
		return
	}
	s.conn.Reply(req, map[string]any{"ok": false, "error": string(c)}, false)
}

func (s *service) earliestDue() time.Time {
	var min time.Time
	for _, t := range s.nextDue {
		if !t.IsZero() && (min.IsZero() || t.Before(min)) {
			min = t
		}
	}
	return min
}

func pollOrDefault(ms int) int {
	if ms <= 0 {
		return 50
	}
	return ms
}

func nowMS() int64 { return time.Now().UnixMilli() }

// resetTimer safely stops, drains, and resets a timer.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		drainTimer(t)
	}
	if d < 0 {
		d = 0
	}
	t.Reset(d)
}

func drainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		// Accept maps, structs, numbers… by marshaling then decoding to T.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
