package encoder

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"encodercode-go/bus"
	"encodercode-go/types"

	"tinygo.org/x/drivers"
)

// fakeI2C models the board's register file well enough for the service:
// writes land at regs[w[0]+i], reads return the bytes at the selected
// register, and the two status registers clear on read.
type fakeI2C struct {
	mu   sync.Mutex
	regs [256]byte
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	for i, b := range w[1:] {
		f.regs[int(reg)+i] = b
	}
	for i := range r {
		cur := int(reg) + i
		r[i] = f.regs[cur]
		if cur == 0x05 || cur == 0x06 {
			f.regs[cur] = 0
		}
	}
	return nil
}

func (f *fakeI2C) setStatus(v byte) {
	f.mu.Lock()
	f.regs[0x05] = v
	f.mu.Unlock()
}

func (f *fakeI2C) reg(addr byte) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[addr]
}

type busMap map[string]drivers.I2C

func (m busMap) ByID(id string) (drivers.I2C, bool) {
	i2c, ok := m[id]
	return i2c, ok
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func waitMsg(t *testing.T, sub *bus.Subscription, want func(*bus.Message) bool) *bus.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-sub.Channel():
			if want(m) {
				return m
			}
		case <-deadline:
			t.Fatalf("timed out waiting for message")
			return nil
		}
	}
}

func startService(t *testing.T, cfg Config) (*bus.Connection, *fakeI2C) {
	t.Helper()
	b := bus.NewBus(32)
	fake := &fakeI2C{}

	svcConn := b.NewConnection("encoder")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, svcConn, busMap{"i2c0": fake})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		svcConn.Disconnect()
	})

	client := b.NewConnection("test")
	t.Cleanup(client.Disconnect)

	// Retained so the service sees it regardless of subscribe ordering.
	client.Publish(client.NewMessage(bus.T("config", "encoder"), mustJSON(t, cfg), true))
	return client, fake
}

func volumeCfg() Config {
	return Config{
		Version: 1,
		Devices: []DeviceCfg{{
			Name: "volume", Bus: "i2c0", Addr: 0x41,
			Min: 0, Max: 100, Step: 1, RGB: true, PollMS: 10,
		}},
	}
}

func TestServiceConfigPublishesInfoAndValue(t *testing.T) {
	client, _ := startService(t, volumeCfg())

	sub := client.Subscribe(bus.T("encoder", "volume", "#"))
	defer client.Unsubscribe(sub)

	info := waitMsg(t, sub, func(m *bus.Message) bool {
		_, ok := m.Payload.(types.Info)
		return ok
	})
	detail := info.Payload.(types.Info).Detail.(types.EncoderInfo)
	if detail.Addr != 0x41 || detail.Min != 0 || detail.Max != 100 {
		t.Fatalf("unexpected info detail: %+v", detail)
	}

	val := waitMsg(t, sub, func(m *bus.Message) bool {
		_, ok := m.Payload.(types.EncoderValue)
		return ok
	})
	if v := val.Payload.(types.EncoderValue); v.Count != 0 {
		t.Fatalf("initial count = %d, want 0", v.Count)
	}
}

func TestServiceControlSetClampsToRange(t *testing.T) {
	client, fake := startService(t, volumeCfg())

	sub := client.Subscribe(bus.T("encoder", "volume", "status"))
	waitMsg(t, sub, func(m *bus.Message) bool {
		st, ok := m.Payload.(types.CapabilityStatus)
		return ok && st.Link == types.LinkUp
	})
	client.Unsubscribe(sub)

	msg := client.NewMessage(bus.T("encoder", "volume", "control", "set"),
		mustJSON(t, types.CounterSet{Count: 150}), false)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	reply, err := client.RequestWait(ctx, msg)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	rep := reply.Payload.(map[string]any)
	if rep["ok"] != true {
		t.Fatalf("reply not ok: %v", rep)
	}
	if got := rep["count"].(int32); got != 100 {
		t.Fatalf("count = %d, want clamp to 100", got)
	}
	if fake.reg(0x0B) != 100 {
		t.Fatalf("counter LSB on wire = %d, want 100", fake.reg(0x0B))
	}
}

func TestServicePollDispatchesEvents(t *testing.T) {
	client, fake := startService(t, volumeCfg())

	sub := client.Subscribe(bus.T("encoder", "volume", "event", "+"))
	defer client.Unsubscribe(sub)

	// PushP | RInc: one button press and one step right.
	fake.setStatus(0x0A)

	seen := map[string]bool{}
	for len(seen) < 2 {
		m := waitMsg(t, sub, func(*bus.Message) bool { return true })
		tag, _ := m.Topic[3].(string)
		seen[tag] = true
	}
	if !seen[types.TagPush] || !seen[types.TagIncrement] {
		t.Fatalf("events seen = %v, want push and increment", seen)
	}
}

func TestServiceControlErrors(t *testing.T) {
	client, _ := startService(t, volumeCfg())

	sub := client.Subscribe(bus.T("encoder", "volume", "status"))
	waitMsg(t, sub, func(m *bus.Message) bool {
		st, ok := m.Payload.(types.CapabilityStatus)
		return ok && st.Link == types.LinkUp
	})
	client.Unsubscribe(sub)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reply, err := client.RequestWait(ctx, client.NewMessage(
		bus.T("encoder", "nope", "control", "set"), mustJSON(t, types.CounterSet{}), false))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if rep := reply.Payload.(map[string]any); rep["error"] != "unknown_device" {
		t.Fatalf("error = %v, want unknown_device", rep["error"])
	}

	reply, err = client.RequestWait(ctx, client.NewMessage(
		bus.T("encoder", "volume", "control", "spin"), nil, false))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if rep := reply.Payload.(map[string]any); rep["error"] != "unknown_verb" {
		t.Fatalf("error = %v, want unknown_verb", rep["error"])
	}
}

func TestServiceLEDRequiresRGB(t *testing.T) {
	cfg := volumeCfg()
	cfg.Devices[0].RGB = false
	client, _ := startService(t, cfg)

	sub := client.Subscribe(bus.T("encoder", "volume", "status"))
	waitMsg(t, sub, func(m *bus.Message) bool {
		st, ok := m.Payload.(types.CapabilityStatus)
		return ok && st.Link == types.LinkUp
	})
	client.Unsubscribe(sub)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	reply, err := client.RequestWait(ctx, client.NewMessage(
		bus.T("encoder", "volume", "control", "led"),
		mustJSON(t, types.LEDSet{RGB: 0x00FF00}), false))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if rep := reply.Payload.(map[string]any); rep["error"] != "unsupported" {
		t.Fatalf("error = %v, want unsupported", rep["error"])
	}
}
