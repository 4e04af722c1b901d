// encoderctl exercises the encoder service on a host machine against a
// simulated board: it loads a YAML device list, starts the services, logs
// everything published under encoder/, and issues a few control requests.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/dikkadev/prettyslog"
	"gopkg.in/yaml.v2"

	"encodercode-go/bus"
	"encodercode-go/services/encoder"
	"encodercode-go/services/heartbeat"
	"encodercode-go/types"

	"tinygo.org/x/drivers"
)

// -----------------------------------------------------------------------------
// YAML config
// -----------------------------------------------------------------------------

type yamlDevice struct {
	Name   string `yaml:"name"`
	Bus    string `yaml:"bus"`
	Addr   uint16 `yaml:"addr"`
	Min    int32  `yaml:"min"`
	Max    int32  `yaml:"max"`
	Step   int32  `yaml:"step"`
	Wrap   bool   `yaml:"wrap"`
	RGB    bool   `yaml:"rgb"`
	PollMS int    `yaml:"pollMs"`
}

type yamlConfig struct {
	Devices []yamlDevice `yaml:"devices"`
}

func loadConfig(path string) (encoder.Config, error) {
	var yc yamlConfig
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &yc); err != nil {
			return encoder.Config{}, err
		}
	}
	if len(yc.Devices) == 0 {
		yc.Devices = []yamlDevice{{
			Name: "volume", Bus: "i2c0", Addr: 0x41,
			Min: 0, Max: 100, Step: 1, RGB: true, PollMS: 20,
		}}
	}
	cfg := encoder.Config{Version: 1}
	for _, d := range yc.Devices {
		cfg.Devices = append(cfg.Devices, encoder.DeviceCfg{
			Name: d.Name, Bus: d.Bus, Addr: d.Addr,
			Min: d.Min, Max: d.Max, Step: d.Step,
			Wrap: d.Wrap, RGB: d.RGB, PollMS: d.PollMS,
		})
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Simulated board
// -----------------------------------------------------------------------------

// simKnob models the board's register file: writes land at regs[w[0]+i],
// reads return the selected registers, the status registers clear on read.
// Spin injects a turn the way the hardware would: counter bump plus the
// increment status bit.
type simKnob struct {
	mu   sync.Mutex
	regs [256]byte
}

func (k *simKnob) Tx(addr uint16, w, r []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	for i, b := range w[1:] {
		k.regs[int(reg)+i] = b
	}
	for i := range r {
		cur := int(reg) + i
		r[i] = k.regs[cur]
		if cur == 0x05 || cur == 0x06 {
			k.regs[cur] = 0
		}
	}
	return nil
}

func (k *simKnob) Spin() {
	k.mu.Lock()
	defer k.mu.Unlock()
	cnt := int32(k.regs[0x08])<<24 | int32(k.regs[0x09])<<16 | int32(k.regs[0x0A])<<8 | int32(k.regs[0x0B])
	max := int32(k.regs[0x0C])<<24 | int32(k.regs[0x0D])<<16 | int32(k.regs[0x0E])<<8 | int32(k.regs[0x0F])
	if cnt >= max {
		k.regs[0x05] |= 0x20 // at max
		return
	}
	cnt++
	k.regs[0x08] = byte(cnt >> 24)
	k.regs[0x09] = byte(cnt >> 16)
	k.regs[0x0A] = byte(cnt >> 8)
	k.regs[0x0B] = byte(cnt)
	k.regs[0x05] |= 0x08 // turned right
}

type simBuses map[string]drivers.I2C

func (m simBuses) ByID(id string) (drivers.I2C, bool) {
	i2c, ok := m[id]
	return i2c, ok
}

// -----------------------------------------------------------------------------
// Main
// -----------------------------------------------------------------------------

func main() {
	logger := slog.New(prettyslog.NewPrettyslogHandler("encoderctl",
		prettyslog.WithLevel(slog.LevelDebug),
	))
	slog.SetDefault(logger)

	cfgPath := flag.String("config", "encoderctl.yaml", "YAML device list")
	spinEvery := flag.Duration("spin", time.Second, "simulated turn interval")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	knob := &simKnob{}
	b := bus.NewBus(32)

	encConn := b.NewConnection("encoder")
	go encoder.Run(ctx, encConn, simBuses{"i2c0": knob})

	hbConn := b.NewConnection("heartbeat")
	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, hbConn)

	ui := b.NewConnection("ui")
	defer ui.Disconnect()

	mon := ui.Subscribe(bus.T("encoder", "#"))
	go func() {
		for m := range mon.Channel() {
			slog.Debug("bus", "topic", topicString(m.Topic), "payload", m.Payload)
		}
	}()

	raw, err := json.Marshal(cfg)
	if err != nil {
		log.Fatalf("config encode: %v", err)
	}
	ui.Publish(ui.NewMessage(bus.T("config", "encoder"), raw, true))
	slog.Info("configured", "devices", len(cfg.Devices))

	// Simulate someone turning the first knob.
	name := cfg.Devices[0].Name
	go func() {
		tick := time.NewTicker(*spinEvery)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				knob.Spin()
			}
		}
	}()

	// A control request once the service has settled.
	time.Sleep(500 * time.Millisecond)
	reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	body, _ := json.Marshal(types.CounterSet{Count: 42})
	reply, err := ui.RequestWait(reqCtx, ui.NewMessage(
		bus.T("encoder", name, "control", "set"), body, false))
	cancel()
	if err != nil {
		slog.Error("set failed", "err", err)
	} else {
		slog.Info("set reply", "payload", reply.Payload)
	}

	<-ctx.Done()
	slog.Info("bye")
}

func topicString(t bus.Topic) string {
	out := ""
	for i, tok := range t {
		if i > 0 {
			out += "/"
		}
		if s, ok := tok.(string); ok {
			out += s
		} else {
			out += "?"
		}
	}
	return out
}
