//go:build rp2040

package main

import (
	"context"
	"runtime"
	"time"

	"machine"

	"encodercode-go/bus"
	"encodercode-go/services/bridge"
	"encodercode-go/services/config"
	"encodercode-go/services/encoder"
	"encodercode-go/services/heartbeat"

	"tinygo.org/x/drivers"
)

// picoBuses exposes the board's I2C peripherals to the encoder service.
type picoBuses struct{}

func (picoBuses) ByID(id string) (drivers.I2C, bool) {
	if id == "i2c0" {
		return machine.I2C0, true
	}
	return nil, false
}

func printTopicWith(prefix string, t bus.Topic) {
	print(prefix)
	print(" ")
	for i, tok := range t {
		if i > 0 {
			print("/")
		}
		switch v := tok.(type) {
		case string:
			print(v)
		case int:
			print(v)
		default:
			print("?")
		}
	}
	println()
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(3 * time.Second)
	ctx := context.Background()

	println("[main] configuring i2c0 …")
	if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400_000}); err != nil {
		println("[main] i2c0 configure failed:", err.Error())
	}

	println("[main] bootstrapping bus …")
	b := bus.NewBus(8)
	encConn := b.NewConnection("encoder")
	brConn := b.NewConnection("bridge")
	hbConn := b.NewConnection("heartbeat")
	cfgConn := b.NewConnection("config")
	uiConn := b.NewConnection("ui")

	println("[main] subscribing to encoder/# for diagnostics …")
	mon := uiConn.Subscribe(bus.T("encoder", "#"))
	go func() {
		for m := range mon.Channel() {
			printTopicWith("[monitor] <-", m.Topic)
		}
	}()

	println("[main] starting services …")
	go encoder.Run(ctx, encConn, picoBuses{})
	go bridge.Start(ctx, brConn)
	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, hbConn)

	// Embedded defaults carry the encoder, bridge and heartbeat configs.
	cfgCtx := context.WithValue(ctx, config.CtxDeviceKey, "pico-knob")
	config.NewConfigService().Start(cfgCtx, cfgConn)

	time.Sleep(250 * time.Millisecond)

	readNow := bus.T("encoder", "volume", "control", "read_now")
	for {
		if reply, err := uiConn.RequestWait(ctx, uiConn.NewMessage(readNow, nil, false)); err != nil {
			println("[main] read_now error:", err.Error())
		} else {
			printTopicWith("[main] read_now reply on", reply.Topic)
		}
		printMem()
		time.Sleep(5 * time.Second)
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
// Uses builtin println to avoid fmt overhead/allocations.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"heapSys:", uint32(ms.HeapSys),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
