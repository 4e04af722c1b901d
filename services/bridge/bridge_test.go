// bridge/bridge_test.go
package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"encodercode-go/bus"
)

func TestBridge_EstablishesUARTLinkAndReportsState(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("bridge_test")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	// Subscribe to bridge/state (retained) and verify initial status.
	stateSub := conn.Subscribe(bus.Topic{"bridge", "state"})
	defer conn.Unsubscribe(stateSub)

	first := nextStatePayload(t, stateSub, 500*time.Millisecond)
	assertLevelStatus(t, first, "idle", "awaiting_config")

	// Inject a UART dialler that returns a net.Pipe; keep the remote end to simulate link loss.
	prevDial := UARTDial
	defer func() { UARTDial = prevDial }()
	var remote io.ReadWriteCloser
	UARTDial = func(ctx context.Context, _ UARTConfig) (io.ReadWriteCloser, error) {
		lc, rc := net.Pipe()
		remote = rc
		// Remote peer loop: respond to ping frames; ignore others.
		go remotePeer(rc)
		return lc, nil
	}

	// Publish a valid UART config.
	cfg := `{"transport":{"type":"uart","uart":{"baud":115200,"rx_pin":1,"tx_pin":0}}}`
	conn.Publish(conn.NewMessage(bus.Topic{"config", "bridge"}, cfg, false))

	up := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, up, "up", "link_established")

	// Close the remote to force link loss; expect degraded state.
	if remote != nil {
		_ = remote.Close()
	}

	degraded := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, degraded, "degraded", "link_lost_retrying")
}

func TestBridge_UnknownTransportYieldsErrorState(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("bridge_test_bad")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	stateSub := conn.Subscribe(bus.Topic{"bridge", "state"})
	defer conn.Unsubscribe(stateSub)

	_ = nextStatePayload(t, stateSub, 500*time.Millisecond) // initial awaiting_config

	// Publish a config with an unknown transport type.
	cfg := `{"transport":{"type":"bogus"}}`
	conn.Publish(conn.NewMessage(bus.Topic{"config", "bridge"}, cfg, false))

	errState := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, errState, "error", "transport_init_failed")
}

func TestBridge_ForwardsEncoderTrafficBothWays(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("bridge_test_fwd")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	stateSub := conn.Subscribe(bus.Topic{"bridge", "state"})
	_ = nextStatePayload(t, stateSub, 500*time.Millisecond) // awaiting_config
	defer conn.Unsubscribe(stateSub)

	prevDial := UARTDial
	defer func() { UARTDial = prevDial }()
	var remote io.ReadWriteCloser
	UARTDial = func(ctx context.Context, _ UARTConfig) (io.ReadWriteCloser, error) {
		lc, rc := net.Pipe()
		remote = rc
		return lc, nil
	}

	cfg := `{"transport":{"type":"uart","uart":{"baud":115200}}}`
	conn.Publish(conn.NewMessage(bus.Topic{"config", "bridge"}, cfg, false))
	assertLevelStatus(t, nextStatePayload(t, stateSub, time.Second), "up", "link_established")

	// Outbound: a local encoder value must arrive framed at the peer.
	// Retained, so subscribe ordering inside the link does not matter.
	client := b.NewConnection("encoder_svc")
	defer client.Disconnect()
	client.Publish(client.NewMessage(bus.T("encoder", "volume", "value"),
		map[string]any{"count": 7}, true))

	rd := newFramedReader(remote)
	var got wireMsg
	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("no pub frame from bridge")
		}
		f, err := rd.ReadFrame()
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if f.Type != framePub {
			continue // pings
		}
		if err := json.Unmarshal(f.Payload, &got); err != nil {
			t.Fatalf("frame body: %v", err)
		}
		break
	}
	if got.Topic != "encoder/volume/value" || !got.Retained {
		t.Fatalf("exported frame = %+v", got)
	}

	// Inbound: a pub frame from the peer must land on the local bus.
	ctrlSub := client.Subscribe(bus.T("encoder", "volume", "control", "set"))
	defer client.Unsubscribe(ctrlSub)

	body, _ := json.Marshal(wireMsg{Topic: "encoder/volume/control/set", Payload: map[string]any{"count": 5}})
	wr := newFramedWriter(remote)
	if err := wr.WriteFrame(Frame{Type: framePub, Payload: body}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	select {
	case m := <-ctrlSub.Channel():
		p, ok := m.Payload.(map[string]any)
		if !ok || p["count"] != float64(5) {
			t.Fatalf("injected payload = %v", m.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("peer pub frame never reached the local bus")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// remotePeer minimally services the framing used by the bridge: it replies PONG to PING
// and drains any payload of other frames. It exits on read/write error.
func remotePeer(c io.ReadWriteCloser) {
	defer c.Close()
	hdr := make([]byte, 3)
	buf := make([]byte, 0, 256)
	for {
		if _, err := io.ReadFull(c, hdr); err != nil {
			return
		}
		typ := hdr[0]
		n := int(hdr[1])<<8 | int(hdr[2])
		if n > 0 {
			if cap(buf) < n {
				buf = make([]byte, n)
			} else {
				buf = buf[:n]
			}
			if _, err := io.ReadFull(c, buf); err != nil {
				return
			}
		}
		// If we receive a ping (0x01), reply with pong (0x02).
		if typ == 0x01 {
			// type, length MSB, length LSB (no payload)
			if _, err := c.Write([]byte{0x02, 0x00, 0x00}); err != nil {
				return
			}
		}
	}
}

func nextStatePayload(t *testing.T, sub *bus.Subscription, d time.Duration) map[string]any {
	t.Helper()
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case m := <-sub.Channel():
		p, ok := m.Payload.(map[string]any)
		if !ok {
			t.Fatalf("state payload type: got %T, want map[string]any", m.Payload)
		}
		return p
	case <-timer.C:
		t.Fatalf("timeout waiting for bridge/state")
		return nil
	}
}

func assertLevelStatus(t *testing.T, payload map[string]any, wantLevel, wantStatus string) {
	t.Helper()
	gotLevel, _ := payload["level"].(string)
	gotStatus, _ := payload["status"].(string)
	if gotLevel != wantLevel || gotStatus != wantStatus {
		t.Fatalf("unexpected state: level=%q status=%q, want level=%q status=%q (payload=%v)",
			gotLevel, gotStatus, wantLevel, wantStatus, payload)
	}
}
