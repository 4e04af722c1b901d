// bridge/bridge.go
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"encodercode-go/bus"
)

// -----------------------------------------------------------------------------
// Public entry point
// -----------------------------------------------------------------------------

// Start starts the bridge service. It blocks until ctx is cancelled.
// It listens for JSON config on topic {"config","bridge"} and (re)configures
// the link. While a link is up, local messages matching the export patterns
// are framed out to the peer, and frames from the peer are published onto
// the local bus. This is how encoder events and values reach a host over a
// serial line, and how the host injects control messages.
func Start(ctx context.Context, conn *bus.Connection) {
	s := &Service{
		conn:       conn,
		stateTopic: bus.Topic{"bridge", "state"},
	}
	s.run(ctx)
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// Config is the JSON-encoded configuration expected on "config/bridge".
type Config struct {
	Transport TransportConfig `json:"transport"`

	// Export lists local topic patterns mirrored to the peer, as "/"-joined
	// strings with MQTT wildcards. Defaults to everything under encoder/.
	Export []string `json:"export,omitempty"`
}

type TransportConfig struct {
	// "uart" (provided here) or other names registered via RegisterTransport.
	Type string      `json:"type"`
	UART *UARTConfig `json:"uart,omitempty"`
}

// UARTConfig carries enough information for an injected dialler to open the
// UART. Pin mapping and UART instance selection happen inside UARTDial.
type UARTConfig struct {
	Baud           int `json:"baud"`
	RxPin          int `json:"rx_pin"`
	TxPin          int `json:"tx_pin"`
	ReadTimeoutMS  int `json:"read_timeout_ms,omitempty"` // per read; 0 means blocking
	WriteTimeoutMS int `json:"write_timeout_ms,omitempty"`
}

func (c Config) exportPatterns() []bus.Topic {
	if len(c.Export) == 0 {
		return []bus.Topic{bus.T("encoder", "#")}
	}
	out := make([]bus.Topic, 0, len(c.Export))
	for _, p := range c.Export {
		out = append(out, topicFromPath(p))
	}
	return out
}

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

type Service struct {
	conn       *bus.Connection
	stateTopic bus.Topic

	mu     sync.Mutex
	curRun context.CancelFunc
	curCfg atomic.Value // stores Config
}

// run waits for config and supervises a single link instance.
func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(bus.Topic{"config", "bridge"})
	defer s.conn.Unsubscribe(cfgSub)

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.stopCurrent()
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				s.publishState("error", "config_subscription_closed", nil)
				return
			}
			cfg, err := decodeConfig(msg.Payload)
			if err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			s.reconfigure(ctx, cfg)
		}
	}
}

func (s *Service) stopCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curRun != nil {
		s.curRun()
		s.curRun = nil
	}
}

func (s *Service) reconfigure(parent context.Context, cfg Config) {
	s.mu.Lock()
	if s.curRun != nil {
		s.curRun()
		s.curRun = nil
	}
	ctx, cancel := context.WithCancel(parent)
	s.curRun = cancel
	s.mu.Unlock()

	s.curCfg.Store(cfg)
	go s.runLink(ctx, cfg)
}

// -----------------------------------------------------------------------------
// Link supervision and I/O
// -----------------------------------------------------------------------------

func (s *Service) runLink(ctx context.Context, cfg Config) {
	tr, err := newTransport(cfg.Transport)
	if err != nil {
		s.publishState("error", "transport_init_failed", err)
		return
	}

	backoff := backoffSeq(250*time.Millisecond, 5*time.Second)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rwc, err := tr.Open(ctx)
		if err != nil {
			delay := backoff()
			s.publishState("degraded", "dial_failed_retrying", fmt.Errorf("%v (retry in %s)", err, delay))
			if !sleep(ctx, delay) {
				return
			}
			continue
		}

		s.publishState("up", "link_established", nil)
		if err := s.handleLink(ctx, rwc, cfg); err != nil {
			_ = rwc.Close()
			delay := backoff()
			s.publishState("degraded", "link_lost_retrying", fmt.Errorf("%v (retry in %s)", err, delay))
			if !sleep(ctx, delay) {
				return
			}
			continue
		}
		// Clean close: restart only on new config.
		return
	}
}

// wireMsg is the JSON body of a framePub frame.
type wireMsg struct {
	Topic    string `json:"topic"` // "/"-joined string tokens
	Payload  any    `json:"payload,omitempty"`
	Retained bool   `json:"retained,omitempty"`
}

// handleLink owns the active link lifetime: it mirrors matching local
// messages out and publishes peer frames onto the local bus.
func (s *Service) handleLink(ctx context.Context, rwc io.ReadWriteCloser, cfg Config) error {
	rd := newFramedReader(rwc)
	wr := newFramedWriter(rwc)

	subs := make([]*bus.Subscription, 0, len(cfg.Export)+1)
	local := make(chan *bus.Message, 32)
	for _, pat := range cfg.exportPatterns() {
		sub := s.conn.Subscribe(pat)
		subs = append(subs, sub)
		go func(sub *bus.Subscription) {
			for m := range sub.Channel() {
				select {
				case local <- m:
				default: // drop rather than stall the bus
				}
			}
		}(sub)
	}
	defer func() {
		for _, sub := range subs {
			s.conn.Unsubscribe(sub)
		}
	}()

	// Reader: peer frames in.
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			f, err := rd.ReadFrame()
			if err != nil {
				errCh <- err
				return
			}
			switch f.Type {
			case framePing:
				// Writer loop owns the link; queue nothing, pong is cheap
				// enough to race on the shared writer via mutex in wr.
				_ = wr.WriteFrame(Frame{Type: framePong})
			case framePong:
				// Liveness only.
			case framePub:
				// TODO: suppress echo of peer-injected messages that also
				// match an export pattern.
				var wm wireMsg
				if err := json.Unmarshal(f.Payload, &wm); err != nil {
					continue // peer sent junk; keep the link
				}
				s.conn.Publish(&bus.Message{
					Topic:    topicFromPath(wm.Topic),
					Payload:  wm.Payload,
					Retained: wm.Retained,
				})
			case frameClose:
				errCh <- nil
				return
			}
		}
	}()

	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = wr.WriteFrame(Frame{Type: frameClose})
			return nil
		case err := <-errCh:
			if err != nil {
				return err
			}
			return nil
		case m := <-local:
			path, ok := topicPath(m.Topic)
			if !ok {
				continue // non-string tokens stay local
			}
			body, err := json.Marshal(wireMsg{Topic: path, Payload: m.Payload, Retained: m.Retained})
			if err != nil {
				continue
			}
			if err := wr.WriteFrame(Frame{Type: framePub, Payload: body}); err != nil {
				return err
			}
		case <-tick.C:
			if err := wr.WriteFrame(Frame{Type: framePing}); err != nil {
				return err
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Transport registry
// -----------------------------------------------------------------------------

// Transport is a pluggable link dialler/owner.
type Transport interface {
	Open(ctx context.Context) (io.ReadWriteCloser, error)
	String() string
}

type transportFactory func(TransportConfig) (Transport, error)

var (
	regMu     sync.RWMutex
	registry  = map[string]transportFactory{}
	errNoDial = errors.New("UARTDial not implemented")
)

// RegisterTransport allows external packages to add transports (eg. "tcp").
func RegisterTransport(name string, f transportFactory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func newTransport(cfg TransportConfig) (Transport, error) {
	regMu.RLock()
	f, ok := registry[cfg.Type]
	regMu.RUnlock()
	if ok {
		return f(cfg)
	}
	switch cfg.Type {
	case "uart":
		return newUARTTransport(cfg)
	default:
		return nil, fmt.Errorf("unknown transport type: %q", cfg.Type)
	}
}

// UARTDial is injected by platform code (eg. in main or an rp2 build file).
// It must open and return an io.ReadWriteCloser over the configured UART.
var UARTDial func(ctx context.Context, u UARTConfig) (io.ReadWriteCloser, error)

// uartTransport implements Transport via an injected dial function.
type uartTransport struct {
	cfg TransportConfig
}

func newUARTTransport(cfg TransportConfig) (Transport, error) {
	if cfg.UART == nil {
		return nil, errors.New("uart transport requires uart config")
	}
	return &uartTransport{cfg: cfg}, nil
}

func (u *uartTransport) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	if UARTDial == nil {
		return nil, errNoDial
	}
	return UARTDial(ctx, *u.cfg.UART)
}

func (u *uartTransport) String() string { return "uart" }

// -----------------------------------------------------------------------------
// Framing: length-prefixed, type byte + 16-bit payload length
// -----------------------------------------------------------------------------

const (
	framePing  byte = 0x01
	framePong  byte = 0x02
	framePub   byte = 0x10
	frameClose byte = 0x7f
)

type Frame struct {
	Type    byte
	Payload []byte
}

type framedReader struct{ r io.Reader }

type framedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newFramedReader(r io.Reader) *framedReader { return &framedReader{r: r} }
func newFramedWriter(w io.Writer) *framedWriter { return &framedWriter{w: w} }

func (fr *framedReader) ReadFrame() (Frame, error) {
	var hdr [3]byte
	if _, err := io.ReadFull(fr.r, hdr[:]); err != nil {
		return Frame{}, err
	}
	typ := hdr[0]
	n := int(hdr[1])<<8 | int(hdr[2])
	var buf []byte
	if n > 0 {
		buf = make([]byte, n)
		if _, err := io.ReadFull(fr.r, buf); err != nil {
			return Frame{}, err
		}
	}
	return Frame{Type: typ, Payload: buf}, nil
}

func (fw *framedWriter) WriteFrame(f Frame) error {
	if len(f.Payload) > 0xFFFF {
		return fmt.Errorf("frame too large: %d", len(f.Payload))
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	hdr := []byte{f.Type, byte(len(f.Payload) >> 8), byte(len(f.Payload) & 0xFF)}
	if _, err := fw.w.Write(hdr); err != nil {
		return err
	}
	if len(f.Payload) > 0 {
		_, err := fw.w.Write(f.Payload)
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// Utilities
// -----------------------------------------------------------------------------

// topicFromPath splits "encoder/volume/value" into topic tokens.
func topicFromPath(p string) bus.Topic {
	parts := strings.Split(p, "/")
	t := make(bus.Topic, 0, len(parts))
	for _, s := range parts {
		t = append(t, s)
	}
	return t
}

// topicPath joins string tokens with "/". Topics carrying non-string tokens
// cannot cross the wire.
func topicPath(t bus.Topic) (string, bool) {
	parts := make([]string, 0, len(t))
	for _, tok := range t {
		s, ok := tok.(string)
		if !ok {
			return "", false
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/"), true
}

func decodeConfig(p any) (Config, error) {
	var cfg Config
	switch v := p.(type) {
	case []byte:
		if err := json.Unmarshal(v, &cfg); err != nil {
			return cfg, err
		}
	case string:
		if err := json.Unmarshal([]byte(v), &cfg); err != nil {
			return cfg, err
		}
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return cfg, err
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config payload type: %T", p)
	}
	return cfg, nil
}

func (s *Service) publishState(level, status string, err error) {
	payload := map[string]any{
		"level":  level,  // "up", "degraded", "error", "idle"
		"status": status, // short machine string
		"ts_ms":  time.Now().UnixMilli(),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	msg := s.conn.NewMessage(s.stateTopic, payload, true)
	s.conn.Publish(msg)
}

func backoffSeq(min, max time.Duration) func() time.Duration {
	if min <= 0 {
		min = 100 * time.Millisecond
	}
	if max < min {
		max = min
	}
	var cur = min
	return func() time.Duration {
		d := cur
		cur *= 2
		if cur > max {
			cur = max
		}
		return d
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
