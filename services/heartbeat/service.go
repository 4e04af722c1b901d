package heartbeat

import (
	"context"
	"time"

	"encodercode-go/bus"
)

var (
	topicConfig = bus.Topic{"config", "heartbeat"}
	topicBeat   = bus.Topic{"system", "heartbeat"}
)

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfig)
	defer conn.Unsubscribe(cfgSub)

	started := time.Now()
	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			conn.Publish(conn.NewMessage(topicBeat, map[string]any{
				"uptime_s": int64(t.Sub(started).Seconds()),
				"ts_ms":    t.UnixMilli(),
			}, true))
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"]; ok {
					if interval, ok := iv.(float64); ok && interval > 0 {
						tick.Reset(time.Duration(interval * float64(time.Second)))
						println("Info:", "Heartbeat interval set to", int(interval), "seconds")
					}
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
