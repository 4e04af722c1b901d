//go:build rp2040

package bridge

import (
	"context"
	"io"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// Default dialler for RP2040 targets. Hosts and tests inject their own.
func init() {
	UARTDial = dialRP2UART
}

func dialRP2UART(_ context.Context, u UARTConfig) (io.ReadWriteCloser, error) {
	hw := uartx.UART0
	// GPIO 4, 8, 20 and 24 mux UART1 TX on the RP2040.
	switch u.TxPin {
	case 4, 8, 20, 24:
		hw = uartx.UART1
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: uint32(u.Baud),
		TX:       machine.Pin(u.TxPin),
		RX:       machine.Pin(u.RxPin),
	}); err != nil {
		return nil, err
	}
	return &rp2Port{
		u:       hw,
		timeout: time.Duration(u.ReadTimeoutMS) * time.Millisecond,
	}, nil
}

// rp2Port adapts uartx to io.ReadWriteCloser.
type rp2Port struct {
	u       *uartx.UART
	timeout time.Duration
}

func (p *rp2Port) Read(b []byte) (int, error) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.u.RecvSomeContext(ctx, b)
}

func (p *rp2Port) Write(b []byte) (int, error) { return p.u.Write(b) }

// The hardware UART is a shared peripheral; close is a no-op.
func (p *rp2Port) Close() error { return nil }
