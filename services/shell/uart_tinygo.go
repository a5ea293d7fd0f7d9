//go:build tinygo

package shell

import (
	"context"
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"sensornode-go/errcode"
)

// UARTConfig selects and configures the console UART.
type UARTConfig struct {
	ID   string // "uart0" or "uart1"
	Baud uint32
	TX   int
	RX   int
}

// uartPort adapts uartx's context-aware receive to io.Reader for the REPL.
type uartPort struct {
	ctx context.Context
	u   *uartx.UART
}

func (p *uartPort) Read(b []byte) (int, error)  { return p.u.RecvSomeContext(p.ctx, b) }
func (p *uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }

// OpenUART configures the selected UART and returns the console transport.
func OpenUART(ctx context.Context, cfg UARTConfig) (io.ReadWriter, error) {
	var hw *uartx.UART
	switch cfg.ID {
	case "uart0", "":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, errcode.InvalidParams
	}
	// Defaults inside uartx apply when fields are zero.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TX),
		RX:       machine.Pin(cfg.RX),
	}); err != nil {
		return nil, err
	}
	return &uartPort{ctx: ctx, u: hw}, nil
}
