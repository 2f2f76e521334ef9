// Package grbl implements the subset of the Grbl v1.1 serial protocol needed to drive a grid of
// straight Z probes: synchronous command execution, push message parsing and the G38.2 probe
// cycle.
package grbl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Port is the transport Grbl talks over. go.bug.st/serial ports satisfy it, and so does the
// serialtcp bridge. Reads are expected to return os.ErrDeadlineExceeded on timeouts, which lets
// blocking reads observe context cancellation.
type Port interface {
	io.ReadWriter
	io.Closer
}

// Grbl is a synchronous client for a single Grbl controller. It is not safe for concurrent use:
// the probing workflow is strictly sequential.
type Grbl struct {
	port Port
}

func New(port Port) *Grbl {
	return &Grbl{port: port}
}

// readMessage reads and parses the next line the controller pushed. Empty lines are skipped.
func (g *Grbl) readMessage(ctx context.Context) (Message, error) {
	for {
		line, err := g.readLine(ctx)
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		message, err := NewMessage(line)
		if err != nil {
			return nil, fmt.Errorf("grbl: bad message: %w", err)
		}
		return message, nil
	}
}

func (g *Grbl) readLine(ctx context.Context) (string, error) {
	line := []byte{}
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("grbl: read: %w", err)
		}
		b := make([]byte, 1)
		n, err := g.port.Read(b)
		if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
			return "", fmt.Errorf("grbl: read: %w", err)
		}
		if n == 0 {
			continue
		}
		if b[0] == '\n' {
			break
		}
		line = append(line, b[0])
	}
	if len(line) >= 1 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return string(line), nil
}

// Connect waits for the Grbl welcome banner, which the controller prints after reset or port
// open.
func (g *Grbl) Connect(ctx context.Context) (*MessageWelcome, error) {
	ctx, cancel := context.WithDeadline(ctx, time.Now().Add(5*time.Second))
	defer cancel()
	for {
		message, err := g.readMessage(ctx)
		if err != nil {
			return nil, fmt.Errorf("grbl: welcome message not received: %w", err)
		}
		if welcome, ok := message.(*MessageWelcome); ok {
			return welcome, nil
		}
	}
}

// SendCommand sends a single command line and waits for its response. Push messages received
// before the response (probe reports, status, feedback) are returned alongside. An "error:N"
// response or an alarm is returned as an error.
func (g *Grbl) SendCommand(ctx context.Context, command string) ([]Message, error) {
	if strings.ContainsAny(command, "\r\n") {
		return nil, fmt.Errorf("grbl: command must be a single line: %#v", command)
	}

	line := append([]byte(command), '\n')
	n, err := g.port.Write(line)
	if err != nil {
		return nil, fmt.Errorf("grbl: write: %w", err)
	}
	if n != len(line) {
		return nil, fmt.Errorf("grbl: write: wrote %d bytes, expected %d", n, len(line))
	}

	var pushed []Message
	for {
		message, err := g.readMessage(ctx)
		if err != nil {
			return nil, err
		}
		switch m := message.(type) {
		case *MessageResponse:
			if m.Err != nil {
				return pushed, fmt.Errorf("grbl: %s: %w", command, m.Err)
			}
			return pushed, nil
		case *MessageAlarm:
			return pushed, fmt.Errorf("grbl: %s: %s", command, m)
		default:
			pushed = append(pushed, message)
		}
	}
}

// Close closes the underlying port.
func (g *Grbl) Close() error {
	return g.port.Close()
}
