// Package serialtcp exposes a TCP connection as a serial port, enabling control of a machine
// whose serial port is bridged over the network (see the serve command).
package serialtcp

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/fornellas/slogxt/log"
	"go.bug.st/serial"
)

var errNotSupported = errors.New("not supported over TCP")

// TcpPort partially implements the serial.Port interface over a TCP connection: modem control
// methods fail, everything the byte stream needs works.
type TcpPort struct {
	conn        net.Conn
	readTimeout time.Duration
}

func TcpPortDial(ctx context.Context, address string, timeout time.Duration) (*TcpPort, error) {
	logger := log.MustLogger(ctx)
	logger.Info("Dialing TCP port", "address", address, "timeout", timeout)
	dialer := &net.Dialer{
		Timeout: timeout,
	}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return &TcpPort{conn: conn}, nil
}

func (tp *TcpPort) Read(p []byte) (n int, err error) {
	deadline := time.Time{}
	if tp.readTimeout != serial.NoTimeout {
		deadline = time.Now().Add(tp.readTimeout)
	}
	if err := tp.conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	return tp.conn.Read(p)
}

func (tp *TcpPort) Write(p []byte) (n int, err error) {
	return tp.conn.Write(p)
}

func (tp *TcpPort) SetReadTimeout(t time.Duration) error {
	tp.readTimeout = t
	return nil
}

func (tp *TcpPort) Close() error {
	return tp.conn.Close()
}

func (tp *TcpPort) SetMode(mode *serial.Mode) error {
	return errNotSupported
}

func (tp *TcpPort) Drain() error {
	return errNotSupported
}

func (tp *TcpPort) ResetInputBuffer() error {
	return errNotSupported
}

func (tp *TcpPort) ResetOutputBuffer() error {
	return errNotSupported
}

func (tp *TcpPort) SetDTR(dtr bool) error {
	return errNotSupported
}

func (tp *TcpPort) SetRTS(rts bool) error {
	return errNotSupported
}

func (tp *TcpPort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return nil, errNotSupported
}

func (tp *TcpPort) Break(time.Duration) error {
	return errNotSupported
}
