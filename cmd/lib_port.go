package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/fornellas/cgl/grbl"
	"github.com/fornellas/cgl/serialtcp"
)

var portName string
var defaultPortName = ""

var address string
var defaultAddress = ""

var dialTimeout = 10 * time.Second

func AddPortFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&portName, "port-name", "p", defaultPortName, "Serial port name to open")
	cmd.PersistentFlags().StringVarP(&address, "address", "a", defaultAddress, "TCP address to connect to")
}

// OpenPort opens the machine connection selected by the port flags: a local serial port at
// 115200 8N1 or a TCP bridge to a remote one.
func OpenPort(ctx context.Context) (grbl.Port, error) {
	if portName != "" && address != "" {
		return nil, fmt.Errorf("flags --port-name and --address can not be set simultaneously")
	}

	if portName != "" {
		port, err := serial.Open(portName, &serial.Mode{
			BaudRate: 115200,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
		}
		if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
			return nil, err
		}
		return port, nil
	}

	if address != "" {
		port, err := serialtcp.TcpPortDial(ctx, address, dialTimeout)
		if err != nil {
			return nil, err
		}
		if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
			return nil, err
		}
		return port, nil
	}

	return nil, fmt.Errorf("either --port-name or --address must be set")
}

func init() {
	resetFlagsFns = append(resetFlagsFns, func() {
		portName = defaultPortName
		address = defaultAddress
	})
}
