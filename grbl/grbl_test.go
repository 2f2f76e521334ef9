package grbl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fornellas/slogxt/log"
	"github.com/stretchr/testify/require"

	"github.com/fornellas/cgl/heightmap"
)

// fakePort scripts the controller side of a session: reads consume responses in order, writes
// are recorded.
type fakePort struct {
	readData    []byte
	writtenData []byte
	closed      bool
}

func newFakePort(responses ...string) *fakePort {
	return &fakePort{readData: []byte(strings.Join(responses, ""))}
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.readData) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.readData)
	p.readData = p.readData[n:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.writtenData = append(p.writtenData, b...)
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) writtenLines() []string {
	lines := strings.Split(string(p.writtenData), "\n")
	return lines[:len(lines)-1]
}

func testContext(t *testing.T) context.Context {
	return log.WithLogger(
		t.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestConnect(t *testing.T) {
	port := newFakePort(
		"\r\n",
		"Grbl 1.1h ['$' for help]\r\n",
	)
	g := New(port)

	welcome, err := g.Connect(testContext(t))
	require.NoError(t, err)
	require.Contains(t, welcome.Version, "1.1h")
}

func TestSendCommand(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		port := newFakePort("ok\r\n")
		g := New(port)
		pushed, err := g.SendCommand(testContext(t), "G21")
		require.NoError(t, err)
		require.Empty(t, pushed)
		require.Equal(t, []string{"G21"}, port.writtenLines())
	})

	t.Run("push messages before response", func(t *testing.T) {
		port := newFakePort("[PRB:1.000,2.000,-0.500:1]\r\n", "ok\r\n")
		g := New(port)
		pushed, err := g.SendCommand(testContext(t), "G38.2 Z-1 F50")
		require.NoError(t, err)
		require.Len(t, pushed, 1)
		probe := pushed[0].(*MessageProbe)
		require.Equal(t, -0.5, probe.Coordinates.Z)
	})

	t.Run("error response", func(t *testing.T) {
		port := newFakePort("error:22\r\n")
		g := New(port)
		_, err := g.SendCommand(testContext(t), "G1 X1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "Feed rate")
	})

	t.Run("alarm", func(t *testing.T) {
		port := newFakePort("ALARM:5\r\n")
		g := New(port)
		_, err := g.SendCommand(testContext(t), "G38.2 Z-1 F50")
		require.Error(t, err)
		require.Contains(t, err.Error(), "Probe did not contact")
	})

	t.Run("multi line command rejected", func(t *testing.T) {
		g := New(newFakePort())
		_, err := g.SendCommand(testContext(t), "G21\nG90")
		require.Error(t, err)
	})
}

func TestProbeGrid(t *testing.T) {
	points := []heightmap.GridPoint{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
	}
	cfg := heightmap.Config{
		ZClearance:    2,
		ProbeFeedRate: 50,
		MaxProbeDepth: 1,
	}

	t.Run("success", func(t *testing.T) {
		port := newFakePort(
			"ok\r\n", // G21
			"ok\r\n", // G90
			"ok\r\n", // G0 Z2
			"ok\r\n", // G0 X0 Y0
			"[PRB:0.000,0.000,-0.100:1]\r\nok\r\n", // G38.2
			"ok\r\n", // G0 Z2
			"ok\r\n", // G0 X10 Y0
			"[PRB:10.000,0.000,-0.200:1]\r\nok\r\n", // G38.2
			"ok\r\n", // G0 Z2
		)
		g := New(port)

		zValues, err := g.ProbeGrid(testContext(t), points, cfg)
		require.NoError(t, err)
		require.Equal(t, []float64{-0.1, -0.2}, zValues)

		written := port.writtenLines()
		require.Equal(t, []string{
			"G21",
			"G90",
			"G0 Z2.0000",
			"G0 X0.0000 Y0.0000",
			"G38.2 Z-1.0000 F50.0000",
			"G0 Z2.0000",
			"G0 X10.0000 Y0.0000",
			"G38.2 Z-1.0000 F50.0000",
			"G0 Z2.0000",
		}, written)
	})

	t.Run("failed probe aborts", func(t *testing.T) {
		port := newFakePort(
			"ok\r\n", // G21
			"ok\r\n", // G90
			"ok\r\n", // G0 Z2
			"ok\r\n", // G0 X0 Y0
			"[PRB:0.000,0.000,0.000:0]\r\nok\r\n", // G38.2: unsuccessful
		)
		g := New(port)

		_, err := g.ProbeGrid(testContext(t), points, cfg)
		require.ErrorIs(t, err, ErrProbeFailed)
	})
}
