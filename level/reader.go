package level

import (
	"io"
	"sync"
)

// LevelerReader wraps a Leveler and implements the [io.Reader] interface, yielding the rewritten
// program as newline terminated lines.
type LevelerReader struct {
	leveler *Leveler
	mu      sync.Mutex
	buffer  []byte
	eof     bool
}

func NewLevelerReader(leveler *Leveler) *LevelerReader {
	return &LevelerReader{
		leveler: leveler,
	}
}

func (lr *LevelerReader) Read(p []byte) (int, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if len(lr.buffer) > 0 {
		n := copy(p, lr.buffer)
		lr.buffer = lr.buffer[n:]
		if len(lr.buffer) == 0 && lr.eof {
			return n, io.EOF
		}
		return n, nil
	}

	if lr.eof {
		return 0, io.EOF
	}

	line, err := lr.leveler.Next()
	if err != nil {
		return 0, err
	}
	if line == nil {
		lr.eof = true
		return 0, io.EOF
	}

	data := []byte(*line + "\n")
	n := copy(p, data)
	if n < len(data) {
		lr.buffer = data[n:]
	}
	return n, nil
}
