package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	errorsmod "cosmossdk.io/errors"

	"github.com/oxygene76/orrery/internal/types"
)

// JSONLFrameWriter writes one JSON frame per line
type JSONLFrameWriter struct {
	mu     sync.Mutex
	bw     *bufio.Writer
	closer io.Closer
	closed bool
}

// NewJSONLFrameWriter writes frames to w. If w is an io.Closer it is closed
// together with the writer.
func NewJSONLFrameWriter(w io.Writer) *JSONLFrameWriter {
	jw := &JSONLFrameWriter{bw: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		jw.closer = c
	}
	return jw
}

// CreateJSONLFile creates (or truncates) path and writes frames to it
func CreateJSONLFile(path string) (*JSONLFrameWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewJSONLFrameWriter(f), nil
}

// OnFrame appends frame as a single line
func (w *JSONLFrameWriter) OnFrame(_ context.Context, frame types.FrameMessage) error {
	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return types.ErrSinkClosed
	}
	if _, err := w.bw.Write(b); err != nil {
		return errorsmod.Wrap(err, "write frame")
	}
	return w.bw.WriteByte('\n')
}

// Flush pushes buffered lines to the underlying writer
func (w *JSONLFrameWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bw.Flush()
}

// Close flushes and closes the underlying writer
func (w *JSONLFrameWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.bw.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
