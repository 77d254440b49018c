package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqReset      = "\033[0m"
)

// ChunkWriter collects one frame of terminal output. Positions passed to
// WriteAt are relative to the render area; the letterbox offset is added here.
// Flush sends the frame in writes of at most maxChunkSize bytes.
type ChunkWriter struct {
	w      io.Writer
	buf    []byte
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter returns a frame writer for w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		w:      w,
		buf:    make([]byte, 0, 16*1024),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the render area, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

func (cw *ChunkWriter) WriteString(s string) (int, error) {
	cw.buf = append(cw.buf, s...)
	return len(s), nil
}

// Clear queues a full terminal clear.
func (cw *ChunkWriter) Clear() {
	cw.buf = append(cw.buf, seqClear...)
}

func (cw *ChunkWriter) moveTo(col, row int) {
	cw.buf = append(cw.buf, "\033["...)
	cw.buf = strconv.AppendInt(cw.buf, int64(row+cw.offRow), 10)
	cw.buf = append(cw.buf, ';')
	cw.buf = strconv.AppendInt(cw.buf, int64(col+cw.offCol), 10)
	cw.buf = append(cw.buf, 'H')
}

// WriteAt writes s at a 1-based position in the render area.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.moveTo(col, row)
	cw.buf = append(cw.buf, s...)
}

// WriteColorAt is WriteAt in a foreground color.
func (cw *ChunkWriter) WriteColorAt(col, row int, fg Color, s string) {
	cw.moveTo(col, row)
	cw.buf = append(cw.buf, "\033["...)
	cw.buf = strconv.AppendInt(cw.buf, int64(fgCodes[fg]), 10)
	cw.buf = append(cw.buf, 'm')
	cw.buf = append(cw.buf, s...)
	cw.buf = append(cw.buf, seqReset...)
}

// Pending returns the number of buffered bytes.
func (cw *ChunkWriter) Pending() int {
	return len(cw.buf)
}

// Flush writes the frame and empties the buffer. Chunks may split escape
// sequences; the terminal reassembles them.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf
	cw.buf = cw.buf[:0]
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc reports the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func ClearScreen(w io.Writer) { io.WriteString(w, seqClear) }
func HideCursor(w io.Writer)  { io.WriteString(w, seqHideCursor) }
func ShowCursor(w io.Writer)  { io.WriteString(w, seqShowCursor) }

// ClampSize fits a terminal into a maximum render area and returns the
// letterbox offsets that center it.
func ClampSize(termWidth, termHeight, maxWidth, maxHeight int) (width, height, offsetCol, offsetRow int) {
	width = min(termWidth, maxWidth)
	height = min(termHeight, maxHeight)
	return width, height, (termWidth - width) / 2, (termHeight - height) / 2
}
