// Package input turns a raw terminal byte stream into per-frame key and mouse input.
package input

import (
	"bufio"
	"io"
	"strconv"
	"time"
)

// escTimeout is how long an unfinished escape sequence waits for its remaining bytes.
var escTimeout = 30 * time.Millisecond

// Mouse tracking: any-event reporting (1003) in SGR encoding (1006).
const (
	enableMouse  = "\x1b[?1003h\x1b[?1006h"
	disableMouse = "\x1b[?1003l\x1b[?1006l"
)

// EnableMouse asks the terminal to report pointer motion and buttons.
func EnableMouse(w io.Writer) error {
	_, err := io.WriteString(w, enableMouse)
	return err
}

// DisableMouse restores normal mouse handling.
func DisableMouse(w io.Writer) error {
	_, err := io.WriteString(w, disableMouse)
	return err
}

// Button is the mouse button in a report.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonNone
)

// Mouse is one decoded SGR mouse report. Col and Row are 1-based cells.
type Mouse struct {
	Col, Row int
	Button   Button
	Press    bool // false for release
	Motion   bool
	Wheel    bool
}

// Input represents the current frame's input state.
type Input struct {
	Quit   bool
	Power  bool
	Escape bool

	Moved    bool // Pointer moved this frame; Col/Row hold the last position
	Col, Row int
	Clicks   []Mouse // Left button presses, in arrival order

	Pressed []byte // Plain key bytes
	Closed  bool   // Stream ended
}

// Stream delivers input bytes via a channel and keeps partial escape sequences between frames.
type Stream struct {
	ch        chan byte
	pending   []byte
	pendingAt time.Time
	closed    bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	fresh := 0

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
			fresh++
		default:
			break drain
		}
	}

	var in Input
	rest := Parse(buf, &in)
	if len(rest) == 0 {
		in.Closed = s.closed
		return in
	}

	// An unfinished sequence waits briefly for the rest of its bytes;
	// if none arrive it was a lone key press.
	now := time.Now()
	if fresh > 0 {
		s.pendingAt = now
	}
	if !s.closed && now.Sub(s.pendingAt) < escTimeout {
		s.pending = append([]byte(nil), rest...)
		return in
	}
	for _, b := range rest {
		applyKey(&in, b)
	}
	in.Closed = s.closed
	return in
}

// Parse decodes buf into in and returns a trailing incomplete escape sequence, if any.
func Parse(buf []byte, in *Input) (rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyKey(in, b)
			continue
		}

		if i+1 >= len(buf) {
			return buf[i:]
		}
		if buf[i+1] != '[' {
			applyKey(in, b)
			continue
		}
		if i+2 >= len(buf) {
			return buf[i:]
		}

		switch buf[i+2] {
		case 'A', 'B', 'C', 'D': // Arrow keys
			i += 2
			continue
		case '<':
			m, n, ok := parseSGR(buf[i+3:])
			if n < 0 {
				return buf[i:]
			}
			// Malformed reports are dropped up to the offending byte.
			if ok {
				applyMouse(in, m)
			}
			i += 2 + n
			continue
		}
		applyKey(in, b)
	}
	return nil
}

// parseSGR decodes "Cb;Cx;Cy(M|m)" following ESC [ <.
// n is the number of bytes consumed, or -1 if buf ends mid-sequence.
func parseSGR(buf []byte) (m Mouse, n int, ok bool) {
	var fields [3]int
	field, start := 0, 0
	for i, c := range buf {
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' && field < 2:
			v, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return m, i + 1, false
			}
			fields[field] = v
			field++
			start = i + 1
		case (c == 'M' || c == 'm') && field == 2:
			v, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return m, i + 1, false
			}
			fields[2] = v
			cb := fields[0]
			return Mouse{
				Col:    fields[1],
				Row:    fields[2],
				Button: Button(cb & 3),
				Press:  c == 'M',
				Motion: cb&32 != 0,
				Wheel:  cb&64 != 0,
			}, i + 1, true
		default:
			return m, i + 1, false
		}
	}
	return m, -1, false
}

func applyMouse(in *Input, m Mouse) {
	if m.Wheel {
		return
	}
	in.Moved = true
	in.Col, in.Row = m.Col, m.Row
	if m.Motion || !m.Press {
		return
	}
	switch m.Button {
	case ButtonLeft:
		in.Clicks = append(in.Clicks, m)
	case ButtonRight:
		in.Power = true
	}
}

// applyKey updates the input from a plain key byte.
func applyKey(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl-C arrives as a byte in raw mode
		in.Quit = true
	case 'p', 'P', ' ':
		in.Power = true
	case '\x1b':
		in.Escape = true
		return
	}
	in.Pressed = append(in.Pressed, b)
}
