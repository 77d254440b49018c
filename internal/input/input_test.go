package input

import (
	"bufio"
	"bytes"
	"io"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		quit  bool
		power bool
	}{
		{"q quits", "q", true, false},
		{"ctrl-c quits", "\x03", true, false},
		{"p activates", "p", false, true},
		{"space activates", " ", false, true},
		{"arrows ignored", "\x1b[A\x1b[D", false, false},
		{"other keys", "xyz", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			if rest := Parse([]byte(tt.in), &in); len(rest) != 0 {
				t.Fatalf("unexpected rest %q", rest)
			}
			if in.Quit != tt.quit || in.Power != tt.power {
				t.Errorf("quit=%v power=%v", in.Quit, in.Power)
			}
		})
	}
}

func TestParseSGRMouse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		moved    bool
		col, row int
		clicks   int
		power    bool
	}{
		{"left press", "\x1b[<0;12;5M", true, 12, 5, 1, false},
		{"left release", "\x1b[<0;12;5m", true, 12, 5, 0, false},
		{"motion no button", "\x1b[<35;80;24M", true, 80, 24, 0, false},
		{"drag with left held", "\x1b[<32;3;4M", true, 3, 4, 0, false},
		{"right press", "\x1b[<2;1;1M", true, 1, 1, 0, true},
		{"wheel ignored", "\x1b[<64;9;9M", false, 0, 0, 0, false},
		{"two reports keep last position", "\x1b[<35;1;1M\x1b[<0;7;8M", true, 7, 8, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			if rest := Parse([]byte(tt.in), &in); len(rest) != 0 {
				t.Fatalf("unexpected rest %q", rest)
			}
			if in.Moved != tt.moved || in.Col != tt.col || in.Row != tt.row {
				t.Errorf("moved=%v pos=%d,%d", in.Moved, in.Col, in.Row)
			}
			if len(in.Clicks) != tt.clicks {
				t.Errorf("clicks = %d, want %d", len(in.Clicks), tt.clicks)
			}
			if in.Power != tt.power {
				t.Errorf("power = %v", in.Power)
			}
			if len(in.Pressed) != 0 || in.Escape {
				t.Errorf("mouse report leaked keys: %q escape=%v", in.Pressed, in.Escape)
			}
		})
	}
}

func TestParseKeepsIncompleteSequence(t *testing.T) {
	var in Input
	rest := Parse([]byte("p\x1b[<0;12"), &in)
	if string(rest) != "\x1b[<0;12" {
		t.Fatalf("rest = %q", rest)
	}
	if !in.Power {
		t.Error("key before the partial sequence lost")
	}

	in = Input{}
	rest = Parse(append(rest, []byte(";5M")...), &in)
	if len(rest) != 0 || len(in.Clicks) != 1 || in.Clicks[0].Col != 12 {
		t.Errorf("rest=%q clicks=%+v", rest, in.Clicks)
	}
}

func TestParseMalformedReportSkipped(t *testing.T) {
	var in Input
	rest := Parse([]byte("\x1b[<0;x;5Mq"), &in)
	if len(rest) != 0 {
		t.Fatalf("rest = %q", rest)
	}
	if in.Moved || len(in.Clicks) != 0 {
		t.Error("malformed report decoded")
	}
	if !in.Quit {
		t.Error("key after malformed report lost")
	}
}

func TestReadInputFromStream(t *testing.T) {
	r, w := io.Pipe()
	s := StartStream(bufio.NewReader(r))

	go func() {
		w.Write([]byte("\x1b[<0;4;2M"))
		w.Close()
	}()

	var got Input
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		got.Clicks = append(got.Clicks, in.Clicks...)
		if in.Closed {
			got.Closed = true
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !got.Closed {
		t.Fatal("stream close not reported")
	}
	if len(got.Clicks) != 1 || got.Clicks[0].Col != 4 || got.Clicks[0].Row != 2 {
		t.Errorf("clicks = %+v", got.Clicks)
	}
}

func TestLoneEscapeIsFlushed(t *testing.T) {
	s := &Stream{ch: make(chan byte, 4)}
	s.ch <- '\x1b'

	in := ReadInput(s)
	if in.Escape {
		t.Fatal("escape reported before the timeout")
	}
	time.Sleep(escTimeout + 5*time.Millisecond)
	in = ReadInput(s)
	if !in.Escape {
		t.Error("held escape not flushed as a key")
	}
}

func TestMouseModeSequences(t *testing.T) {
	var buf bytes.Buffer
	if err := EnableMouse(&buf); err != nil {
		t.Fatal(err)
	}
	if err := DisableMouse(&buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != enableMouse+disableMouse {
		t.Errorf("wrote %q", got)
	}
}
