package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/game"
)

// syncBuffer is a bytes.Buffer safe to write from the session goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func testOptions() Options {
	cfg := config.Defaults()
	cfg.Game.Seed = 1
	return Options{
		Terminal:     cfg.Terminal,
		Game:         cfg.Game,
		TermSizeFunc: fixedSize(80, 24),
		Username:     "tester",
	}
}

// runSession starts a session on a pipe and returns the input end and a
// channel that yields Run's result.
func runSession(t *testing.T, opts Options) (*Session, *io.PipeWriter, *syncBuffer, <-chan error) {
	t.Helper()
	r, w := io.Pipe()
	out := &syncBuffer{}
	s, err := NewSession(bufio.NewReader(r), out, opts)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	t.Cleanup(func() { w.Close() })
	return s, w, out, done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("session did not stop")
	}
}

func TestSessionQuitsOnKey(t *testing.T) {
	hub := NewHub()
	opts := testOptions()
	opts.Hub = hub
	_, w, out, done := runSession(t, opts)

	if hub.Count() != 1 {
		t.Errorf("hub count = %d, want 1", hub.Count())
	}
	w.Write([]byte("q"))
	wait(t, done)

	if hub.Count() != 0 {
		t.Error("session still registered after quitting")
	}
	got := out.String()
	if !strings.Contains(got, "\x1b[?1003h") || !strings.Contains(got, "\x1b[?1003l") {
		t.Error("mouse reporting not enabled and restored")
	}
	if !strings.Contains(got, "shoot the sky") {
		t.Error("title screen not drawn")
	}
}

func TestSessionFiresOnClick(t *testing.T) {
	opts := testOptions()
	opts.AutoStart = true
	s, w, _, done := runSession(t, opts)

	w.Write([]byte("\x1b[<0;40;5M"))
	time.Sleep(100 * time.Millisecond)
	w.Write([]byte("q"))
	wait(t, done)

	if got := s.Engine().Stats().Shots; got != 1 {
		t.Errorf("shots = %d, want 1", got)
	}
	if s.Engine().Running() {
		t.Error("engine still running after the session ended")
	}
	// Cell (40,5) is the center of a 10x20 px cell.
	if st := s.State(); st.PointerX != 395 || st.PointerY != 90 {
		t.Errorf("pointer = %v,%v, want 395,90", st.PointerX, st.PointerY)
	}
}

func TestSessionStartsFromTitle(t *testing.T) {
	s, w, _, done := runSession(t, testOptions())

	w.Write([]byte(" "))
	time.Sleep(100 * time.Millisecond)
	w.Write([]byte("\x1b"))
	time.Sleep(100 * time.Millisecond)
	w.Write([]byte("q"))
	wait(t, done)

	if s.State().Phase != PhaseStart {
		t.Errorf("phase = %v, want start after escape", s.State().Phase)
	}
	if s.Engine().Running() {
		t.Error("engine still running on the title screen")
	}
}

func TestHubShutdownNotifiesSessions(t *testing.T) {
	hub := NewHub()
	opts := testOptions()
	opts.Hub = hub
	opts.AutoStart = true
	s, w, out, done := runSession(t, opts)

	left := make(chan bool, 1)
	go func() { left <- hub.Shutdown(2 * time.Second) }()
	time.Sleep(100 * time.Millisecond)
	w.Write([]byte("q"))
	wait(t, done)

	if !<-left {
		t.Error("hub shutdown timed out")
	}
	if s.State().Phase != PhaseShutdown {
		t.Errorf("phase = %v, want shutdown", s.State().Phase)
	}
	if !strings.Contains(out.String(), "SERVER SHUTTING DOWN") {
		t.Error("shutdown notice not drawn")
	}
}

func TestHubShutdownTimesOut(t *testing.T) {
	hub := NewHub()
	hub.Register("stuck")
	if hub.Shutdown(50 * time.Millisecond) {
		t.Error("shutdown reported success with a session still registered")
	}
}

func TestPowerLabelsHaveFixedWidth(t *testing.T) {
	want := -1
	for _, ind := range []game.PowerIndicator{game.IndicatorIdle, game.IndicatorReady, game.IndicatorCharging} {
		label, _ := powerLabel(ind)
		if want < 0 {
			want = len(label)
		}
		if len(label) != want {
			t.Errorf("%v label %q has width %d, want %d", ind, label, len(label), want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ana", "ana"},
		{"", ""},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmno…"},
	}
	for _, tt := range tests {
		if got := displayName(tt.in); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
