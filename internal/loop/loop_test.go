package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/input"
)

func fixedSize(cols, rows int) draw.TermSizeFunc {
	return func() (int, int, error) { return cols, rows, nil }
}

func newTestMachine(t *testing.T) *game.Machine {
	t.Helper()
	m, err := game.New(config.Default(), game.Options{})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return m
}

// syncBuffer lets the test read output while Run may still be writing.
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

func runWithTimeout(t *testing.T, ctx context.Context, r io.Reader, w io.Writer, m *game.Machine, opts Options) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, bufio.NewReader(r), w, m, opts)
	}()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRunQuitsOnQ(t *testing.T) {
	var out syncBuffer
	err := runWithTimeout(t, context.Background(), strings.NewReader("q"), &out, newTestMachine(t),
		Options{TermSizeFunc: fixedSize(120, 32)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "\033[?25l") {
		t.Error("cursor not hidden at start")
	}
	if !strings.HasSuffix(got, "\033[?25h") {
		t.Error("cursor not restored at exit")
	}
}

func TestRunStopsWhenReaderCloses(t *testing.T) {
	err := runWithTimeout(t, context.Background(), strings.NewReader(""), io.Discard, newTestMachine(t),
		Options{TermSizeFunc: fixedSize(120, 32)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunShowsShutdownNotice(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out syncBuffer
	err := runWithTimeout(t, ctx, pr, &out, newTestMachine(t), Options{
		TermSizeFunc:   fixedSize(120, 32),
		ShutdownNotice: 60 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "SERVER SHUTTING DOWN") {
		t.Error("shutdown notice never drawn")
	}
}

func TestRunDisconnectsIdlePlayer(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var logs bytes.Buffer
	var out syncBuffer
	err := runWithTimeout(t, context.Background(), pr, &out, newTestMachine(t), Options{
		TermSizeFunc: fixedSize(120, 32),
		Logger:       log.New(&logs),
		IdleWarn:     20 * time.Millisecond,
		IdleLimit:    150 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Are you still there?") {
		t.Error("idle warning never drawn")
	}
	if !strings.Contains(logs.String(), "disconnecting idle player") {
		t.Errorf("logs = %q", logs.String())
	}
}

type failingWriter struct{}

var errClosed = errors.New("connection closed")

func (failingWriter) Write([]byte) (int, error) { return 0, errClosed }

func TestRunReturnsWriterErrors(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	err := runWithTimeout(t, context.Background(), pr, failingWriter{}, newTestMachine(t),
		Options{TermSizeFunc: fixedSize(120, 32)})
	if !errors.Is(err, errClosed) {
		t.Fatalf("Run error = %v, want %v", err, errClosed)
	}
}

func TestRunReportsTerminalSizeError(t *testing.T) {
	sizeErr := errors.New("no tty")
	err := Run(context.Background(), bufio.NewReader(strings.NewReader("")), io.Discard, newTestMachine(t),
		Options{TermSizeFunc: func() (int, int, error) { return 0, 0, sizeErr }})
	if !errors.Is(err, sizeErr) {
		t.Fatalf("Run error = %v, want %v", err, sizeErr)
	}
}

// newTestRunner builds a runner reading from r for driving frames by hand.
func newTestRunner(t *testing.T, r io.Reader, size draw.TermSizeFunc) (*runner, *bytes.Buffer) {
	t.Helper()
	m := newTestMachine(t)
	var out bytes.Buffer
	opts := Options{TermSizeFunc: size}.withDefaults()
	cols, rows, _ := size()
	return &runner{
		m:         m,
		stream:    input.StartStream(bufio.NewReader(r)),
		surface:   draw.NewSurface(cols, rows, m.Config().ScreenWidth, m.Config().ScreenHeight),
		cw:        draw.NewChunkWriter(&out),
		opts:      opts,
		cols:      cols,
		rows:      rows,
		lastInput: time.Now(),
	}, &out
}

func TestFrameForwardsKeysToMachine(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rn, out := newTestRunner(t, pr, fixedSize(120, 32))

	go func() { _, _ = pw.Write([]byte(" ")) }()

	started := false
	for i := 0; i < 200 && !started; i++ {
		if _, err := rn.frame(context.Background(), time.Now(), 20*time.Millisecond); err != nil {
			t.Fatalf("frame: %v", err)
		}
		_, started = rn.m.Active().(*game.LevelIntro)
		time.Sleep(time.Millisecond)
	}
	if !started {
		t.Fatal("space never started the game")
	}
	if !strings.Contains(out.String(), "Level 1") {
		t.Error("level intro not rendered")
	}
}

func TestFrameFollowsResize(t *testing.T) {
	cols, rows := 120, 32
	size := func() (int, int, error) { return cols, rows, nil }
	pr, pw := io.Pipe()
	defer pw.Close()
	rn, _ := newTestRunner(t, pr, size)

	cols, rows = 60, 20
	if _, err := rn.frame(context.Background(), time.Now(), 20*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if rn.surface.Canvas().TerminalWidth() != 60 || rn.cols != 60 || rn.rows != 20 {
		t.Errorf("canvas is %d cols, runner %dx%d; want 60x20",
			rn.surface.Canvas().TerminalWidth(), rn.cols, rn.rows)
	}
}

func TestFrameFreezesGameDuringShutdown(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rn, _ := newTestRunner(t, pr, fixedSize(120, 32))
	rn.m.KeyDown(game.KeyFire)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done, err := rn.frame(ctx, time.Now(), 20*time.Millisecond)
	if err != nil || done {
		t.Fatalf("frame = %v, %v; want not done", done, err)
	}
	if _, ok := rn.m.Active().(*game.Welcome); !ok {
		t.Errorf("game advanced to %s during shutdown", rn.m.Active().Name())
	}

	done, _ = rn.frame(ctx, time.Now(), ShutdownNotice)
	if !done {
		t.Error("loop still running after the shutdown notice expired")
	}
}
