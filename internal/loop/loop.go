// Package loop drives a game.Machine from a terminal at a fixed frame rate.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/input"
)

// Options configures Run. The zero value plays locally without idle limits.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger

	// IdleWarn and IdleLimit enable the inactivity notice and disconnect.
	// Zero disables them.
	IdleWarn  time.Duration
	IdleLimit time.Duration

	// ShutdownNotice is how long the shutdown message is shown after ctx is
	// cancelled. Zero uses the package default.
	ShutdownNotice time.Duration
}

func (o Options) withDefaults() Options {
	if o.TermSizeFunc == nil {
		o.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.ShutdownNotice <= 0 {
		o.ShutdownNotice = ShutdownNotice
	}
	return o
}

// runner holds the per-connection loop state.
type runner struct {
	m       *game.Machine
	stream  *input.Stream
	surface *draw.Surface
	cw      *draw.ChunkWriter
	opts    Options

	cols, rows   int
	lastInput    time.Time
	shuttingDown bool
	shutdownLeft time.Duration
}

// Run starts the Input → Update → Draw cycle for m. It returns nil when the
// player quits, the reader closes, the player idles out, or the shutdown
// notice that follows ctx cancellation has expired. Writer errors are returned.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, m *game.Machine, opts Options) error {
	opts = opts.withDefaults()
	cfg := m.Config()
	frameTime := time.Second / time.Duration(cfg.FPS)

	cols, rows, err := draw.TerminalSizeRawWith(opts.TermSizeFunc)
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	rn := &runner{
		m:         m,
		stream:    input.StartStream(r),
		surface:   draw.NewSurface(cols, rows, cfg.ScreenWidth, cfg.ScreenHeight),
		cw:        draw.NewChunkWriter(w),
		opts:      opts,
		cols:      cols,
		rows:      rows,
		lastInput: time.Now(),
	}

	draw.HideCursor(w)
	defer draw.ShowCursor(w)

	lastTime := time.Now()
	for {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		done, err := rn.frame(ctx, frameStart, delta)
		if err != nil {
			return err
		}
		if done {
			break
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}

// frame runs one iteration. done reports that the loop should stop.
func (rn *runner) frame(ctx context.Context, now time.Time, delta time.Duration) (done bool, err error) {
	events, quit := rn.stream.Poll(now)
	if quit {
		rn.opts.Logger.Debug("player quit")
		return true, nil
	}
	if len(events) > 0 {
		rn.lastInput = now
	}

	if !rn.shuttingDown && ctx.Err() != nil {
		rn.shuttingDown = true
		rn.shutdownLeft = rn.opts.ShutdownNotice
		rn.opts.Logger.Info("showing shutdown notice", "for", rn.shutdownLeft)
	}

	if rn.shuttingDown {
		rn.shutdownLeft -= delta
		if rn.shutdownLeft <= 0 {
			return true, nil
		}
	} else {
		idle := now.Sub(rn.lastInput)
		if rn.opts.IdleLimit > 0 && idle > rn.opts.IdleLimit {
			rn.opts.Logger.Info("disconnecting idle player", "idle", idle.Round(time.Second))
			return true, nil
		}
		input.Apply(rn.m, events)
		rn.m.Update()
	}

	rn.updateScreen()
	return false, rn.draw(now)
}

// updateScreen handles terminal resize.
func (rn *runner) updateScreen() {
	cols, rows, err := draw.TerminalSizeRawWith(rn.opts.TermSizeFunc)
	if err != nil || (cols == rn.cols && rows == rn.rows) {
		return
	}
	rn.cols, rn.rows = cols, rows
	rn.surface.Resize(cols, rows)
}

// draw renders the active state plus any loop notice and flushes the frame.
func (rn *runner) draw(now time.Time) error {
	draw.ClearScreen(rn.cw)
	rn.surface.Clear()
	rn.m.Draw(rn.surface)

	for i, line := range rn.notice(now) {
		rn.surface.DrawText(line, rn.m.Config().ScreenWidth/2, float64(40+i*20), noticeStyle)
	}

	if err := rn.surface.Render(rn.cw); err != nil {
		return err
	}
	if err := rn.surface.Canvas().RenderBorder(rn.cw); err != nil {
		return err
	}
	return rn.cw.Flush()
}

var noticeStyle = game.TextStyle{Size: 14, Align: game.AlignCenter}

// notice returns the loop level message lines shown over the game, if any.
func (rn *runner) notice(now time.Time) []string {
	switch {
	case rn.shuttingDown:
		return []string{
			"SERVER SHUTTING DOWN",
			fmt.Sprintf("Disconnecting in %d seconds...", int(rn.shutdownLeft.Seconds())+1),
			"Press Q to disconnect now",
		}
	case rn.opts.IdleWarn > 0 && now.Sub(rn.lastInput) > rn.opts.IdleWarn:
		left := rn.opts.IdleLimit - now.Sub(rn.lastInput)
		if rn.opts.IdleLimit <= 0 {
			return []string{"Are you still there?"}
		}
		return []string{
			"Are you still there?",
			fmt.Sprintf("Disconnecting in %d seconds, press any key", int(left.Seconds())+1),
		}
	}
	return nil
}
