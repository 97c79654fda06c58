package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/input"
)

// Largest canvas rendered, in terminal cells. Bigger terminals get a
// centred, framed canvas.
const (
	maxRenderWidth  = 240
	maxRenderHeight = 72
)

// ErrIdle is returned by Run when the player stopped pressing keys.
var ErrIdle = errors.New("session idle")

// RunOptions configures Run.
type RunOptions struct {
	Game         Options
	TermSizeFunc draw.TermSizeFunc
	// IdleTimeout ends the session after this long without input. Zero
	// disables it.
	IdleTimeout time.Duration
}

// Run plays one game on the terminal behind r and w until the player quits,
// the input ends or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, r io.Reader, w io.Writer, opts RunOptions) error {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Game.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := opts.Game.Recorder

	game := NewGame(cfg, opts.Game)
	defer game.Close()

	stream := input.StartStream(r)
	out := draw.NewChunkWriter(w, 0, 0)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	canvas := draw.NewScaledCanvas(1, 1, logicalWidth, logicalHeight)
	termW, termH := -1, -1

	last := time.Now()
	lastInput := last

	for {
		select {
		case <-ctx.Done():
			draw.ClearScreen(w)
			return ctx.Err()
		default:
		}

		frameStart := time.Now()
		dt := frameStart.Sub(last)
		last = frameStart

		// ===== INPUT =====
		in := stream.Read(frameStart)
		if in.Quit || in.Closed {
			draw.ClearScreen(w)
			return nil
		}
		if in.Any() {
			lastInput = frameStart
		} else if opts.IdleTimeout > 0 && frameStart.Sub(lastInput) > opts.IdleTimeout {
			draw.ClearScreen(w)
			logger.Info("closing idle session", zap.Duration("idle", frameStart.Sub(lastInput)))
			return ErrIdle
		}

		// ===== UPDATE =====
		before := game.State()
		game.Update(dt, in)
		if enteredPlay(before, game.State()) {
			// Keys held on the previous screen must not carry into play.
			stream.Reset()
		}
		if recorder != nil {
			recorder.Frame(time.Since(frameStart))
		}

		// ===== DRAW =====
		tw, th, err := opts.TermSizeFunc()
		if err != nil {
			return fmt.Errorf("terminal size: %w", err)
		}
		if tw != termW || th != termH {
			termW, termH = tw, th
			cw, ch, offCol, offRow := draw.Fit(tw, th, maxRenderWidth, maxRenderHeight, logicalWidth, logicalHeight)
			canvas.Resize(cw, ch)
			canvas.SetOffset(offCol, offRow)
			out.SetOffset(offCol, offRow)
			draw.ClearScreen(w)
		}

		draw.ClearScreen(out)
		canvas.RenderBorder(out)
		game.Draw(canvas, out)
		if err := out.Flush(); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}

		// ===== FRAME TIMING =====
		if elapsed := time.Since(frameStart); elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}
}
