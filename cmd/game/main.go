package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/audio/beepaudio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/logging"
	"github.com/tomz197/spaceshooter/internal/loop"
)

// defaultLogFile receives logs by default, since the terminal is the screen.
const defaultLogFile = "spaceshooter.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if cfg.Logging.Output == "stderr" || cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = defaultLogFile
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var player audio.Player = audio.Nop{}
	if config.GetEnvBool("SHOOTER_AUDIO", true) {
		b, err := beepaudio.New(logger, volume())
		if err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			defer b.Close()
			player = b
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = loop.Run(ctx, cfg, os.Stdin, os.Stdout, loop.RunOptions{
		Game: loop.Options{Logger: logger, Audio: player},
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// volume reads SHOOTER_VOLUME, a linear gain where 1 is full scale.
func volume() float64 {
	v, err := strconv.ParseFloat(config.GetEnv("SHOOTER_VOLUME", "0.5"), 64)
	if err != nil || v < 0 {
		return 0.5
	}
	return v
}
