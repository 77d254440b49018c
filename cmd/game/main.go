package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/lasereye/internal/audio"
	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/data"
	"github.com/tomz197/lasereye/internal/loop"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lasereye: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		return err
	}
	// The terminal is the display, so logs only go to a configured file.
	log, err := config.NewTerminalLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	table, err := data.LoadOrDefault(cfg.Game.TargetsFile)
	if err != nil {
		return err
	}

	sounds := audio.NewPlayer(cfg.Audio, log)
	if err := sounds.Initialize(); err != nil {
		log.Warn("audio disabled", zap.Error(err))
	}
	defer sounds.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	s, err := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Terminal: cfg.Terminal,
		Game:     cfg.Game,
		Table:    table,
		Logger:   log,
		Sounds:   sounds,
		Username: os.Getenv("USER"),
	})
	if err != nil {
		return err
	}
	return s.Run(ctx)
}
