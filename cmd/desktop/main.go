package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tomz197/lasereye/internal/audio"
	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/data"
	"github.com/tomz197/lasereye/internal/desktop"
	"go.uber.org/zap"
)

func main() {
	width := flag.Int("width", 960, "window width in pixels")
	height := flag.Int("height", 640, "window height in pixels")
	flag.Parse()

	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "lasereye-desktop: %v\n", err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg.Logging, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lasereye-desktop: create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	table, err := data.LoadOrDefault(cfg.Game.TargetsFile)
	if err != nil {
		log.Fatal("load target table", zap.Error(err))
	}

	sounds := audio.NewPlayer(cfg.Audio, log)
	if err := sounds.Initialize(); err != nil {
		log.Warn("audio disabled", zap.Error(err))
	}
	defer sounds.Close()

	app, err := desktop.New(desktop.Options{
		Game:   cfg.Game,
		Table:  table,
		Logger: log,
		Sounds: sounds,
		Width:  *width,
		Height: *height,
	})
	if err != nil {
		log.Fatal("create game", zap.Error(err))
	}
	if err := desktop.Run(app, "Laser Eye"); err != nil {
		log.Error("window closed with error", zap.Error(err))
	}
}
