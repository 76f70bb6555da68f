package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/prefs"
	"github.com/tomz197/invaders/internal/window"
)

func main() {
	configPath := flag.String("config", config.GetEnv("INVADERS_CONFIG", ""), "TOML game configuration file")
	skin := flag.Int("skin", -1, "select and remember a ship skin")
	prefsPath := flag.String("prefs", config.GetEnv("INVADERS_PREFS", "invaders-prefs.toml"), "preference file")
	flag.Parse()

	logger := config.NewLogger(os.Stderr, "invaders")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load game config", "err", err)
	}

	store := prefs.NewFile(*prefsPath, logger)
	if *skin >= 0 {
		if *skin >= cfg.SkinCount {
			logger.Fatal("skin out of range", "skin", *skin, "count", cfg.SkinCount)
		}
		if err := store.SetSkin(*skin); err != nil {
			logger.Fatal("failed to save skin", "err", err)
		}
	}

	sounds := audio.NewManager(logger)
	if err := sounds.Init(); err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
	}
	defer sounds.Close()

	m, err := game.New(cfg, game.Options{Sounds: sounds, Prefs: store, Logger: logger})
	if err != nil {
		logger.Fatal("failed to start game", "err", err)
	}

	ebiten.SetWindowSize(int(cfg.ScreenWidth), int(cfg.ScreenHeight))
	ebiten.SetWindowTitle("Space Invaders")
	ebiten.SetTPS(cfg.FPS)
	if err := ebiten.RunGame(window.New(m)); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
