package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/prefs"
	"golang.org/x/term"
)

func main() {
	configPath := flag.String("config", config.GetEnv("INVADERS_CONFIG", ""), "TOML game configuration file")
	skin := flag.Int("skin", -1, "select and remember a ship skin")
	flag.Parse()

	if err := run(*configPath, *skin); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, skin int) error {
	// The terminal belongs to the game, so logs only go to a file when asked for.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("INVADERS_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "invaders")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store := prefs.NewFile(config.GetEnv("INVADERS_PREFS", defaultPrefsPath()), logger)
	if skin >= 0 {
		if skin >= cfg.SkinCount {
			return fmt.Errorf("skin %d out of range [0, %d)", skin, cfg.SkinCount)
		}
		if err := store.SetSkin(skin); err != nil {
			return err
		}
	}

	sounds := audio.NewManager(logger)
	if err := sounds.Init(); err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
	}
	defer sounds.Close()

	m, err := game.New(cfg, game.Options{Sounds: sounds, Prefs: store, Logger: logger})
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	return loop.Run(ctx, reader, os.Stdout, m, loop.Options{Logger: logger})
}

// defaultPrefsPath puts preferences in the user config dir, or the working dir without one.
func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "invaders-prefs.toml"
	}
	return filepath.Join(dir, "invaders", "prefs.toml")
}
