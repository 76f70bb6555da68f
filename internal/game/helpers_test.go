package game

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingSounds struct {
	loaded []string
	played []string
	muted  bool
}

func (r *recordingSounds) Load(name string) { r.loaded = append(r.loaded, name) }

func (r *recordingSounds) Play(name string) {
	if r.muted {
		return
	}
	r.played = append(r.played, name)
}

func (r *recordingSounds) SetMuted(m bool) { r.muted = m }

func (r *recordingSounds) Muted() bool { return r.muted }

func (r *recordingSounds) count(name string) int {
	n := 0
	for _, p := range r.played {
		if p == name {
			n++
		}
	}
	return n
}

type fixedPrefs int

func (f fixedPrefs) Skin() int { return int(f) }

type drawCall struct {
	sprite Sprite
	frame  int
	rect   physics.Rect
}

type recordingSurface struct {
	clears  int
	sprites []drawCall
	texts   []string
}

func (r *recordingSurface) Clear() {
	r.clears++
	r.sprites = r.sprites[:0]
	r.texts = r.texts[:0]
}

func (r *recordingSurface) DrawSprite(s Sprite, rect physics.Rect) {
	r.sprites = append(r.sprites, drawCall{sprite: s, frame: -1, rect: rect})
}

func (r *recordingSurface) DrawFrame(s Sprite, frame int, rect physics.Rect) {
	r.sprites = append(r.sprites, drawCall{sprite: s, frame: frame, rect: rect})
}

func (r *recordingSurface) DrawText(text string, _, _ float64, _ TextStyle) {
	r.texts = append(r.texts, text)
}

func (r *recordingSurface) countKind(k SpriteKind) int {
	n := 0
	for _, c := range r.sprites {
		if c.sprite.Kind == k {
			n++
		}
	}
	return n
}

type testRig struct {
	m      *Machine
	clock  *fakeClock
	sounds *recordingSounds
	logs   *bytes.Buffer
}

func newTestRig(t *testing.T, cfg config.Config) *testRig {
	t.Helper()
	rig := &testRig{
		clock:  &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		sounds: &recordingSounds{},
		logs:   &bytes.Buffer{},
	}
	logger := log.New(rig.logs)
	logger.SetLevel(log.DebugLevel)

	m, err := New(cfg, Options{
		Sounds: rig.sounds,
		Clock:  rig.clock,
		Rand:   rand.New(rand.NewSource(1)),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rig.m = m
	return rig
}

// press queues a key press and release, acted on by the next tick.
func (r *testRig) press(k Key) {
	r.m.KeyDown(k)
	r.m.KeyUp(k)
}

// tickUntil runs ticks until cond holds, failing after limit ticks.
func (r *testRig) tickUntil(t *testing.T, limit int, cond func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		r.m.Update()
	}
	if !cond() {
		t.Fatalf("condition not reached after %d ticks, active state %s", limit, r.m.Active().Name())
	}
}

// startPlay drives the machine from the welcome screen into level 1.
func (r *testRig) startPlay(t *testing.T) *Play {
	t.Helper()
	r.press(KeyFire)
	r.m.Update()
	r.tickUntil(t, 1000, func() bool {
		_, ok := r.m.Active().(*Play)
		return ok
	})
	return r.m.Active().(*Play)
}

// quietConfig is the default configuration without bombs.
func quietConfig() config.Config {
	cfg := config.Default()
	cfg.BombRate = 0
	return cfg
}
