// Package game implements the invaders state machine and the per-tick play simulation.
//
// A Machine owns a stack of states. Only the top state is active: it receives
// queued key presses, the per-tick update and the draw call. States never hold a
// reference back to the machine; everything they need arrives through Env.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/config"
)

// Env is the explicit context handed to every state handler.
type Env struct {
	Config  config.Config
	Session *Session
	Keys    *KeySet
	Sounds  Sounds
	Prefs   Preferences
	Clock   Clock
	Rand    *rand.Rand
	Log     *log.Logger
}

// skin returns the preferred skin, falling back to 0 when out of range.
func (e *Env) skin() int {
	s := e.Prefs.Skin()
	if s < 0 || s >= e.Config.SkinCount {
		return 0
	}
	return s
}

// Options supplies the machine's collaborators. Nil fields get defaults.
type Options struct {
	Sounds Sounds
	Prefs  Preferences
	Clock  Clock
	Rand   *rand.Rand
	Logger *log.Logger
}

// Machine drives the game. Key events may arrive from any goroutine; Tick,
// Update and Draw must be called from a single driver goroutine.
type Machine struct {
	env   Env
	stack []State

	session Session
	keys    KeySet

	mu      sync.Mutex
	pending []Key
	held    KeySet // Held keys as reported by input, copied into keys each tick
}

// New validates cfg and returns a machine showing the welcome screen.
func New(cfg config.Config, opts Options) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	if opts.Sounds == nil {
		opts.Sounds = &NopSounds{}
	}
	if opts.Prefs == nil {
		opts.Prefs = DefaultPreferences{}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := &Machine{}
	m.session.reset(cfg.InitialLives)
	m.env = Env{
		Config:  cfg,
		Session: &m.session,
		Keys:    &m.keys,
		Sounds:  opts.Sounds,
		Prefs:   opts.Prefs,
		Clock:   opts.Clock,
		Rand:    opts.Rand,
		Log:     opts.Logger,
	}

	m.apply(push(NewWelcome()))
	return m, nil
}

// Config returns the validated base configuration.
func (m *Machine) Config() config.Config {
	return m.env.Config
}

// Active returns the state on top of the stack.
func (m *Machine) Active() State {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Depth returns the number of stacked states.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// Session returns a copy of the current score, lives and level.
func (m *Machine) Session() Session {
	return m.session
}

// Summary returns the final result while the game over screen is active.
func (m *Machine) Summary() (Summary, bool) {
	if over, ok := m.Active().(*GameOver); ok {
		return over.Summary, true
	}
	return Summary{}, false
}

// KeyDown records a key press. It is acted upon during the next tick.
func (m *Machine) KeyDown(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held.set(k, true)
	m.pending = append(m.pending, k)
}

// KeyUp records a key release.
func (m *Machine) KeyUp(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held.set(k, false)
}

// Tick runs one update then draws the resulting state onto s.
func (m *Machine) Tick(s Surface) {
	m.Update()
	if s != nil {
		m.Draw(s)
	}
}

// Update advances the active state by one tick of simulated time.
func (m *Machine) Update() {
	m.mu.Lock()
	events := m.pending
	m.pending = nil
	m.keys = m.held
	m.mu.Unlock()

	for _, k := range events {
		if k == KeyMute {
			m.env.Sounds.SetMuted(!m.env.Sounds.Muted())
			continue
		}
		m.apply(m.keyDown(m.Active(), k))
	}

	m.apply(m.update(m.Active(), m.env.Config.TickDuration()))
}

// Draw renders the active state.
func (m *Machine) Draw(s Surface) {
	switch st := m.Active().(type) {
	case *Welcome:
		st.draw(&m.env, s)
	case *LevelIntro:
		st.draw(&m.env, s)
	case *Play:
		st.draw(&m.env, s)
	case *Pause:
		st.draw(&m.env, s)
	case *GameOver:
		st.draw(&m.env, s)
	}
}

func (m *Machine) update(st State, dt float64) Transition {
	switch st := st.(type) {
	case *Welcome:
		return stay()
	case *LevelIntro:
		return st.update(&m.env, dt)
	case *Play:
		return st.update(&m.env, dt)
	case *Pause:
		return stay()
	case *GameOver:
		return stay()
	default:
		return stay()
	}
}

func (m *Machine) keyDown(st State, k Key) Transition {
	switch st := st.(type) {
	case *Welcome:
		return st.keyDown(&m.env, k)
	case *LevelIntro:
		return stay()
	case *Play:
		return st.keyDown(&m.env, k)
	case *Pause:
		return st.keyDown(&m.env, k)
	case *GameOver:
		return st.keyDown(&m.env, k)
	default:
		return stay()
	}
}

func (m *Machine) enter(st State) {
	switch st := st.(type) {
	case *Welcome:
		st.enter(&m.env)
	case *LevelIntro:
	case *Play:
		st.enter(&m.env)
	case *Pause:
		st.enter(&m.env)
	case *GameOver:
		m.env.Log.Info("game over", "score", st.Summary.Score, "level", st.Summary.Level)
	}
}

func (m *Machine) leave(st State) {
	switch st := st.(type) {
	case *Pause:
		st.leave(&m.env)
	case *Welcome, *LevelIntro, *Play, *GameOver:
	}
}

// apply performs a transition. Enter and leave hooks run once per push and pop.
func (m *Machine) apply(t Transition) {
	if t.Kind == Stay {
		return
	}

	from := "none"
	if top := m.Active(); top != nil {
		from = top.Name()
	}

	switch t.Kind {
	case Replace:
		if len(m.stack) > 0 {
			m.leave(m.Active())
			m.stack = m.stack[:len(m.stack)-1]
		}
		m.enter(t.Next)
		m.stack = append(m.stack, t.Next)
	case Push:
		m.enter(t.Next)
		m.stack = append(m.stack, t.Next)
	case Pop:
		if len(m.stack) <= 1 {
			m.env.Log.Warn("ignoring pop of the last state", "state", from)
			return
		}
		m.leave(m.Active())
		m.stack = m.stack[:len(m.stack)-1]
	}

	m.env.Log.Debug("state transition",
		"kind", t.Kind,
		"from", from,
		"to", m.Active().Name(),
		"level", m.session.Level,
		"score", m.session.Score,
	)
}
