// Package audio plays the game's sound effects through gopxl/beep.
//
// Effects are synthesized instead of decoded from files. Loading renders a
// sound into a buffer in the background; playing a sound that has not finished
// loading, or playing before the speaker is initialized, does nothing.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/invaders/internal/game"
)

const sampleRate = beep.SampleRate(44100)

var format = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

// Manager implements game.Sounds on top of a beep mixer.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	buffers     map[string]*beep.Buffer
	loading     map[string]bool
	initialized bool
	muted       bool

	pending sync.WaitGroup
	log     *log.Logger
}

var _ game.Sounds = (*Manager)(nil)

// NewManager creates a manager. Call Init to attach it to the audio device.
func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		mixer:   &beep.Mixer{},
		buffers: make(map[string]*beep.Buffer),
		loading: make(map[string]bool),
		log:     logger,
	}
}

// Init opens the audio device. Without a device the manager stays silent.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Close stops every playing sound.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.initialized = false
}

// Load renders the named sound in the background. Loading twice is a no-op.
func (m *Manager) Load(name string) {
	gen, ok := synths[name]
	if !ok {
		m.log.Warn("unknown sound", "name", name)
		return
	}

	m.mu.Lock()
	if m.loading[name] || m.buffers[name] != nil {
		m.mu.Unlock()
		return
	}
	m.loading[name] = true
	m.mu.Unlock()

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		buf := beep.NewBuffer(format)
		buf.Append(beep.Take(sampleRate.N(gen.duration), gen.streamer(sampleRate)))

		m.mu.Lock()
		m.buffers[name] = buf
		delete(m.loading, name)
		m.mu.Unlock()
		m.log.Debug("sound loaded", "name", name, "samples", buf.Len())
	}()
}

// WaitLoaded blocks until every requested sound has been rendered.
func (m *Manager) WaitLoaded() {
	m.pending.Wait()
}

// Loaded reports whether the named sound is ready to play.
func (m *Manager) Loaded(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffers[name] != nil
}

// Play starts the named sound if it is loaded and the manager is not muted.
func (m *Manager) Play(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := m.buffers[name]
	if buf == nil || m.muted || !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Add(buf.Streamer(0, buf.Len()))
	speaker.Unlock()
}

// SetMuted silences or restores playback. Sounds already playing finish.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether playback is silenced.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}
