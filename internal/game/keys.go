package game

// Key is a logical game control.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyFire
	KeyPause
	KeyMute
	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyFire:
		return "fire"
	case KeyPause:
		return "pause"
	case KeyMute:
		return "mute"
	default:
		return "none"
	}
}

// KeySet records which keys are currently held.
type KeySet struct {
	held [keyCount]bool
}

// Held reports whether k is down.
func (ks *KeySet) Held(k Key) bool {
	if k <= KeyNone || k >= keyCount {
		return false
	}
	return ks.held[k]
}

func (ks *KeySet) set(k Key, down bool) {
	if k <= KeyNone || k >= keyCount {
		return
	}
	ks.held[k] = down
}

// Reset releases every key.
func (ks *KeySet) Reset() {
	ks.held = [keyCount]bool{}
}
