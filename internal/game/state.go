package game

// State is one of the fixed screens of the game: *Welcome, *LevelIntro, *Play,
// *Pause or *GameOver. The machine dispatches on the concrete type.
type State interface {
	Name() string
	isState()
}

func (*Welcome) isState() {}
func (*LevelIntro) isState() {}
func (*Play) isState() {}
func (*Pause) isState() {}
func (*GameOver) isState() {}

// TransitionKind says how the state stack changes.
type TransitionKind int

const (
	Stay    TransitionKind = iota // Keep the current state
	Replace                       // Leave and pop the top, then enter and push Next
	Push                          // Enter and push Next above the top
	Pop                           // Leave and pop the top
)

func (k TransitionKind) String() string {
	switch k {
	case Stay:
		return "stay"
	case Replace:
		return "replace"
	case Push:
		return "push"
	case Pop:
		return "pop"
	default:
		return "unknown"
	}
}

// Transition is a state change requested by the active state.
type Transition struct {
	Kind TransitionKind
	Next State
}

func stay() Transition { return Transition{} }
func replaceWith(s State) Transition { return Transition{Kind: Replace, Next: s} }
func push(s State) Transition { return Transition{Kind: Push, Next: s} }
func pop() Transition { return Transition{Kind: Pop} }
