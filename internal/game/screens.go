package game

import (
	"fmt"
	"math"
)

// Welcome is the title screen shown once at startup.
type Welcome struct{}

// NewWelcome returns the title screen.
func NewWelcome() *Welcome {
	return &Welcome{}
}

// Name returns "welcome".
func (*Welcome) Name() string { return "welcome" }

// enter requests the sounds. Loading is asynchronous; early plays are dropped.
func (w *Welcome) enter(env *Env) {
	for _, name := range []string{SoundShoot, SoundBang, SoundExplosion} {
		env.Sounds.Load(name)
	}
}

func (w *Welcome) keyDown(env *Env, k Key) Transition {
	if k != KeyFire {
		return stay()
	}
	env.Session.reset(env.Config.InitialLives)
	return replaceWith(NewLevelIntro(env.Session.Level, env.Config.IntroSeconds))
}

func (w *Welcome) draw(env *Env, s Surface) {
	cx, cy := screenCenter(env)
	s.Clear()
	s.DrawText("Space Invaders", cx, cy-40, TextStyle{Size: 30, Align: AlignCenter, Color: colorWhite})
	s.DrawText("Press 'Space' to start.", cx, cy, TextStyle{Size: 16, Align: AlignCenter, Color: colorHighlight})
}

// LevelIntro counts down in simulated seconds before a level starts.
type LevelIntro struct {
	Level     int
	Countdown float64 // Seconds left
	Seconds   float64 // Length of the whole countdown
	Message   string  // Countdown digit shown to the player
}

// NewLevelIntro returns a countdown of seconds for level.
func NewLevelIntro(level int, seconds float64) *LevelIntro {
	return &LevelIntro{
		Level:     level,
		Countdown: seconds,
		Seconds:   seconds,
		Message:   countdownMessage(seconds, seconds),
	}
}

// Name returns "level-intro".
func (*LevelIntro) Name() string { return "level-intro" }

func (li *LevelIntro) update(_ *Env, dt float64) Transition {
	li.Countdown -= dt
	if li.Countdown <= 0 {
		return replaceWith(NewPlay(li.Level))
	}
	li.Message = countdownMessage(li.Countdown, li.Seconds)
	return stay()
}

func (li *LevelIntro) draw(env *Env, s Surface) {
	cx, cy := screenCenter(env)
	s.Clear()
	s.DrawText(fmt.Sprintf("Level %d", li.Level), cx, cy, TextStyle{Size: 36, Align: AlignCenter, Color: colorWhite})
	s.DrawText("Ready in "+li.Message, cx, cy+36, TextStyle{Size: 24, Align: AlignCenter, Color: colorWhite})
}

// countdownMessage is the digit of the whole second currently counting down.
// For a 3 second countdown it is "3" until fewer than 2 seconds remain, then
// "2", then "1". The first digit never exceeds the countdown length.
func countdownMessage(left, total float64) string {
	n := int(math.Floor(left)) + 1
	n = min(n, int(math.Ceil(total)), 9)
	return fmt.Sprint(max(n, 1))
}

// Pause suspends the Play state beneath it.
type Pause struct{}

// NewPause returns the pause overlay.
func NewPause() *Pause {
	return &Pause{}
}

// Name returns "pause".
func (*Pause) Name() string { return "pause" }

func (p *Pause) enter(env *Env) {
	env.Log.Info("game paused", "level", env.Session.Level)
}

func (p *Pause) leave(env *Env) {
	env.Log.Info("game resumed", "level", env.Session.Level)
}

func (p *Pause) keyDown(_ *Env, k Key) Transition {
	if k == KeyPause {
		return pop()
	}
	return stay()
}

func (p *Pause) draw(env *Env, s Surface) {
	cx, cy := screenCenter(env)
	s.Clear()
	s.DrawText("Paused", cx, cy, TextStyle{Size: 14, Align: AlignCenter, Color: colorWhite})
}

// GameOver shows the final result until the player starts again.
type GameOver struct {
	Summary Summary
}

// NewGameOver returns the game over screen for a finished run.
func NewGameOver(sum Summary) *GameOver {
	return &GameOver{Summary: sum}
}

// Name returns "game-over".
func (*GameOver) Name() string { return "game-over" }

func (g *GameOver) keyDown(env *Env, k Key) Transition {
	if k != KeyFire {
		return stay()
	}
	env.Session.reset(env.Config.InitialLives)
	return replaceWith(NewLevelIntro(env.Session.Level, env.Config.IntroSeconds))
}

func (g *GameOver) draw(env *Env, s Surface) {
	cx, cy := screenCenter(env)
	s.Clear()
	s.DrawText("Game Over!", cx, cy-40, TextStyle{Size: 30, Align: AlignCenter, Color: colorWhite})
	s.DrawText(fmt.Sprintf("You scored %d and got to level %d", g.Summary.Score, g.Summary.Level),
		cx, cy, TextStyle{Size: 16, Align: AlignCenter, Color: colorWhite})
	s.DrawText("Press 'Space' to play again.", cx, cy+40, TextStyle{Size: 16, Align: AlignCenter, Color: colorWhite})
}

func screenCenter(env *Env) (x, y float64) {
	return env.Config.ScreenWidth / 2, env.Config.ScreenHeight / 2
}
