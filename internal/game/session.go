package game

// Session is the score, lives and level of one run from the welcome screen to game over.
type Session struct {
	Score int
	Lives int
	Level int
}

// reset starts a fresh run at level 1.
func (s *Session) reset(lives int) {
	s.Score = 0
	s.Lives = lives
	s.Level = 1
}

// Summary is the final result shown after defeat.
type Summary struct {
	Score int
	Level int
}
