package loop

// GameState is the phase a game is in.
type GameState int

const (
	GameStateStart   GameState = iota // title screen
	GameStatePlaying                  // ship alive
	GameStateDead                     // restart prompt
)

func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// enteredPlay reports whether a frame took the game from the title screen
// or the restart prompt into play.
func enteredPlay(before, after GameState) bool {
	return before != GameStatePlaying && after == GameStatePlaying
}
