package kash

// Phase 对局阶段
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseRoundInProgress
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseRoundInProgress:
		return "round_in_progress"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
