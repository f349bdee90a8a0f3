package search

// State is a step of the retrieval pipeline.
type State string

// Pipeline states. Assembled and Failed are terminal.
const (
	StateIdle          State = "idle"
	StateUnderstanding State = "understanding"
	StateRecalling     State = "recalling"
	StateRanking       State = "ranking"
	StateAssembled     State = "assembled"
	StateFailed        State = "failed"
)

var transitions = map[State][]State{
	StateIdle:          {StateUnderstanding, StateFailed},
	StateUnderstanding: {StateRecalling, StateFailed},
	StateRecalling:     {StateRanking, StateFailed},
	StateRanking:       {StateAssembled, StateFailed},
}

// CanTransition reports whether to is a legal successor of s.
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
