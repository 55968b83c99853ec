package workflow

// State is one phase of the pattern-first execution flow.
type State string

const (
	StateRouting    State = "ROUTING"
	StateSearching  State = "SEARCHING"
	StateFound      State = "FOUND"
	StateCreating   State = "CREATING"
	StateValidating State = "VALIDATING"
	StateAccepted   State = "ACCEPTED"
	StateRejected   State = "REJECTED"
	StateDone       State = "DONE"
)

// transitions encodes the legal moves of the state machine. Every run
// starts in ROUTING and terminates in DONE or REJECTED.
var transitions = map[State][]State{
	StateRouting:    {StateSearching},
	StateSearching:  {StateFound, StateCreating},
	StateFound:      {StateDone},
	StateCreating:   {StateValidating},
	StateValidating: {StateAccepted, StateRejected},
	StateAccepted:   {StateDone},
	StateRejected:   {},
	StateDone:       {},
}

// CanTransition reports whether moving from one state to another is
// legal. The engine asserts this on every step so a refactor cannot
// silently bend the machine.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a state ends the run.
func Terminal(s State) bool {
	return len(transitions[s]) == 0
}
