package generation

// State identifies where a generation session sits in its lifecycle.
type State string

const (
	StateSelection  State = "selection"
	StateGenerating State = "generating"
	StateEditing    State = "editing"
	StateSaved      State = "saved"
	StateDiscarded  State = "discarded"
)

// transitions holds the permitted state graph. Generation failure
// returns a session from generating to selection; everything else
// moves forward.
var transitions = map[State][]State{
	StateSelection:  {StateGenerating, StateDiscarded},
	StateGenerating: {StateEditing, StateSelection},
	StateEditing:    {StateSaved, StateDiscarded},
}

// CanTransition reports whether moving from one state to another is
// permitted.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
