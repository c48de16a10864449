package session

// validTransitions contains the permitted non-emergency transitions in the FSM.
// Browsing to browsing covers selecting a new genre without an explicit reset.
var validTransitions = map[State][]State{
	StateIdle: {
		StateBrowsing,
	},
	StateBrowsing: {
		StateBrowsing,
		StateIdle,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	if to == StateError || to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
