package event

// Decision is the verdict returned to the host for an intercepted event.
type Decision int

const (
	// PassThrough delivers the event to its original destination.
	PassThrough Decision = iota
	// Suppress withholds the event from every other application.
	Suppress
)

func (d Decision) String() string {
	if d == Suppress {
		return "suppress"
	}
	return "pass-through"
}

// DisableReason identifies which host notification disabled the tap.
type DisableReason int

const (
	// DisabledByTimeout means the callback blew the host's latency budget.
	DisabledByTimeout DisableReason = iota
	// DisabledByUserInput means the host disabled the tap on user input.
	DisabledByUserInput
)

func (r DisableReason) String() string {
	if r == DisabledByUserInput {
		return "user-input"
	}
	return "timeout"
}

// Host button numbering: 0 and 1 are the primary and secondary click and are
// never remapped; 2 is the middle button, 3+ are side/extra buttons.
const (
	ButtonPrimary   = 0
	ButtonSecondary = 1
	ButtonMiddle    = 2

	// MinMappable is the lowest button index eligible for a mapping.
	MinMappable = 2
)
