package batch

// State is the run manager's position in the batch lifecycle.
type State uint8

const (
	// Idle is the state after boot and before the first dispatch.
	Idle State = iota

	// Loading means the current application is being copied into its slot.
	Loading

	// Dispatching means the initial context of the current application is
	// being built on its kernel stack.
	Dispatching

	// Running means control has left the kernel for the current
	// application.
	Running

	// Reentered means the trap layer has reported that the current
	// application is done.
	Reentered

	// Halted means every application has run and the machine is powering
	// off.
	Halted
)

var stateNames = [...]string{
	Idle:        "idle",
	Loading:     "loading",
	Dispatching: "dispatching",
	Running:     "running",
	Reentered:   "reentered",
	Halted:      "halted",
}

// String implements fmt.Stringer for State.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
