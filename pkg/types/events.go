package types

// EventKind names one step of an operation's event stream
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventProgress EventKind = "progress"
	EventFinished EventKind = "finished"
)

// OperationEvent is one notification about a long-running operation on
// a mod. A stream for one (Operation, ModName) pair is always
// Started, zero or more Progress, then exactly one Finished.
type OperationEvent struct {
	Kind      EventKind `json:"event"`
	Operation string    `json:"operation"`
	ModName   string    `json:"modName"`
	// Progress is in [0,1]; only set on progress events
	Progress float64 `json:"progress,omitempty"`
	Message  string  `json:"message,omitempty"`
	// Success is only meaningful on finished events
	Success bool `json:"success,omitempty"`
}
