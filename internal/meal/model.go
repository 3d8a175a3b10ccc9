package meal

import "time"

// State identifies where the conversation is within a meal session.
type State int

const (
	StateIdle State = iota
	StateAwaitingPurchaser
	StateCollecting
	StateRemoving
	StateAwaitingBill
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPurchaser:
		return "awaiting_purchaser"
	case StateCollecting:
		return "collecting_participants"
	case StateRemoving:
		return "removing_participant"
	case StateAwaitingBill:
		return "awaiting_bill"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session is the single in-flight meal record. The process holds at most one;
// starting a new meal replaces the previous session outright.
type Session struct {
	State        State
	Purchaser    string
	Participants []Participant
	CreatedAt    time.Time
	TotalBill    float64
}

// Participant is a named individual assigned an equal share of the bill.
// Shares stay 0 until the bill is processed.
type Participant struct {
	Name  string
	Share float64
}

// Reply is one outbound message produced by a transition. Keyboard rows, when
// present, are rendered as a one-time selection keyboard by the transport.
type Reply struct {
	Text           string
	Keyboard       [][]string
	RemoveKeyboard bool
}
