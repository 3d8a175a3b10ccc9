package meal

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tokano3/warikanbot/internal/ledger"
)

// keyboardRowSize is how many participant names go on one keyboard row.
const keyboardRowSize = 3

// Service owns the single live meal session and applies conversation inputs
// to it. Each method is one transition: it mutates the session under the lock
// and returns the replies to send. Inputs that have no transition defined for
// the current state return no replies.
type Service struct {
	mu     sync.Mutex
	sess   *Session
	ledger ledger.Ledger
	now    func() time.Time
}

func NewService(l ledger.Ledger) *Service {
	return &Service{ledger: l, now: time.Now}
}

func (s *Service) state() State {
	if s.sess == nil {
		return StateIdle
	}
	return s.sess.State
}

// Start greets the user. It does not create a session.
func (s *Service) Start() []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.state(); st != StateIdle && st != StateDone {
		return nil
	}
	return []Reply{{Text: "Welcome to Meal Cost Distribution Bot! " +
		"Use /start_meal to begin tracking a new meal's participants."}}
}

// StartMeal begins a fresh session, discarding any finished one.
func (s *Service) StartMeal() []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.state(); st != StateIdle && st != StateDone {
		return nil
	}
	s.sess = &Session{
		State:     StateAwaitingPurchaser,
		CreatedAt: s.now(),
	}
	return []Reply{{Text: "Starting a new meal. First, let's collect the purchaser's information.\n\n" +
		"Please enter the purchaser's name:"}}
}

// Text handles a freeform (non-command) message. What it means depends on the
// current state: the purchaser's name, a participant to add, a participant to
// remove, or the bill amount.
func (s *Service) Text(ctx context.Context, text string) []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)
	switch s.state() {
	case StateAwaitingPurchaser:
		return s.collectPurchaser(text)
	case StateCollecting:
		return s.addParticipant(text)
	case StateRemoving:
		return s.removeParticipant(text)
	case StateAwaitingBill:
		return s.processBill(ctx, text)
	default:
		return nil
	}
}

func (s *Service) collectPurchaser(name string) []Reply {
	s.sess.Purchaser = name
	s.sess.State = StateCollecting
	return []Reply{{Text: fmt.Sprintf("Thanks, %s. "+
		"Purchaser information recorded. Now, please enter the names of all participants, "+
		"one name per message. Use /remove to remove a participant, "+
		"/list to see current participants, or /done when finished.", name)}}
}

func (s *Service) addParticipant(name string) []Reply {
	// Duplicates are checked case-insensitively; the stored casing is the
	// first one entered.
	for _, p := range s.sess.Participants {
		if strings.EqualFold(p.Name, name) {
			return []Reply{{Text: fmt.Sprintf("%s is already in the participant list.", name)}}
		}
	}
	s.sess.Participants = append(s.sess.Participants, Participant{Name: name})
	return []Reply{{Text: fmt.Sprintf("Added %s to the meal.", name)}}
}

// removeParticipant looks the name up case-sensitively, unlike the duplicate
// check on insert. Selection usually comes from the keyboard, which echoes the
// stored casing, so a typed mismatch simply reports not found.
func (s *Service) removeParticipant(name string) []Reply {
	s.sess.State = StateCollecting
	for i, p := range s.sess.Participants {
		if p.Name == name {
			s.sess.Participants = append(s.sess.Participants[:i], s.sess.Participants[i+1:]...)
			return []Reply{{
				Text:           fmt.Sprintf("Removed %s from the meal participants.", name),
				RemoveKeyboard: true,
			}}
		}
	}
	return []Reply{{
		Text:           fmt.Sprintf("Participant %s not found.", name),
		RemoveKeyboard: true,
	}}
}

func (s *Service) processBill(ctx context.Context, text string) []Reply {
	total, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return []Reply{{Text: "Invalid bill amount. Please enter a valid number."}}
	}

	share := SplitEvenly(total, len(s.sess.Participants))
	for i := range s.sess.Participants {
		s.sess.Participants[i].Share = share
	}
	s.sess.TotalBill = total
	s.sess.State = StateDone

	var b strings.Builder
	b.WriteString("Bill Split:\n")
	names := make([]string, 0, len(s.sess.Participants))
	for _, p := range s.sess.Participants {
		fmt.Fprintf(&b, "%s: $%.2f\n", p.Name, p.Share)
		names = append(names, p.Name)
	}
	fmt.Fprintf(&b, "\nTotal Bill: $%.2f", total)

	// Best effort: a ledger failure is logged for operators and never shown
	// to the user, and the split result is sent regardless.
	rec := ledger.Record{
		Date:            s.sess.CreatedAt,
		Purchaser:       s.sess.Purchaser,
		TotalBill:       total,
		Participants:    names,
		IndividualShare: share,
	}
	if err := s.ledger.Append(ctx, rec); err != nil {
		log.Printf("Failed to append meal record to ledger: %v", err)
	} else {
		log.Printf("Synced meal record to ledger: total=%.2f participants=%d", total, len(names))
	}

	return []Reply{{Text: b.String()}}
}

// Remove presents the current participants as a selection keyboard.
func (s *Service) Remove() []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state() != StateCollecting {
		return nil
	}
	if len(s.sess.Participants) == 0 {
		return []Reply{{Text: "No participants to remove. Add participants first."}}
	}
	s.sess.State = StateRemoving
	return []Reply{{
		Text:     "Select a participant to remove:",
		Keyboard: chunkNames(s.participantNames(), keyboardRowSize),
	}}
}

// List shows the participants added so far, in insertion order.
func (s *Service) List() []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state() != StateCollecting {
		return nil
	}
	if len(s.sess.Participants) == 0 {
		return []Reply{{Text: "No participants added yet."}}
	}
	return []Reply{{Text: "Current participants:\n" + strings.Join(s.participantNames(), "\n")}}
}

// DoneCollecting closes the participant list and asks for the bill total.
func (s *Service) DoneCollecting() []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state() != StateCollecting {
		return nil
	}
	if len(s.sess.Participants) == 0 {
		return []Reply{{Text: "No participants added. Please add participants first."}}
	}
	s.sess.State = StateAwaitingBill
	return []Reply{{Text: fmt.Sprintf("Participants for this meal: %s\n"+
		"Now, please send the total bill amount.", strings.Join(s.participantNames(), ", "))}}
}

// Cancel abandons the session from any state, discarding collected data.
func (s *Service) Cancel() []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != nil {
		s.sess.State = StateDone
		s.sess.Participants = nil
		s.sess.Purchaser = ""
		s.sess.TotalBill = 0
	}
	return []Reply{{Text: "Meal tracking cancelled.", RemoveKeyboard: true}}
}

// Snapshot is a read-only view of the current session for the ops API.
type Snapshot struct {
	State        string    `json:"state"`
	Purchaser    string    `json:"purchaser,omitempty"`
	Participants []string  `json:"participants,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{State: s.state().String()}
	if s.sess != nil {
		snap.Purchaser = s.sess.Purchaser
		snap.Participants = s.participantNames()
		snap.CreatedAt = s.sess.CreatedAt
	}
	return snap
}

func (s *Service) participantNames() []string {
	names := make([]string, 0, len(s.sess.Participants))
	for _, p := range s.sess.Participants {
		names = append(names, p.Name)
	}
	return names
}

func chunkNames(names []string, size int) [][]string {
	var rows [][]string
	for len(names) > size {
		rows = append(rows, names[:size])
		names = names[size:]
	}
	if len(names) > 0 {
		rows = append(rows, names)
	}
	return rows
}
