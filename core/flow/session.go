package flow

import "time"

// OrderItem is one product line accumulated while building a sales order.
type OrderItem struct {
	ProductID int64
	Quantity  int64
	Price     int64
}

// Form collects the values captured across the steps of the active flow.
// A single struct is shared by all flows; each flow reads and writes
// only the fields its steps capture.
type Form struct {
	Activity   string
	BranchID   int64
	Date       time.Time
	ProductID  int64
	Quantity   int64
	Price      int64
	UsedCement float64
	Workers    []int64
	Items      []OrderItem
	StatPeriod string

	// Calendar widget position, kept so month navigation re-renders
	// without losing the rest of the form.
	CalYear  int
	CalMonth time.Month
}

// Session is the per-user conversation state: the current step, the
// navigation stack behind it and the form values captured so far.
type Session struct {
	Current StepID
	Stack   []StepID
	Form    Form
}

// Push records the current step on the stack and moves to next.
func (s *Session) Push(next StepID) {
	if s.Current != "" {
		s.Stack = append(s.Stack, s.Current)
	}
	s.Current = next
}

// Replace moves to next without touching the stack. Used when a step
// re-renders itself or a trigger substitutes the current step.
func (s *Session) Replace(next StepID) {
	s.Current = next
}

// Pop returns to the most recent stacked step. Returns false when the
// stack is empty, in which case the session is left unchanged.
func (s *Session) Pop() (StepID, bool) {
	if len(s.Stack) == 0 {
		return "", false
	}
	last := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	s.Current = last
	return last, true
}

// Reset clears the stack and form and places the session at the given step.
func (s *Session) Reset(to StepID) {
	s.Current = to
	s.Stack = nil
	s.Form = Form{}
}
