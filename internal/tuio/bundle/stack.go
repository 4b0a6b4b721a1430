package bundle

import "github.com/banshee-data/velocity.report/internal/tuio/tuioerr"

// Special index values accepted by Stack.GetUpdate alongside any
// non-negative slot index.
const (
	Oldest = -1
	Newest = -2
)

// Stack is a FIFO of handles (§4.4). Append adds to the tail; GetUpdate
// removes and returns a handle from either end or an arbitrary slot.
type Stack struct {
	handles []*Handle
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Append adds h to the tail of the stack. Rejects a nil or empty handle,
// since an update carrying no messages has nothing to stack.
func (s *Stack) Append(h *Handle) error {
	if h == nil || h.Len() == 0 {
		return tuioerr.New(tuioerr.KindParse, "bundle", "cannot append an empty handle to the stack")
	}
	s.handles = append(s.handles, h)
	return nil
}

// Length returns the number of handles currently stacked.
func (s *Stack) Length() int { return len(s.handles) }

// Clear empties the stack.
func (s *Stack) Clear() { s.handles = nil }

// GetUpdate removes and returns the handle at index, which may be Oldest
// (the head), Newest (the tail), or a non-negative slot offset from the
// head. Returns an error if the stack is empty or index is out of range.
func (s *Stack) GetUpdate(index int) (*Handle, error) {
	n := len(s.handles)
	if n == 0 {
		return nil, tuioerr.New(tuioerr.KindParse, "bundle", "stack is empty")
	}
	var slot int
	switch index {
	case Oldest:
		slot = 0
	case Newest:
		slot = n - 1
	default:
		if index < 0 || index >= n {
			return nil, tuioerr.New(tuioerr.KindParse, "bundle", "stack index out of range")
		}
		slot = index
	}
	h := s.handles[slot]
	s.handles = append(s.handles[:slot], s.handles[slot+1:]...)
	return h, nil
}
