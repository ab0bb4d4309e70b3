package chat

import (
	"fmt"

	"github.com/k7t3/horzcv/internal/shared"
)

// Handle addresses a node in a [Reorder]. The zero Handle means "none".
type Handle uint32

// Nil is the absent handle.
const Nil Handle = 0

// Buttons is the enable state of a node's move controls.
type Buttons struct {
	DisableLeft  bool
	DisableRight bool
}

// link is the arena record for a node.
type link struct {
	left, right Handle
	buttons     Buttons
}

// Reorder is a doubly linked row of frames with neighbour swaps and removal.
type Reorder struct {
	seq       Handle
	first     Handle
	links     map[Handle]*link
	frames    map[Handle]*Frame
	listeners []func([]*Frame)
}

// NewReorder creates an empty row.
func NewReorder() *Reorder {
	return &Reorder{
		links:  make(map[Handle]*link),
		frames: make(map[Handle]*Frame),
	}
}

// OnChange registers fn to receive the frames in order after every mutation.
func (r *Reorder) OnChange(fn func([]*Frame)) {
	r.listeners = append(r.listeners, fn)
}

func (r *Reorder) notify() {
	if len(r.listeners) == 0 {
		return
	}
	frames := r.Frames()
	for _, fn := range r.listeners {
		fn(frames)
	}
}

// Set replaces the row with frames in order and returns their handles.
func (r *Reorder) Set(frames []*Frame) []Handle {
	clear(r.links)
	clear(r.frames)
	r.first = Nil

	handles := make([]Handle, len(frames))
	prev := Nil
	for i, f := range frames {
		r.seq++
		h := r.seq
		handles[i] = h
		r.frames[h] = f
		r.links[h] = &link{
			left:    prev,
			buttons: Buttons{DisableLeft: i == 0, DisableRight: i == len(frames)-1},
		}
		if prev == Nil {
			r.first = h
		} else {
			r.links[prev].right = h
		}
		prev = h
	}

	r.notify()
	return handles
}

// Len returns the number of nodes.
func (r *Reorder) Len() int { return len(r.links) }

// First returns the leftmost handle, or [Nil] when empty.
func (r *Reorder) First() Handle { return r.first }

// Find scans from the first node for the node holding frame.
//
// It fails with [shared.ErrEmptyList] on an empty row and [shared.ErrNodeNotFound] when frame is absent.
func (r *Reorder) Find(frame *Frame) (Handle, error) {
	if r.first == Nil {
		return Nil, shared.ErrEmptyList
	}
	for h := r.first; h != Nil; h = r.links[h].right {
		if r.frames[h] == frame {
			return h, nil
		}
	}
	return Nil, shared.ErrNodeNotFound
}

// Frame returns the frame stored under h.
func (r *Reorder) Frame(h Handle) (*Frame, error) {
	if _, err := r.node(h); err != nil {
		return nil, err
	}
	return r.frames[h], nil
}

// Buttons returns the move-control state of h.
func (r *Reorder) Buttons(h Handle) (Buttons, error) {
	n, err := r.node(h)
	if err != nil {
		return Buttons{}, err
	}
	return n.buttons, nil
}

// Neighbours returns the handles left and right of h.
func (r *Reorder) Neighbours(h Handle) (left, right Handle, err error) {
	n, err := r.node(h)
	if err != nil {
		return Nil, Nil, err
	}
	return n.left, n.right, nil
}

func (r *Reorder) node(h Handle) (*link, error) {
	if r.first == Nil {
		return nil, shared.ErrEmptyList
	}
	n, ok := r.links[h]
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", shared.ErrNodeNotFound, h)
	}
	return n, nil
}

// Frames returns the frames from left to right.
func (r *Reorder) Frames() []*Frame {
	out := make([]*Frame, 0, len(r.links))
	for h := r.first; h != Nil; h = r.links[h].right {
		out = append(out, r.frames[h])
	}
	return out
}

// Handles returns the handles from left to right.
func (r *Reorder) Handles() []Handle {
	out := make([]Handle, 0, len(r.links))
	for h := r.first; h != Nil; h = r.links[h].right {
		out = append(out, h)
	}
	return out
}

// MoveLeft swaps h with its left neighbour. It is a no-op for the first node.
func (r *Reorder) MoveLeft(h Handle) error {
	n, err := r.node(h)
	if err != nil {
		return err
	}
	if n.left == Nil {
		return nil
	}
	r.swap(n.left, h)
	r.notify()
	return nil
}

// MoveRight swaps h with its right neighbour. It is a no-op for the last node.
func (r *Reorder) MoveRight(h Handle) error {
	n, err := r.node(h)
	if err != nil {
		return err
	}
	if n.right == Nil {
		return nil
	}
	r.swap(h, n.right)
	r.notify()
	return nil
}

// swap exchanges adjacent nodes a and b where b is right of a.
//
//	outer-left <-> a <-> b <-> outer-right  becomes  outer-left <-> b <-> a <-> outer-right
func (r *Reorder) swap(a, b Handle) {
	na, nb := r.links[a], r.links[b]
	outerLeft, outerRight := na.left, nb.right

	if outerLeft != Nil {
		r.links[outerLeft].right = b
	}
	nb.left = outerLeft
	nb.right = a
	na.left = b
	na.right = outerRight
	if outerRight != Nil {
		r.links[outerRight].left = a
	}

	if r.first == a {
		r.first = b
	}

	r.refresh(na)
	r.refresh(nb)
}

func (r *Reorder) refresh(n *link) {
	n.buttons.DisableLeft = n.left == Nil
	n.buttons.DisableRight = n.right == Nil
}

// Remove unlinks h, connecting its neighbours to each other.
func (r *Reorder) Remove(h Handle) error {
	n, err := r.node(h)
	if err != nil {
		return err
	}

	left, right := n.left, n.right
	if left != Nil {
		r.links[left].right = right
	}
	if right != Nil {
		r.links[right].left = left
	}
	if r.first == h {
		r.first = right
	}

	delete(r.links, h)
	delete(r.frames, h)

	if left != Nil {
		r.refresh(r.links[left])
	}
	if right != Nil {
		r.refresh(r.links[right])
	}
	if r.first != Nil {
		f := r.links[r.first]
		f.buttons.DisableLeft = true
		if f.right == Nil {
			f.buttons.DisableRight = true
		}
	}

	r.notify()
	return nil
}

// Rename sets the display name of h's entry.
func (r *Reorder) Rename(h Handle, name string) error {
	if _, err := r.node(h); err != nil {
		return err
	}
	r.frames[h].Entry.SetDisplayName(name)
	r.notify()
	return nil
}

// Check verifies the link invariants: one head, one tail, a forward walk from first that visits every node
// once, a backward walk from the tail that reaches first, and button state matching the links.
func (r *Reorder) Check() error {
	if len(r.links) == 0 {
		if r.first != Nil {
			return fmt.Errorf("empty row has first handle %d", r.first)
		}
		return nil
	}

	var heads, tails int
	var tail Handle
	for h, n := range r.links {
		if n.left == Nil {
			heads++
		}
		if n.right == Nil {
			tails++
			tail = h
		}
		if n.buttons.DisableLeft != (n.left == Nil) || n.buttons.DisableRight != (n.right == Nil) {
			return fmt.Errorf("handle %d has buttons %+v for links left=%d right=%d", h, n.buttons, n.left, n.right)
		}
	}
	if heads != 1 || tails != 1 {
		return fmt.Errorf("expected one head and one tail, got %d and %d", heads, tails)
	}
	if r.links[r.first].left != Nil {
		return fmt.Errorf("first handle %d has a left neighbour", r.first)
	}

	seen := make(map[Handle]bool, len(r.links))
	for h := r.first; h != Nil; h = r.links[h].right {
		if seen[h] {
			return fmt.Errorf("cycle at handle %d", h)
		}
		seen[h] = true
	}
	if len(seen) != len(r.links) {
		return fmt.Errorf("forward walk visited %d of %d nodes", len(seen), len(r.links))
	}

	h := tail
	for steps := 1; r.links[h].left != Nil; steps++ {
		if steps > len(r.links) {
			return fmt.Errorf("backward walk does not terminate")
		}
		h = r.links[h].left
	}
	if h != r.first {
		return fmt.Errorf("backward walk ended at %d, expected first %d", h, r.first)
	}
	return nil
}
