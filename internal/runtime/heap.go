package runtime

// Heap is an arena that owns every Value produced during one evaluation's
// lifetime. It performs no reclamation: values may form cycles (a scope
// holding a field that points back to an object closing over that same
// scope) and the arena is simply dropped, along with the Evaluator that
// owns it, once evaluation completes.
type Heap struct {
	values []*Value
	done   *Value
}

// NewHeap creates an empty arena.
func NewHeap() *Heap {
	return &Heap{}
}

// Len reports how many values this heap has allocated so far; exposed for
// tests and for the debugger's `stack`/diagnostic commands.
func (h *Heap) Len() int {
	return len(h.values)
}

func (h *Heap) alloc(v *Value) *Value {
	v.heap = h
	h.values = append(h.values, v)
	return v
}

// MakeBoolean allocates a Boolean value and installs its native methods and
// self field.
func (h *Heap) MakeBoolean(bit bool) *Value {
	v := newValue(KindBoolean)
	v.Bool = bit
	installBooleanMethods(v)
	h.installSelf(v)
	return h.alloc(v)
}

// MakeNumber allocates a Number value.
func (h *Heap) MakeNumber(n float64) *Value {
	v := newValue(KindNumber)
	v.Num = n
	installNumberMethods(v)
	h.installSelf(v)
	return h.alloc(v)
}

// MakeString allocates a String value.
func (h *Heap) MakeString(s string) *Value {
	v := newValue(KindString)
	v.Str = s
	installStringMethods(v)
	h.installSelf(v)
	return h.alloc(v)
}

// MakeDone returns the Done singleton for this heap, allocating it on first
// use. Done carries no distinguishing payload, so a new instance on every
// call would be observably identical; a single shared instance keeps
// pointer-identity checks cheap without changing semantics.
func (h *Heap) MakeDone() *Value {
	if h.done == nil {
		v := newValue(KindDone)
		h.installSelf(v)
		h.done = h.alloc(v)
	}
	return h.done
}

// MakeBlock allocates a Block value closing over capturedScope.
func (h *Heap) MakeBlock(params []string, body any, capturedScope *Value) *Value {
	v := newValue(KindBlock)
	v.Block = &BlockPayload{Params: params, Body: body, Defined: capturedScope}
	installBlockMethods(v)
	h.installSelf(v)
	return h.alloc(v)
}

// MakeUserObject allocates an empty UserObject; its field/method maps are
// populated by the evaluator while running an ObjectConstructor body.
func (h *Heap) MakeUserObject() *Value {
	v := newValue(KindUserObject)
	h.installSelf(v)
	return h.alloc(v)
}

// MakeScope allocates a new Scope whose parent is the given handle (nil at
// the root).
func (h *Heap) MakeScope(parent *Value) *Value {
	v := newValue(KindScope)
	v.Parent = parent
	h.installSelf(v)
	return h.alloc(v)
}

func (h *Heap) installSelf(v *Value) {
	v.SetField("self", v)
}
