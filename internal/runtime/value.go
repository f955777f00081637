// Package runtime implements the uniform object model the evaluator walks:
// tagged values, scopes, the heap arena that owns them, method-request
// dispatch, and the native method registry.
package runtime

// Kind tags the variant a Value holds. Every Value additionally carries a
// field map and a method map regardless of Kind, per the "everything is an
// object" design: Kind only selects which payload field is meaningful.
type Kind int

const (
	KindBoolean Kind = iota
	KindNumber
	KindString
	KindDone
	KindBlock
	KindUserObject
	KindScope
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindDone:
		return "Done"
	case KindBlock:
		return "Block"
	case KindUserObject:
		return "UserObject"
	case KindScope:
		return "Scope"
	default:
		return "Unknown"
	}
}

// Value is the single runtime representation for every kind of datum the
// evaluator produces. Values are always heap-owned; the evaluator and the
// rest of this package hold only *Value handles, never copies, so identity
// comparisons on UserObject/Scope/Block are pointer comparisons.
type Value struct {
	Kind Kind

	Bool   bool
	Num    float64
	Str    string
	Block  *BlockPayload
	Parent *Value // enclosing scope of a KindScope (nil at root) or of a UserObject built by an object constructor

	heap    *Heap
	fields  map[string]*Value
	methods map[string]*MethodDef

	// constants records which field names in this value's field map are
	// immutable (declared with ConstantDeclaration). Only meaningful on
	// Scope/UserObject values, which are the only ones user code can bind
	// fields into.
	constants map[string]bool
}

// BlockPayload is the Block variant's data: its formal parameters, body
// statements (typed as `any` here to avoid an import cycle with pkg/ast;
// the evaluator stores *ast.Block and recovers it with a type assertion),
// and the scope it closed over when the Block literal was evaluated.
type BlockPayload struct {
	Params  []string
	Body    any
	Defined *Value // captured scope
}

func newValue(kind Kind) *Value {
	return &Value{
		Kind:      kind,
		fields:    make(map[string]*Value),
		methods:   make(map[string]*MethodDef),
		constants: make(map[string]bool),
	}
}

// HasField reports whether name is bound in this value's field map.
func (v *Value) HasField(name string) bool {
	_, ok := v.fields[name]
	return ok
}

// GetField returns the bound value for name, or an UndefinedFieldError.
func (v *Value) GetField(name string) (*Value, error) {
	f, ok := v.fields[name]
	if !ok {
		return nil, &UndefinedFieldError{Name: name}
	}
	return f, nil
}

// FieldNames returns the names bound in this value's field map, in no
// particular order; callers that need a stable order (e.g. the debugger's
// `globals` command) sort the result themselves.
func (v *Value) FieldNames() []string {
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	return names
}

// SetField binds name to handle in this value's field map. If the name was
// previously declared constant, the caller must check IsConstant first;
// SetField itself does not enforce immutability (the evaluator does, at the
// Assignment node, per spec: ConstantReassignment is surfaced there).
func (v *Value) SetField(name string, handle *Value) {
	v.fields[name] = handle
}

// MarkConstant records that name, once bound, may not be reassigned.
func (v *Value) MarkConstant(name string) {
	v.constants[name] = true
}

// IsConstant reports whether name was declared with ConstantDeclaration.
func (v *Value) IsConstant(name string) bool {
	return v.constants[name]
}

// HasMethod reports whether selector is present in this value's method map.
func (v *Value) HasMethod(selector string) bool {
	_, ok := v.methods[selector]
	return ok
}

// GetMethod returns the method definition for selector, or false.
func (v *Value) GetMethod(selector string) (*MethodDef, bool) {
	m, ok := v.methods[selector]
	return m, ok
}

// SetMethod installs def under selector in this value's method map.
func (v *Value) SetMethod(selector string, def *MethodDef) {
	v.methods[selector] = def
}

// Equal implements spec.md §4.1's equality rule: structural for
// primitives, identity for UserObject/Scope/Block.
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBoolean:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindDone:
		return true
	default:
		return a == b
	}
}

// String renders a value for diagnostics and the CLI's `run` output.
func (v *Value) String() string {
	switch v.Kind {
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.Num)
	case KindString:
		return v.Str
	case KindDone:
		return "done"
	case KindBlock:
		return "a block"
	case KindUserObject:
		return "an object"
	case KindScope:
		return "a scope"
	default:
		return "<?>"
	}
}
