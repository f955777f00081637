package runtime

import (
	"strconv"
	"strings"
)

// formatNumber renders a Number the way the CLI and diagnostics print it:
// integral values print without a trailing ".0", matching how Grace source
// writes them.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func installBooleanMethods(v *Value) {
	v.SetMethod("prefix!", NewNativeMethod(func(r *Value, _ []*Value) (*Value, error) {
		if r.Kind != KindBoolean {
			return nil, NewTypeMismatchError(KindBoolean, r.Kind)
		}
		return sharedHeap(r).MakeBoolean(!r.Bool), nil
	}))
	v.SetMethod("&&(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		other, err := asBoolean(args, 0)
		if err != nil {
			return nil, err
		}
		return sharedHeap(r).MakeBoolean(r.Bool && other), nil
	}))
	v.SetMethod("||(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		other, err := asBoolean(args, 0)
		if err != nil {
			return nil, err
		}
		return sharedHeap(r).MakeBoolean(r.Bool || other), nil
	}))
	v.SetMethod("==(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, NewArityMismatchError("==(_)", 1, len(args))
		}
		return sharedHeap(r).MakeBoolean(Equal(r, args[0])), nil
	}))
	v.SetMethod("!=(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, NewArityMismatchError("!=(_)", 1, len(args))
		}
		return sharedHeap(r).MakeBoolean(!Equal(r, args[0])), nil
	}))
}

func installNumberMethods(v *Value) {
	bin := func(sel string, fn func(a, b float64) float64) {
		v.SetMethod(sel, NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
			other, err := asNumber(args, 0)
			if err != nil {
				return nil, err
			}
			return sharedHeap(r).MakeNumber(fn(r.Num, other)), nil
		}))
	}
	cmp := func(sel string, fn func(a, b float64) bool) {
		v.SetMethod(sel, NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
			other, err := asNumber(args, 0)
			if err != nil {
				return nil, err
			}
			return sharedHeap(r).MakeBoolean(fn(r.Num, other)), nil
		}))
	}

	bin("+(_)", func(a, b float64) float64 { return a + b })
	bin("-(_)", func(a, b float64) float64 { return a - b })
	bin("*(_)", func(a, b float64) float64 { return a * b })
	v.SetMethod("/(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		other, err := asNumber(args, 0)
		if err != nil {
			return nil, err
		}
		if other == 0 {
			return nil, NewDivisionByZeroError()
		}
		return sharedHeap(r).MakeNumber(r.Num / other), nil
	}))
	v.SetMethod("prefix-", NewNativeMethod(func(r *Value, _ []*Value) (*Value, error) {
		if r.Kind != KindNumber {
			return nil, NewTypeMismatchError(KindNumber, r.Kind)
		}
		return sharedHeap(r).MakeNumber(-r.Num), nil
	}))
	v.SetMethod("==(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, NewArityMismatchError("==(_)", 1, len(args))
		}
		return sharedHeap(r).MakeBoolean(Equal(r, args[0])), nil
	}))
	v.SetMethod("!=(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, NewArityMismatchError("!=(_)", 1, len(args))
		}
		return sharedHeap(r).MakeBoolean(!Equal(r, args[0])), nil
	}))
	cmp("<(_)", func(a, b float64) bool { return a < b })
	cmp("<=(_)", func(a, b float64) bool { return a <= b })
	cmp(">(_)", func(a, b float64) bool { return a > b })
	cmp(">=(_)", func(a, b float64) bool { return a >= b })
}

func installStringMethods(v *Value) {
	cmp := func(sel string, fn func(a, b string) bool) {
		v.SetMethod(sel, NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
			other, err := asString(args, 0)
			if err != nil {
				return nil, err
			}
			return sharedHeap(r).MakeBoolean(fn(r.Str, other)), nil
		}))
	}

	v.SetMethod("==(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, NewArityMismatchError("==(_)", 1, len(args))
		}
		return sharedHeap(r).MakeBoolean(Equal(r, args[0])), nil
	}))
	v.SetMethod("!=(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, NewArityMismatchError("!=(_)", 1, len(args))
		}
		return sharedHeap(r).MakeBoolean(!Equal(r, args[0])), nil
	}))
	cmp("<(_)", func(a, b string) bool { return a < b })
	cmp("<=(_)", func(a, b string) bool { return a <= b })
	cmp(">(_)", func(a, b string) bool { return a > b })
	cmp(">=(_)", func(a, b string) bool { return a >= b })
	v.SetMethod("++(_)", NewNativeMethod(func(r *Value, args []*Value) (*Value, error) {
		other, err := asString(args, 0)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		sb.WriteString(r.Str)
		sb.WriteString(other)
		return sharedHeap(r).MakeString(sb.String()), nil
	}))
}

// installBlockMethods installs the apply(_,...) selector matching the
// block's own arity as a User method definition pointing straight back at
// the block's params/body/captured scope. Block application shares the
// same invocation machinery as a user method call (spec.md §4.2): fresh
// scope off the captured scope, bind params, run statements, same Return
// handling. It is therefore represented the same way rather than as a host
// NativeFunc, which cannot walk an AST body.
func installBlockMethods(v *Value) {
	selector := applySelector(len(v.Block.Params))
	v.SetMethod(selector, NewUserMethod(v.Block.Params, v.Block.Body, v.Block.Defined))
}

func applySelector(arity int) string {
	if arity == 0 {
		return "apply"
	}
	return "apply(" + strings.Repeat("_,", arity-1) + "_)"
}

// sharedHeap recovers the heap a value was allocated from, so natives can
// allocate their results without closing over an external reference.
func sharedHeap(v *Value) *Heap {
	return v.heap
}

func asBoolean(args []*Value, i int) (bool, error) {
	if i >= len(args) {
		return false, NewArityMismatchError("", i+1, len(args))
	}
	a := args[i]
	if a.Kind != KindBoolean {
		return false, NewTypeMismatchError(KindBoolean, a.Kind)
	}
	return a.Bool, nil
}

func asNumber(args []*Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, NewArityMismatchError("", i+1, len(args))
	}
	a := args[i]
	if a.Kind != KindNumber {
		return 0, NewTypeMismatchError(KindNumber, a.Kind)
	}
	return a.Num, nil
}

func asString(args []*Value, i int) (string, error) {
	if i >= len(args) {
		return "", NewArityMismatchError("", i+1, len(args))
	}
	a := args[i]
	if a.Kind != KindString {
		return "", NewTypeMismatchError(KindString, a.Kind)
	}
	return a.Str, nil
}
