// Package debugger is a console front-end driving the evaluator through
// its Debugger Hook Interface. It is deliberately kept outside
// internal/evaluator: the evaluator core never imports this package, only
// exposes the evaluator.DebugHook capability it implements here.
package debugger

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	"github.com/tidwall/sjson"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/blorente/gograce/internal/evaluator"
	"github.com/blorente/gograce/internal/runtime"
	"github.com/blorente/gograce/pkg/ast"
)

// Debugger implements evaluator.DebugHook, turning the blocking nature of
// BeforeNode into interactive stepping: it pauses and reads a command from
// In whenever stepping is enabled or the current node's source line has a
// breakpoint.
type Debugger struct {
	In  *bufio.Reader
	Out io.Writer

	breakpoints map[int]bool
	stepping    bool
	halted      bool
	haltErr     error

	lastNode ast.Node
	collator *collate.Collator // non-nil once SetLocale names a BCP 47 tag
}

// New creates a Debugger reading commands from in and writing transcript
// output to out. Stepping starts enabled, matching a debugger session
// that pauses before the very first node.
func New(in io.Reader, out io.Writer) *Debugger {
	return &Debugger{
		In:          bufio.NewReader(in),
		Out:         out,
		breakpoints: make(map[int]bool),
		stepping:    true,
	}
}

// BeforeNode implements evaluator.DebugHook. It pauses for a command when
// stepping is enabled or the node's line has a breakpoint.
func (d *Debugger) BeforeNode(node ast.Node, e *evaluator.Evaluator) {
	if d.halted {
		return
	}
	d.lastNode = node
	line := node.Pos().Line
	if d.stepping || d.breakpoints[line] {
		d.prompt(node, e)
	}
}

// AfterNode implements evaluator.DebugHook; this front-end has no
// post-node behavior beyond what BeforeNode's prompt loop already covers.
func (d *Debugger) AfterNode(ast.Node, *evaluator.Evaluator) {}

// SetStepping sets whether the debugger pauses before every node (true) or
// only at explicit breakpoints (false), used to seed the session from
// config.EvaluatorConfig.StartPaused.
func (d *Debugger) SetStepping(stepping bool) {
	d.stepping = stepping
}

// AddBreakpoint pre-populates a breakpoint at line, used to seed the
// session from config.EvaluatorConfig.Breakpoints.
func (d *Debugger) AddBreakpoint(line int) {
	d.breakpoints[line] = true
}

// SetLocale switches the `globals` command's sort order from byte-wise
// natural order to a locale-aware collation for the given BCP 47 tag (e.g.
// "en", "de"). An empty or unparseable tag leaves natural order in place.
func (d *Debugger) SetLocale(tag string) {
	if tag == "" {
		d.collator = nil
		return
	}
	t, err := language.Parse(tag)
	if err != nil {
		d.collator = nil
		return
	}
	d.collator = collate.New(t)
}

// Halted implements evaluator.Halter: once a `quit` command has fired (or
// command input has ended), the evaluator unwinds the current evaluateAST/evaluateSandbox call with
// haltErr rather than evaluating any further nodes (spec.md §5).
func (d *Debugger) Halted() (bool, error) {
	return d.halted, d.haltErr
}

// HaltError returns the error recorded by a `quit` command or by the end
// of command input, if any. Once
// Halted, it is the same error the evaluator already returned from
// evaluateAST/evaluateSandbox; callers keep it around for the CLI's own
// diagnostic line.
func (d *Debugger) HaltError() error {
	return d.haltErr
}

func (d *Debugger) prompt(node ast.Node, e *evaluator.Evaluator) {
	for {
		fmt.Fprintf(d.Out, "%s> ", node.Pos())
		line, err := d.In.ReadString('\n')
		if err != nil {
			d.halted = true
			d.haltErr = fmt.Errorf("debugger input ended at %s: %w", node.Pos(), err)
			return
		}
		cmd := strings.TrimSpace(line)
		fields := strings.Fields(cmd)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "step", "s":
			d.stepping = true
			return
		case "continue", "c":
			d.stepping = false
			return
		case "break", "b":
			if len(fields) != 2 {
				fmt.Fprintln(d.Out, "usage: break <line>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintln(d.Out, "invalid line number:", fields[1])
				continue
			}
			d.breakpoints[n] = true
			fmt.Fprintf(d.Out, "breakpoint set at line %d\n", n)
		case "inspect", "i":
			if len(fields) != 2 {
				fmt.Fprintln(d.Out, "usage: inspect <name>")
				continue
			}
			d.inspect(e, fields[1])
		case "globals", "g":
			d.printFieldNames(e.CurrentScope())
		case "export", "x":
			d.export(e.CurrentScope())
		case "stack":
			fmt.Fprintf(d.Out, "heap size: %d\n", e.Heap.Len())
		case "quit", "q":
			d.halted = true
			d.haltErr = fmt.Errorf("halted by debugger at %s", node.Pos())
			return
		default:
			fmt.Fprintln(d.Out, "unknown command:", fields[0])
		}
	}
}

func (d *Debugger) inspect(e *evaluator.Evaluator, name string) {
	for s := e.CurrentScope(); s != nil; s = s.Parent {
		if s.HasField(name) {
			v, _ := s.GetField(name)
			fmt.Fprintf(d.Out, "%s = %s (%s)\n", name, v.String(), v.Kind)
			return
		}
	}
	fmt.Fprintf(d.Out, "%s is not in scope\n", name)
}

// export prints the current scope's primitive fields (Boolean, Number,
// String, Done) as a single JSON object, built incrementally with sjson so
// the `export` command needs no intermediate struct matching every Value
// kind. Fields holding a Block/UserObject/Scope are skipped: those have no
// natural JSON rendering and "self" is always one of them.
func (d *Debugger) export(scope *runtime.Value) {
	names := scope.FieldNames()
	sort.Strings(names)

	doc := "{}"
	for _, name := range names {
		v, _ := scope.GetField(name)
		var err error
		switch v.Kind {
		case runtime.KindBoolean:
			doc, err = sjson.Set(doc, name, v.Bool)
		case runtime.KindNumber:
			doc, err = sjson.Set(doc, name, v.Num)
		case runtime.KindString:
			doc, err = sjson.Set(doc, name, v.Str)
		case runtime.KindDone:
			doc, err = sjson.SetRaw(doc, name, "null")
		default:
			continue
		}
		if err != nil {
			fmt.Fprintln(d.Out, "export failed:", err)
			return
		}
	}
	fmt.Fprintln(d.Out, doc)
}

// printFieldNames lists the current scope's field names, sorted in natural
// order (so "field2" sorts before "field10") unless SetLocale installed a
// collator, in which case locale-aware collation order is used instead,
// matching the debugger's `globals` command.
func (d *Debugger) printFieldNames(scope *runtime.Value) {
	names := scope.FieldNames()
	if d.collator != nil {
		d.collator.SortStrings(names)
	} else {
		sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	}
	for _, n := range names {
		fmt.Fprintln(d.Out, n)
	}
}
