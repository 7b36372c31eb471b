package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/wippyai/disposable/assoc"
	"github.com/wippyai/disposable/disposal"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrArity           = errors.New("wrong number of arguments")
	ErrUnknownObject   = errors.New("unknown object")
	ErrDuplicateObject = errors.New("object already exists")
)

// Object is the value allocated by the "new" command.
type Object struct {
	Name string
}

// Result is the outcome of one command.
type Result struct {
	Command     string
	Output      string
	Diagnostics []disposal.Diagnostic
	Line        int
}

// Row is the state of one live object.
type Row struct {
	Name         string
	Instance     string
	Associations []string
	Count        uint
	State        disposal.State
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink forwards diagnostics to s in addition to capturing them.
func WithSink(s disposal.Sink) Option {
	return func(r *Runner) {
		r.sinks = append(r.sinks, s)
	}
}

// WithObserver subscribes o to the runner's tracker.
func WithObserver(o disposal.Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

// Runner executes script commands against its own tracker and registry.
// It is not safe for concurrent use.
type Runner struct {
	tracker   *disposal.Tracker
	registry  *assoc.Registry
	objects   map[string]*Object
	keys      map[string]assoc.Key
	sinks     disposal.MultiSink
	observers []disposal.Observer
	pending   []disposal.Diagnostic
	line      int
}

// NewRunner creates a runner with an empty object set.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		registry: assoc.NewRegistry(),
		objects:  make(map[string]*Object),
		keys:     make(map[string]assoc.Key),
	}
	for _, opt := range opts {
		opt(r)
	}

	capture := disposal.SinkFunc(func(d disposal.Diagnostic) {
		r.pending = append(r.pending, d)
	})
	trackerOpts := []disposal.Option{
		disposal.WithRegistry(r.registry),
		disposal.WithSink(append(disposal.MultiSink{capture}, r.sinks...)),
	}
	for _, o := range r.observers {
		trackerOpts = append(trackerOpts, disposal.WithObserver(o))
	}
	r.tracker = disposal.New(trackerOpts...)
	return r
}

// Run executes every line of rd. It stops at the first script error and
// returns the results gathered so far. Blank and comment lines produce no
// result.
func (r *Runner) Run(rd io.Reader) ([]Result, error) {
	var results []Result
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		res, err := r.Exec(scanner.Text())
		if res.Command != "" {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("read script: %w", err)
	}
	return results, nil
}

// Exec executes a single line.
func (r *Runner) Exec(text string) (Result, error) {
	r.line++
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	res := Result{Line: r.line, Command: strings.Join(fields, " ")}
	if len(fields) == 0 {
		return res, nil
	}

	out, err := r.dispatch(fields[0], fields[1:])
	res.Output = out
	res.Diagnostics = r.pending
	r.pending = nil
	if err != nil {
		return res, fmt.Errorf("line %d: %s: %w", r.line, fields[0], err)
	}
	return res, nil
}

func (r *Runner) dispatch(cmd string, args []string) (string, error) {
	switch cmd {
	case "new":
		if err := arity(args, 1); err != nil {
			return "", err
		}
		return r.allocate(args[0])

	case "make", "retain", "release", "dispose", "state":
		if err := arity(args, 1); err != nil {
			return "", err
		}
		obj, err := r.object(args[0])
		if err != nil {
			return "", err
		}
		in := r.track(obj)
		switch cmd {
		case "make":
			in.MakeDisposable()
		case "retain":
			in.RetainDisposable()
		case "release":
			in.ReleaseDisposable()
		case "dispose":
			in.Dispose()
		}
		return describeState(in), nil

	case "guard":
		if err := arity(args, 2); err != nil {
			return "", err
		}
		obj, err := r.object(args[0])
		if err != nil {
			return "", err
		}
		if r.track(obj).IsDisposedWithLogIfTrue() {
			return "refused " + args[1], nil
		}
		return "allowed " + args[1], nil

	case "log":
		if err := arity(args, 2); err != nil {
			return "", err
		}
		obj, err := r.object(args[0])
		if err != nil {
			return "", err
		}
		r.track(obj).LogOperation(args[1])
		return "", nil

	case "assoc":
		if err := arity(args, 3); err != nil {
			return "", err
		}
		obj, err := r.object(args[0])
		if err != nil {
			return "", err
		}
		var value any = args[2]
		if other, ok := r.objects[args[2]]; ok {
			value = other
		}
		r.track(obj).AssociateValue(value, r.key(args[1]))
		return args[1] + "=" + describe(value), nil

	case "weak":
		if err := arity(args, 3); err != nil {
			return "", err
		}
		obj, err := r.object(args[0])
		if err != nil {
			return "", err
		}
		other, err := r.object(args[2])
		if err != nil {
			return "", err
		}
		r.track(obj).WeaklyAssociateValue(assoc.Weak(other), r.key(args[1]))
		return args[1] + "~" + describe(other), nil

	case "get":
		if err := arity(args, 2); err != nil {
			return "", err
		}
		obj, err := r.object(args[0])
		if err != nil {
			return "", err
		}
		v, ok := r.track(obj).AssociatedValueForKey(r.key(args[1]))
		if !ok {
			return args[1] + "=<absent>", nil
		}
		return args[1] + "=" + describe(v), nil

	case "drop":
		if err := arity(args, 1); err != nil {
			return "", err
		}
		if _, err := r.object(args[0]); err != nil {
			return "", err
		}
		delete(r.objects, args[0])
		return "dropped " + args[0], nil

	case "gc":
		if err := arity(args, 0); err != nil {
			return "", err
		}
		runtime.GC()
		runtime.GC()
		return "collected", nil
	}

	return "", ErrUnknownCommand
}

// Snapshot returns the state of every live object, sorted by name.
func (r *Runner) Snapshot() []Row {
	names := make([]string, 0, len(r.objects))
	for name := range r.objects {
		names = append(names, name)
	}
	sort.Strings(names)

	keyNames := make([]string, 0, len(r.keys))
	for name := range r.keys {
		keyNames = append(keyNames, name)
	}
	sort.Strings(keyNames)

	rows := make([]Row, 0, len(names))
	for _, name := range names {
		in := r.track(r.objects[name])
		row := Row{
			Name:     name,
			Instance: in.String(),
			State:    in.State(),
			Count:    in.DisposalCount(),
		}
		for _, k := range keyNames {
			if v, ok := in.AssociatedValueForKey(r.keys[k]); ok {
				row.Associations = append(row.Associations, k+"="+describe(v))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Tables returns the number of side tables the runner's registry holds.
func (r *Runner) Tables() int {
	return r.registry.Len()
}

func (r *Runner) allocate(name string) (string, error) {
	if _, ok := r.objects[name]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateObject, name)
	}
	obj := &Object{Name: name}
	r.objects[name] = obj
	return "allocated " + r.track(obj).String(), nil
}

func (r *Runner) object(name string) (*Object, error) {
	obj, ok := r.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, name)
	}
	return obj, nil
}

func (r *Runner) key(name string) assoc.Key {
	k, ok := r.keys[name]
	if !ok {
		k = assoc.NewKey(name)
		r.keys[name] = k
	}
	return k
}

func (r *Runner) track(obj *Object) disposal.Instance {
	return disposal.Track(r.tracker, obj)
}

func arity(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrArity, n, len(args))
	}
	return nil
}

func describeState(in disposal.Instance) string {
	return fmt.Sprintf("state=%s count=%d", in.State(), in.DisposalCount())
}

func describe(v any) string {
	if obj, ok := v.(*Object); ok {
		return "&" + obj.Name
	}
	return fmt.Sprint(v)
}
