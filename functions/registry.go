package functions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// FunctionType groups functions by what they operate on.
type FunctionType string

const (
	TypeMath        FunctionType = "math"
	TypeString      FunctionType = "string"
	TypeAggregation FunctionType = "aggregation"
	TypeConditional FunctionType = "conditional"
	TypeCollection  FunctionType = "collection"
	TypeCustom      FunctionType = "custom"
)

// ErrSealed is returned when registering into a read-only registry such as
// Builtin().
var ErrSealed = errors.New("function registry is read-only")

// FunctionContext is passed to every call.
type FunctionContext struct {
	// Data is the row the calling expression is evaluated against, or nil.
	Data interface{}
	// Extra carries caller-defined values.
	Extra map[string]interface{}
}

// Function is a named callable usable from expressions as name(args...).
type Function interface {
	GetName() string
	GetType() FunctionType
	GetCategory() string
	// Validate checks the arguments before Execute is called.
	Validate(args []interface{}) error
	Execute(ctx *FunctionContext, args []interface{}) (interface{}, error)
	GetDescription() string
}

// Executor is the body of a function registered with RegisterFunc.
type Executor func(ctx *FunctionContext, args []interface{}) (interface{}, error)

// Registry maps lower-cased names to functions. It is safe for concurrent
// use. Registries are independent of each other; there is no global one to
// mutate.
type Registry struct {
	mu         sync.RWMutex
	functions  map[string]Function
	categories map[FunctionType][]Function
	sealed     bool
}

var builtin = func() *Registry {
	r := NewDefaultRegistry()
	r.sealed = true
	return r
}()

// Builtin returns the shared read-only registry holding the builtin
// functions. Use NewDefaultRegistry or Clone to get a registry that accepts
// additional functions.
func Builtin() *Registry {
	return builtin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		functions:  make(map[string]Function),
		categories: make(map[FunctionType][]Function),
	}
}

// NewDefaultRegistry creates a registry preloaded with the builtin functions.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltinFunctions(r)
	return r
}

// Register adds fn. Names are case-insensitive and must be unique.
func (r *Registry) Register(fn Function) error {
	if fn == nil || fn.GetName() == "" {
		return fmt.Errorf("function name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}

	name := strings.ToLower(fn.GetName())
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("function %s already registered", name)
	}

	r.functions[name] = fn
	r.categories[fn.GetType()] = append(r.categories[fn.GetType()], fn)
	return nil
}

// RegisterFunc registers executor under name. Calls with an argument count
// outside arity fail before executor runs.
func (r *Registry) RegisterFunc(name string, fnType FunctionType, description string, arity Arity, executor Executor) error {
	if executor == nil {
		return fmt.Errorf("function %s has no executor", name)
	}
	return r.Register(&CustomFunction{
		Signature: Signature{Name: name, Type: fnType, Description: description, Arity: arity},
		executor:  executor,
	})
}

// Get looks name up case-insensitively.
func (r *Registry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.functions[strings.ToLower(name)]
	return fn, exists
}

// GetByType lists the functions of one type in registration order.
func (r *Registry) GetByType(fnType FunctionType) []Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Function, len(r.categories[fnType]))
	copy(out, r.categories[fnType])
	return out
}

// Names lists every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes name and reports whether it was present. Sealed
// registries are left untouched.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return false
	}

	name = strings.ToLower(name)
	fn, exists := r.functions[name]
	if !exists {
		return false
	}

	delete(r.functions, name)

	fnType := fn.GetType()
	if funcs, ok := r.categories[fnType]; ok {
		for i, f := range funcs {
			if strings.ToLower(f.GetName()) == name {
				r.categories[fnType] = append(funcs[:i], funcs[i+1:]...)
				break
			}
		}
	}

	return true
}

// Clone returns a writable copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewRegistry()
	for name, fn := range r.functions {
		out.functions[name] = fn
	}
	for t, funcs := range r.categories {
		out.categories[t] = append([]Function(nil), funcs...)
	}
	return out
}

// Execute validates args and runs the named function.
func (r *Registry) Execute(name string, ctx *FunctionContext, args []interface{}) (interface{}, error) {
	fn, exists := r.Get(name)
	if !exists {
		return nil, fmt.Errorf("function %s not found", name)
	}

	if err := fn.Validate(args); err != nil {
		return nil, fmt.Errorf("function %s validation failed: %w", name, err)
	}

	if ctx == nil {
		ctx = &FunctionContext{}
	}
	return fn.Execute(ctx, args)
}

// CustomFunction wraps an Executor.
type CustomFunction struct {
	Signature
	executor Executor
}

func (f *CustomFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	return f.executor(ctx, args)
}

func registerBuiltinFunctions(r *Registry) {
	// Math functions
	_ = r.Register(NewAbsFunction())
	_ = r.Register(NewSqrtFunction())
	_ = r.Register(NewPowerFunction())
	_ = r.Register(NewCeilingFunction())
	_ = r.Register(NewFloorFunction())
	_ = r.Register(NewRoundFunction())
	_ = r.Register(NewModFunction())

	// String functions
	_ = r.Register(NewConcatFunction())
	_ = r.Register(NewLengthFunction())
	_ = r.Register(NewUpperFunction())
	_ = r.Register(NewLowerFunction())
	_ = r.Register(NewTrimFunction())
	_ = r.Register(NewSubstringFunction())
	_ = r.Register(NewReplaceFunction())

	// Aggregation functions
	_ = r.Register(NewSumFunction())
	_ = r.Register(NewAvgFunction())
	_ = r.Register(NewMinFunction())
	_ = r.Register(NewMaxFunction())
	_ = r.Register(NewCountFunction())
	_ = r.Register(NewMedianFunction())

	// Conditional and collection functions
	_ = r.Register(NewCoalesceFunction())
	_ = r.Register(NewIfNullFunction())
	_ = r.Register(NewContainsFunction())
}
