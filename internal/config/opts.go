package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml"
)

const (
	// DefaultGroup is the unnamed group, written as [DEFAULT] in files.
	DefaultGroup = ""
	DefaultTable = "DEFAULT"

	StrType = "string"
)

var (
	ErrDuplicateOpt = errors.New("duplicate option")
	ErrNoSuchOpt    = errors.New("no such option")
	ErrInvalidValue = errors.New("invalid option value")
)

var validate = validator.New()

// Opt describes a single configuration option.
type Opt struct {
	Name    string `validate:"required"`
	Type    string `validate:"oneof=string"`
	Default string
	Help    string
	Choices []string
}

func StrOpt(name, def, help string) Opt {
	return Opt{Name: name, Type: StrType, Default: def, Help: help}
}

func (o Opt) Clone() Opt {
	o.Choices = slices.Clone(o.Choices)
	return o
}

func (o Opt) equal(other Opt) bool {
	return o.Name == other.Name &&
		o.Type == other.Type &&
		o.Default == other.Default &&
		o.Help == other.Help &&
		slices.Equal(o.Choices, other.Choices)
}

func (o Opt) check(value string) error {
	if len(o.Choices) > 0 && !slices.Contains(o.Choices, value) {
		return fmt.Errorf("%w: %q for %s, expected one of %v", ErrInvalidValue, value, o.Name, o.Choices)
	}
	return nil
}

// OptGroup pairs a section name with its option definitions.
type OptGroup struct {
	Name string
	Opts []Opt
}

func (g OptGroup) Clone() OptGroup {
	return OptGroup{Name: g.Name, Opts: cloneOpts(g.Opts)}
}

func cloneOpts(opts []Opt) []Opt {
	if opts == nil {
		return nil
	}
	out := make([]Opt, len(opts))
	for i, o := range opts {
		out[i] = o.Clone()
	}
	return out
}

type registered struct {
	opt   Opt
	value *string
}

type group struct {
	order []string
	opts  map[string]*registered
}

// Registry holds option definitions and the values set for them.
// It is meant to be built once at startup and handed to whoever needs it.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]*group
}

func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*group)}
}

// RegisterOpts adds option definitions to a group. Registering an identical
// definition again is a no-op; a different definition under a known name
// fails with ErrDuplicateOpt and leaves the registry unchanged.
func (r *Registry) RegisterOpts(groupName string, opts []Opt) error {
	for _, o := range opts {
		if err := validate.Struct(o); err != nil {
			return fmt.Errorf("option %q: %w", o.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[groupName]
	if !ok {
		g = &group{opts: make(map[string]*registered)}
	}

	var fresh []Opt
	for _, o := range opts {
		if existing, ok := g.opts[o.Name]; ok {
			if !existing.opt.equal(o) {
				return fmt.Errorf("%w: %s in group %q", ErrDuplicateOpt, o.Name, groupName)
			}
			continue
		}
		if slices.ContainsFunc(fresh, func(f Opt) bool { return f.Name == o.Name }) {
			return fmt.Errorf("%w: %s in group %q", ErrDuplicateOpt, o.Name, groupName)
		}
		fresh = append(fresh, o)
	}

	for _, o := range fresh {
		g.order = append(g.order, o.Name)
		g.opts[o.Name] = &registered{opt: o.Clone()}
	}
	r.groups[groupName] = g

	return nil
}

// Opts returns a copy of the definitions registered in a group.
func (r *Registry) Opts(groupName string) []Opt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[groupName]
	if !ok {
		return nil
	}
	return g.snapshot()
}

// Groups returns every group, the default one first.
func (r *Registry) Groups() []OptGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]OptGroup, 0, len(names))
	for _, name := range names {
		out = append(out, OptGroup{Name: name, Opts: r.groups[name].snapshot()})
	}
	return out
}

func (g *group) snapshot() []Opt {
	out := make([]Opt, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.opts[name].opt.Clone())
	}
	return out
}

func (r *Registry) lookup(groupName, name string) (*registered, error) {
	g, ok := r.groups[groupName]
	if !ok {
		return nil, fmt.Errorf("%w: %s in group %q", ErrNoSuchOpt, name, groupName)
	}
	reg, ok := g.opts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in group %q", ErrNoSuchOpt, name, groupName)
	}
	return reg, nil
}

// Set overrides the value of a registered option.
func (r *Registry) Set(groupName, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, err := r.lookup(groupName, name)
	if err != nil {
		return err
	}
	if err := reg.opt.check(value); err != nil {
		return err
	}
	reg.value = &value
	return nil
}

// String returns the value of an option, falling back to its default.
func (r *Registry) String(groupName, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, err := r.lookup(groupName, name)
	if err != nil {
		return "", err
	}
	if reg.value != nil {
		return *reg.value, nil
	}
	return reg.opt.Default, nil
}

// LoadTOML sets option values from a TOML document. Top level keys and the
// [DEFAULT] table belong to the default group, other tables to the group of
// the same name. Keys of unregistered options are skipped. Either every value
// is applied or, on error, none is.
func (r *Registry) LoadTOML(data []byte) error {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return fmt.Errorf("parse options: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []assignment
	for key, raw := range tree.ToMap() {
		table, ok := raw.(map[string]interface{})
		if !ok {
			a, err := r.assign(DefaultGroup, key, raw)
			if err != nil {
				return err
			}
			pending = append(pending, a)
			continue
		}

		groupName := key
		if key == DefaultTable {
			groupName = DefaultGroup
		}
		for name, value := range table {
			a, err := r.assign(groupName, name, value)
			if err != nil {
				return err
			}
			pending = append(pending, a)
		}
	}

	for _, a := range pending {
		a := a
		if a.reg != nil {
			a.reg.value = &a.value
		}
	}
	return nil
}

func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read options file: %w", err)
	}
	return r.LoadTOML(data)
}

type assignment struct {
	reg   *registered
	value string
}

// assign checks a raw file value against its option. Unknown options
// yield an assignment without a target. Callers hold r.mu.
func (r *Registry) assign(groupName, name string, raw interface{}) (assignment, error) {
	reg, err := r.lookup(groupName, name)
	if errors.Is(err, ErrNoSuchOpt) {
		return assignment{}, nil
	}

	value, ok := raw.(string)
	if !ok {
		return assignment{}, fmt.Errorf("%w: %s in group %q expects a string, got %T", ErrInvalidValue, name, groupName, raw)
	}
	if err := reg.opt.check(value); err != nil {
		return assignment{}, err
	}
	return assignment{reg: reg, value: value}, nil
}
