// Package rules evaluates per-property validation expressions against a
// model. Expressions use the expr-lang grammar and must yield a boolean;
// a false result marks the property as violating.
package rules

import (
	"fmt"
	"sort"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/aretw0/graft/pkg/core"
)

// Violation describes one failed rule.
type Violation struct {
	Property   string
	Expression string
	Value      any
}

// ViolationError aggregates the violations of one check pass.
type ViolationError struct {
	Violations []Violation
}

func (e *ViolationError) Error() string {
	props := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		props[i] = v.Property
	}
	return fmt.Sprintf("rule violation on %s", strings.Join(props, ", "))
}

// rule pairs a property with its compiled program.
type rule struct {
	property   string
	expression string
	program    *exprvm.Program
}

// Checker holds the compiled rules for one schema. It is immutable after
// New and safe for concurrent use.
type Checker struct {
	schema *core.Schema
	rules  []rule
}

var _ core.Checker = (*Checker)(nil)

// New compiles one expression per property. Properties not declared in the
// schema fail with ErrUnknownProperty; expressions that do not compile to a
// boolean program fail immediately. Rules are ordered by property name so
// check results are deterministic.
func New(schema *core.Schema, expressions map[string]string) (*Checker, error) {
	if schema == nil {
		return nil, fmt.Errorf("rules: nil schema")
	}

	properties := make([]string, 0, len(expressions))
	for property := range expressions {
		properties = append(properties, property)
	}
	sort.Strings(properties)

	c := &Checker{schema: schema, rules: make([]rule, 0, len(properties))}
	for _, property := range properties {
		if _, err := schema.KindOf(property); err != nil {
			return nil, fmt.Errorf("rule for %q: %w", property, core.ErrUnknownProperty)
		}
		expression := expressions[property]
		program, err := exprlang.Compile(expression,
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
			exprlang.AsBool(),
		)
		if err != nil {
			return nil, fmt.Errorf("compile rule for %q: %w", property, err)
		}
		c.rules = append(c.rules, rule{
			property:   property,
			expression: expression,
			program:    program,
		})
	}
	return c, nil
}

// Check evaluates every rule against the model's current values.
// The environment exposes each property by name; unset properties are nil.
// All rules run; the violations are aggregated into one ViolationError.
func (c *Checker) Check(m *core.Model) error {
	if m == nil {
		return fmt.Errorf("rules: nil model")
	}
	env := environment(m)

	var violations []Violation
	for _, r := range c.rules {
		ok, err := run(r.program, env)
		if err != nil {
			return fmt.Errorf("evaluate rule for %q: %w", r.property, err)
		}
		if !ok {
			violations = append(violations, Violation{
				Property:   r.property,
				Expression: r.expression,
				Value:      env[r.property],
			})
		}
	}
	if len(violations) > 0 {
		return &ViolationError{Violations: violations}
	}
	return nil
}

// Guard registers an observation per ruled property that re-checks the
// property's rule on every write. Violations are reported to onViolation
// with the property name and the violating value; the write itself is not
// rolled back (delivery already happened by the time the rule runs).
func (c *Checker) Guard(m *core.Model, onViolation func(property string, value any)) ([]*core.Subscription, error) {
	if onViolation == nil {
		return nil, fmt.Errorf("rules: nil violation handler")
	}

	var subs []*core.Subscription
	for _, r := range c.rules {
		r := r
		sub, err := m.Observe(r.property, func(_, new any) {
			env := environment(m)
			ok, err := run(r.program, env)
			if err != nil || !ok {
				onViolation(r.property, new)
			}
		})
		if err != nil {
			for _, s := range subs {
				s.Cancel()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func environment(m *core.Model) map[string]any {
	env := make(map[string]any, m.Schema().Len())
	for _, name := range m.Schema().Names() {
		v, ok, err := m.Get(name)
		if err != nil || !ok {
			env[name] = nil
			continue
		}
		env[name] = v
	}
	return env
}

func run(program *exprvm.Program, env map[string]any) (bool, error) {
	out, err := exprlang.Run(program, env)
	if err != nil {
		return false, err
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("rule did not yield a boolean (got %T)", out)
	}
	return ok, nil
}
