package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/core"
)

func accountSchema(t *testing.T) *core.Schema {
	t.Helper()
	s, err := core.Define(
		core.Field{Name: "id", Kind: core.KindInt},
		core.Field{Name: "name", Kind: core.KindString},
		core.Field{Name: "balance", Kind: core.KindFloat},
	)
	require.NoError(t, err)
	return s
}

func TestNew_Errors(t *testing.T) {
	schema := accountSchema(t)

	_, err := New(schema, map[string]string{"missing": "true"})
	assert.ErrorIs(t, err, core.ErrUnknownProperty)

	_, err = New(schema, map[string]string{"id": "id >"})
	assert.Error(t, err, "malformed expressions fail at compile time")

	_, err = New(nil, nil)
	assert.Error(t, err)
}

func TestChecker_Check(t *testing.T) {
	schema := accountSchema(t)
	checker, err := New(schema, map[string]string{
		"id":      "id >= 0",
		"balance": "balance >= 0.0",
	})
	require.NoError(t, err)

	m := core.New(schema)
	require.NoError(t, m.Set("id", 7))
	require.NoError(t, m.Set("balance", 12.5))
	require.NoError(t, checker.Check(m))

	require.NoError(t, m.Set("balance", -3.0))
	err = checker.Check(m)
	require.Error(t, err)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	require.Len(t, violation.Violations, 1)
	assert.Equal(t, "balance", violation.Violations[0].Property)
	assert.Equal(t, -3.0, violation.Violations[0].Value)
	assert.Contains(t, err.Error(), "balance")
}

func TestChecker_AggregatesViolations(t *testing.T) {
	schema := accountSchema(t)
	checker, err := New(schema, map[string]string{
		"id":      "id >= 0",
		"balance": "balance >= 0.0",
	})
	require.NoError(t, err)

	m := core.New(schema)
	require.NoError(t, m.Set("id", -1))
	require.NoError(t, m.Set("balance", -1.0))

	var violation *ViolationError
	require.ErrorAs(t, checker.Check(m), &violation)
	require.Len(t, violation.Violations, 2)
	// Rules run in property-name order.
	assert.Equal(t, "balance", violation.Violations[0].Property)
	assert.Equal(t, "id", violation.Violations[1].Property)
}

func TestChecker_UnsetPropertyIsNil(t *testing.T) {
	schema := accountSchema(t)
	checker, err := New(schema, map[string]string{
		"name": `name == nil || len(name) > 0`,
	})
	require.NoError(t, err)

	m := core.New(schema)
	require.NoError(t, checker.Check(m), "unset properties appear as nil in the rule environment")

	require.NoError(t, m.Set("name", ""))
	assert.Error(t, checker.Check(m))
}

func TestChecker_Guard(t *testing.T) {
	schema := accountSchema(t)
	checker, err := New(schema, map[string]string{"id": "id >= 0"})
	require.NoError(t, err)

	m := core.New(schema)

	var violated []any
	subs, err := checker.Guard(m, func(property string, value any) {
		violated = append(violated, property, value)
	})
	require.NoError(t, err)
	require.Len(t, subs, 1)

	require.NoError(t, m.Set("id", 5))
	assert.Empty(t, violated)

	require.NoError(t, m.Set("id", -5))
	assert.Equal(t, []any{"id", int64(-5)}, violated)

	// Canceling the guard stops the reporting.
	for _, sub := range subs {
		sub.Cancel()
	}
	require.NoError(t, m.Set("id", -6))
	assert.Len(t, violated, 2)
}

func TestChecker_ImplementsServiceChecker(t *testing.T) {
	var _ core.Checker = (*Checker)(nil)
}
