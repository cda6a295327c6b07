package flow

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDeps struct{}

func promptStep(text string) Renderer[testDeps] {
	return func(context.Context, testDeps, *Session) (Prompt, error) {
		return Prompt{Text: text}, nil
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry[testDeps]()

	require.NoError(t, reg.Register("Production:branch_id", promptStep("a")))
	err := reg.Register("Production:branch_id", promptStep("b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, reg.Register("", promptStep("x")))
	assert.Error(t, reg.Register("Sales:branch_id", nil))
}

func TestTriggersResolveByTerminalName(t *testing.T) {
	reg := NewRegistry[testDeps]()
	reg.Bind("branch_id", Trigger[testDeps]{
		Kind:    KindCallback,
		Pattern: regexp.MustCompile(`^branch_\d+$`),
	})

	// Steps from different forms sharing a field name share triggers.
	assert.Len(t, reg.Triggers("Production:branch_id"), 1)
	assert.Len(t, reg.Triggers("Sales:branch_id"), 1)
	assert.Empty(t, reg.Triggers("Production:date"))
}

func TestBindStepPrecedesSharedName(t *testing.T) {
	reg := NewRegistry[testDeps]()
	reg.Bind("branch_id", Trigger[testDeps]{
		Kind:    KindCallback,
		Pattern: regexp.MustCompile(`^branch_\d+$`),
		Next:    "Production:date",
	})
	reg.BindStep("Sales:branch_id", Trigger[testDeps]{
		Kind:    KindCallback,
		Pattern: regexp.MustCompile(`^branch_\d+$`),
		Next:    "Sales:date",
	})

	got, ok := Match(reg.Triggers("Sales:branch_id"), KindCallback, "branch_4")
	require.True(t, ok)
	assert.Equal(t, StepID("Sales:date"), got.Next)

	got, ok = Match(reg.Triggers("Production:branch_id"), KindCallback, "branch_4")
	require.True(t, ok)
	assert.Equal(t, StepID("Production:date"), got.Next)
}

func TestMergeLaterWins(t *testing.T) {
	a := NewRegistry[testDeps]()
	b := NewRegistry[testDeps]()
	require.NoError(t, a.Register("activity", promptStep("old")))
	require.NoError(t, b.Register("activity", promptStep("new")))
	require.NoError(t, b.Register("Sales:price", promptStep("price")))

	a.Merge(b)
	assert.Equal(t, 2, a.Steps())

	render, ok := a.Renderer("activity")
	require.True(t, ok)
	p, err := render(context.Background(), testDeps{}, &Session{})
	require.NoError(t, err)
	assert.Equal(t, "new", p.Text)
}

func TestMatchWalksRegistrationOrder(t *testing.T) {
	triggers := []Trigger[testDeps]{
		{Kind: KindCallback, Pattern: regexp.MustCompile(`^save$`)},
		{Kind: KindCallback, Pattern: nil}, // catch-all
		{Kind: KindMessage, Pattern: regexp.MustCompile(`^\d+$`)},
	}

	got, ok := Match(triggers, KindCallback, "save")
	require.True(t, ok)
	assert.Equal(t, "^save$", got.Pattern.String())

	got, ok = Match(triggers, KindCallback, "anything")
	require.True(t, ok)
	assert.Nil(t, got.Pattern)

	_, ok = Match(triggers, KindMessage, "abc")
	assert.False(t, ok)

	got, ok = Match(triggers, KindMessage, "15")
	require.True(t, ok)
	assert.Equal(t, KindMessage, got.Kind)
}
