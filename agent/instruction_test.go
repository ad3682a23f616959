package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstruction_Static(t *testing.T) {
	i := NewInstructionFromText("{{.agent}} works on: {{.task}}")
	assert.True(t, i.IsStatic())
	assert.False(t, i.IsZero())

	out, err := i.Resolve(context.Background(), "executor", "sum 2 and 2")
	require.NoError(t, err)
	assert.Equal(t, "executor works on: sum 2 and 2", out)
}

func TestInstruction_Func(t *testing.T) {
	i := NewInstructionFromFunc(func(_ context.Context, task string) (string, error) {
		return "dynamic for " + task, nil
	})
	assert.False(t, i.IsStatic())

	out, err := i.Resolve(context.Background(), "executor", "x")
	require.NoError(t, err)
	assert.Equal(t, "dynamic for x", out)
}

func TestInstruction_FuncError(t *testing.T) {
	cause := errors.New("lookup failed")
	i := NewInstructionFromFunc(func(context.Context, string) (string, error) { return "", cause })

	_, err := i.Resolve(context.Background(), "executor", "x")
	assert.ErrorIs(t, err, cause)
}

func TestInstruction_Zero(t *testing.T) {
	assert.True(t, Instruction{}.IsZero())
}
