package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/core"
)

func TestDecodeAction(t *testing.T) {
	d, err := DecodeAction(`{"thought":"add first","action":{"tool":"Calculator","args":"3 + 5"}}`)
	require.NoError(t, err)
	assert.Equal(t, "add first", d.Thought)
	assert.Equal(t, core.Action{Tool: "Calculator", Args: "3 + 5"}, d.Action)
}

func TestDecodeActionFinishArgsVerbatim(t *testing.T) {
	d, err := DecodeAction(`{"thought":"done","action":{"tool":"Finish","args":"  32\nexactly  "}}`)
	require.NoError(t, err)
	assert.True(t, d.Action.IsFinish())
	assert.Equal(t, "  32\nexactly  ", d.Action.Args)
}

func TestDecodeActionStripsFence(t *testing.T) {
	raw := "\n```json\n{\"thought\":\"t\",\"action\":{\"tool\":\"Finish\",\"args\":\"ok\"}}\n```\n"
	d, err := DecodeAction(raw)
	require.NoError(t, err)
	assert.Equal(t, "ok", d.Action.Args)

	d, err = DecodeAction("```{\"thought\":\"\",\"action\":{\"tool\":\"Finish\",\"args\":\"\"}}```")
	require.NoError(t, err)
	assert.Equal(t, "Finish", d.Action.Tool)
}

func TestDecodeActionFailures(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  core.ParseErrorKind
		field string
	}{
		{"empty", "   ", core.ParseEmpty, ""},
		{"not json", "I think I should add 3 and 5", core.ParseMalformed, ""},
		{"truncated", `{"thought":"x","action":{"tool":"Calculator"`, core.ParseMalformed, ""},
		{"array", `[1,2]`, core.ParseMalformed, ""},
		{"prose around json", `Sure! {"thought":"x","action":{"tool":"Finish","args":"1"}}`, core.ParseMalformed, ""},
		{"missing thought", `{"action":{"tool":"Finish","args":"1"}}`, core.ParseMissingField, "thought"},
		{"missing action", `{"thought":"x"}`, core.ParseMissingField, "action"},
		{"action not object", `{"thought":"x","action":"Finish"}`, core.ParseWrongType, "action"},
		{"missing tool", `{"thought":"x","action":{"args":"1"}}`, core.ParseMissingField, "action.tool"},
		{"empty tool", `{"thought":"x","action":{"tool":"","args":"1"}}`, core.ParseMissingField, "action.tool"},
		{"missing args", `{"thought":"x","action":{"tool":"Finish"}}`, core.ParseMissingField, "action.args"},
		{"numeric args", `{"thought":"x","action":{"tool":"Finish","args":32}}`, core.ParseWrongType, "action.args"},
		{"thought not string", `{"thought":["x"],"action":{"tool":"Finish","args":"1"}}`, core.ParseWrongType, "thought"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAction(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrParse)

			var pe *core.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "action", pe.Schema)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.field, pe.Field)
			assert.Equal(t, tt.raw, pe.Raw)
		})
	}
}

func TestDecodeRouting(t *testing.T) {
	r, err := DecodeRouting(`{"worker":"W1","task":"X"}`)
	require.NoError(t, err)
	assert.Equal(t, core.RoutingDecision{Worker: "W1", Task: "X"}, r)

	_, err = DecodeRouting(`{"task":"X"}`)
	var pe *core.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, core.ParseMissingField, pe.Kind)
	assert.Equal(t, "worker", pe.Field)

	_, err = DecodeRouting(`{"worker":"W1","task":null}`)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, core.ParseWrongType, pe.Kind)
	assert.Equal(t, "task", pe.Field)

	_, err = DecodeRouting(`worker: W1`)
	assert.ErrorIs(t, err, core.ErrParse)
}

func TestDecodePlan(t *testing.T) {
	plan, err := DecodePlan("1. step A\n2. step B")
	require.NoError(t, err)
	assert.Equal(t, core.Plan{"step A", "step B"}, plan)

	plan, err = DecodePlan("\n  - gather data  \n\n* analyze\r\n3) write report\nfree-form line\n")
	require.NoError(t, err)
	assert.Equal(t, core.Plan{"gather data", "analyze", "write report", "free-form line"}, plan)

	plan, err = DecodePlan("10.5 liters of water")
	require.NoError(t, err)
	assert.Equal(t, core.Plan{"10.5 liters of water"}, plan)
}

func TestDecodePlanEmpty(t *testing.T) {
	for _, raw := range []string{"", "  \n\n ", "1.\n2."} {
		_, err := DecodePlan(raw)
		var pe *core.ParseError
		require.ErrorAs(t, err, &pe, raw)
		assert.Equal(t, core.ParseEmpty, pe.Kind)
		assert.Equal(t, "plan", pe.Schema)
	}
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFence("  {\"a\":1}  "))
	assert.Equal(t, "```json\n{\"a\":1}", StripFence("```json\n{\"a\":1}"))
}
