package model

import (
	"context"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/telemetry"
	"github.com/hupe1980/agentloop/logging"
)

type instrumented struct {
	next   Model
	logger logging.Logger
}

// Instrument wraps m so every call is traced and logged with its duration
// and outcome. A nil logger disables logging but keeps tracing.
func Instrument(m Model, logger logging.Logger) Model {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if _, ok := m.(*instrumented); ok {
		return m
	}
	return &instrumented{next: m, logger: logger}
}

func (i *instrumented) Info() Info { return i.next.Info() }

func (i *instrumented) Call(ctx context.Context, prompt string) (string, error) {
	info := i.next.Info()
	ctx, span := telemetry.StartModelCall(ctx, info.Provider, info.Name)

	start := time.Now()
	resp, err := i.next.Call(ctx, prompt)
	dur := time.Since(start)

	telemetry.End(span, err)

	if ml, ok := logging.ForRun(i.logger, core.RunIDFromContext(ctx)).(logging.ModelCallLogger); ok {
		ml.LogModelCall(info.Name, dur, err == nil, err)
		return resp, err
	}

	if err != nil {
		i.logger.Error("model.call.error",
			"provider", info.Provider, "model", info.Name,
			"duration_ms", dur.Milliseconds(), "error", err.Error())
		return "", err
	}

	i.logger.Debug("model.call.success",
		"provider", info.Provider, "model", info.Name,
		"duration_ms", dur.Milliseconds(), "prompt_chars", len(prompt), "response_chars", len(resp))

	return resp, nil
}
