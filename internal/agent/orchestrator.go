// Package agent orchestrates conversational turns: it hands the user's text
// and the declared tool catalog to the language model, executes the tool
// calls the model selects, feeds results (and failures) back, and returns the
// model's final composed answer.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
	"github.com/bobmcallan/rfin/internal/tools"
)

// State is the orchestrator's position within one conversational turn.
type State int

const (
	StateIdle State = iota
	StatePlanning
	StateExecuting
	StateComposing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlanning:
		return "planning"
	case StateExecuting:
		return "executing"
	case StateComposing:
		return "composing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// DefaultMaxToolIterations bounds the planning/executing loop when the
// configuration does not.
const DefaultMaxToolIterations = 8

// Orchestrator runs single conversational turns. It holds no per-turn state;
// the scratchpad lives on the stack of each Chat call, so one instance is
// safe for concurrent turns.
type Orchestrator struct {
	model         interfaces.ChatModel
	registry      *tools.Registry
	logger        *common.Logger
	maxIterations int
	now           func() time.Time // injectable clock for testing
}

// NewOrchestrator creates an orchestrator over the model and tool catalog.
func NewOrchestrator(model interfaces.ChatModel, registry *tools.Registry, logger *common.Logger, maxIterations int) *Orchestrator {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxToolIterations
	}
	return &Orchestrator{
		model:         model,
		registry:      registry,
		logger:        logger,
		maxIterations: maxIterations,
		now:           time.Now,
	}
}

// Chat processes one conversational turn synchronously. Tool failures are fed
// back to the model as function responses so it can re-plan; only model
// failures and the iteration cap abort the turn. When the cap is hit the
// partial scratchpad is still returned alongside models.ErrToolIterationLimit.
func (o *Orchestrator) Chat(ctx context.Context, message string) (*models.ChatResponse, error) {
	turnID := uuid.NewString()
	logger := &common.Logger{Logger: o.logger.With().Str("turn_id", turnID).Logger()}
	instruction := o.systemInstruction()
	declarations := o.registry.Declarations()

	history := []*genai.Content{genai.NewContentFromText(message, genai.RoleUser)}
	var scratchpad []models.ToolInvocation
	var charts []string
	state := StatePlanning

	for iteration := 0; ; iteration++ {
		if iteration >= o.maxIterations {
			state = StateFailed
			logger.Warn().Int("iterations", iteration).Str("state", state.String()).Msg("Tool iteration limit reached")
			return &models.ChatResponse{
				TurnID:    turnID,
				Answer:    "I could not finish answering within the allowed number of tool calls. Please try a narrower question.",
				ToolCalls: scratchpad,
				Charts:    charts,
			}, fmt.Errorf("turn %s: %w", turnID, models.ErrToolIterationLimit)
		}

		result, err := o.model.GenerateTurn(ctx, instruction, history, declarations)
		if err != nil {
			logger.Error().Err(err).Msg("Model turn failed")
			return nil, err
		}
		content := result.Candidates[0].Content
		history = append(history, content)

		calls := functionCalls(content)
		if len(calls) == 0 {
			state = StateDone
			answer := textParts(content)
			logger.Info().
				Int("tool_calls", len(scratchpad)).
				Int("charts", len(charts)).
				Str("state", state.String()).
				Msg("Turn completed")
			return &models.ChatResponse{
				TurnID:    turnID,
				Answer:    answer,
				ToolCalls: scratchpad,
				Charts:    charts,
			}, nil
		}

		state = StateExecuting
		responses := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			invocation, payload := o.execute(ctx, logger, call)
			scratchpad = append(scratchpad, invocation)
			if invocation.Error == "" {
				charts = append(charts, payload.charts...)
			}
			responses = append(responses, genai.NewPartFromFunctionResponse(call.Name, payload.response))
		}
		history = append(history, genai.NewContentFromParts(responses, genai.RoleUser))
		state = StatePlanning
	}
}

// executedPayload carries the function-response body plus any chart artifacts
// the invocation produced.
type executedPayload struct {
	response map[string]any
	charts   []string
}

// execute runs one tool call and shapes both the scratchpad record and the
// function response. Validation, arithmetic, and upstream errors become
// response payloads, not turn failures.
func (o *Orchestrator) execute(ctx context.Context, logger *common.Logger, call *genai.FunctionCall) (models.ToolInvocation, executedPayload) {
	invocation := models.ToolInvocation{
		ID:        uuid.NewString(),
		Tool:      call.Name,
		Arguments: call.Args,
		StartedAt: o.now(),
	}

	tool, ok := o.registry.Lookup(call.Name)
	if !ok {
		invocation.Error = fmt.Sprintf("unknown tool: %s", call.Name)
		invocation.Elapsed = o.now().Sub(invocation.StartedAt)
		logger.Warn().Str("tool", call.Name).Msg("Unknown tool requested")
		return invocation, executedPayload{response: map[string]any{"error": invocation.Error}}
	}

	result, err := tool.Handler(ctx, call.Args)
	invocation.Elapsed = o.now().Sub(invocation.StartedAt)

	if err != nil {
		invocation.Error = err.Error()
		logger.Warn().Err(err).Str("tool", call.Name).Msg("Tool invocation failed")
		return invocation, executedPayload{response: map[string]any{"error": err.Error()}}
	}

	invocation.Result = result.Text
	logger.Debug().
		Str("tool", call.Name).
		Dur("elapsed", invocation.Elapsed).
		Int("charts", len(result.Charts)).
		Msg("Tool invocation succeeded")
	return invocation, executedPayload{response: result.Payload(), charts: result.Charts}
}

// systemInstruction frames the model's role, scope, and formatting rules for
// one turn.
func (o *Orchestrator) systemInstruction() string {
	return fmt.Sprintf(`You are a financial assistant for the Indonesia Stock Exchange (IDX). Answer only questions about IDX market data using the provided tools; politely decline anything outside that scope.

Today's date is %s.

Rules:
- Answer in the same language the user writes in.
- Present tabular data as a table with rows numbered from 1.
- Round monetary values to two decimal places and state the unit (Rp, Rp Trillion, shares, %%).
- When a tool accepts an optional subsector and the user names none, omit the subsector argument entirely.
- When a tool reports skipped dates, tell the user which dates were skipped because they fall on a weekend or holiday.
- When a tool fails, correct the arguments using the error message and retry, or explain in plain language what went wrong.`,
		o.now().Format(models.DateLayout))
}

// functionCalls extracts the function-call parts of a model response.
func functionCalls(content *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

// textParts concatenates the text parts of a model response.
func textParts(content *genai.Content) string {
	var sb strings.Builder
	for _, part := range content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
