package models

import "time"

// ChatRequest is the inbound conversational payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the composed answer for one conversational turn.
type ChatResponse struct {
	TurnID    string           `json:"turn_id"`
	Answer    string           `json:"answer"`
	ToolCalls []ToolInvocation `json:"tool_calls,omitempty"`
	Charts    []string         `json:"charts,omitempty"` // rendered chart artifact names
}

// ToolInvocation records one agent step on the per-turn scratchpad.
// Never persisted past the turn.
type ToolInvocation struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    string         `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Elapsed   time.Duration  `json:"elapsed"`
}
