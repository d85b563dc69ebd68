// Package tools implements the fixed catalog of typed operations the agent
// can invoke: lookup, ranking, time-series, persisted-store, and arithmetic
// tools. The registry is closed and statically declared; the orchestrator
// selects a tool by name, never by reflection.
package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/dates"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/vocab"
)

// Definition describes one tool to the language model: name, natural-language
// description, and strict argument schema.
type Definition struct {
	Name        string
	Description string
	Parameters  *genai.Schema
}

// Result is what a successful invocation hands back to the orchestrator.
// Charts are artifact names already delivered to the sink; SkippedDates
// carries the weekend/holiday adjustments the agent must surface.
type Result struct {
	Text         string
	Charts       []string
	SkippedDates []dates.SkippedDate
}

// Payload shapes the result as a function-response body for the model.
func (r *Result) Payload() map[string]any {
	p := map[string]any{"result": r.Text}
	if len(r.SkippedDates) > 0 {
		msgs := make([]string, len(r.SkippedDates))
		for i, s := range r.SkippedDates {
			msgs[i] = s.Message
		}
		p["skipped_dates"] = msgs
	}
	return p
}

// Handler executes one tool invocation against already-decoded arguments.
type Handler func(ctx context.Context, args map[string]any) (*Result, error)

// Tool pairs a declaration with its handler.
type Tool struct {
	Definition Definition
	Handler    Handler
}

// Registry is the closed tool catalog. Built once at startup, read-only after.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds the full catalog over the given collaborators.
func NewRegistry(
	sectors interfaces.SectorsClient,
	store interfaces.StoreDataClient,
	validator *vocab.Validator,
	resolver *dates.Resolver,
	charts *ChartRenderer,
	logger *common.Logger,
) *Registry {
	r := &Registry{tools: make(map[string]Tool)}

	ts := &toolset{
		sectors:   sectors,
		store:     store,
		validator: validator,
		resolver:  resolver,
		charts:    charts,
		logger:    logger,
		now:       time.Now,
	}

	ts.registerLookupTools(r)
	ts.registerRankingTools(r)
	ts.registerTimeSeriesTools(r)
	ts.registerStoreTools(r)
	registerArithmeticTools(r)

	logger.Info().Int("tools", len(r.order)).Msg("Tool registry built")
	return r
}

// toolset carries the shared collaborators tool handlers close over.
type toolset struct {
	sectors   interfaces.SectorsClient
	store     interfaces.StoreDataClient
	validator *vocab.Validator
	resolver  *dates.Resolver
	charts    *ChartRenderer
	logger    *common.Logger
	now       func() time.Time
}

func (r *Registry) register(def Definition, h Handler) {
	if _, exists := r.tools[def.Name]; exists {
		panic(fmt.Sprintf("duplicate tool registration: %s", def.Name))
	}
	r.tools[def.Name] = Tool{Definition: def, Handler: h}
	r.order = append(r.order, def.Name)
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Len returns the catalog size.
func (r *Registry) Len() int {
	return len(r.order)
}

// Declarations shapes the catalog as genai tool declarations, in
// registration order.
func (r *Registry) Declarations() []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		def := r.tools[name].Definition
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
