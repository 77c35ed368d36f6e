// Package policy previews control-plane policy rules client-side.
//
// Rules are CEL expressions authored against workflow attributes. The
// backend is the enforcement point; this engine only answers "which of the
// cached workflows would this rule match" for the Policies page.
package policy

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"github.com/planedeck/planedeck/pkg/api"
)

// Engine compiles and evaluates policy rule expressions.
type Engine struct {
	env      *cel.Env
	logger   *slog.Logger
	programs map[string]cel.Program
	broken   map[string]error
}

// NewEngine initializes the CEL environment with the workflow attributes
// rules may reference.
func NewEngine(logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("id", decls.String),
			decls.NewVar("name", decls.String),
			decls.NewVar("tenant", decls.String),
			decls.NewVar("status", decls.String),
			decls.NewVar("error", decls.String),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &Engine{
		env:      env,
		logger:   logger,
		programs: make(map[string]cel.Program),
		broken:   make(map[string]error),
	}, nil
}

// Compile compiles the rules of the given policies. A rule that does not
// compile is remembered as broken instead of failing the batch; the page
// renders the compile error inline.
func (e *Engine) Compile(policies []api.Policy) {
	for _, p := range policies {
		ast, issues := e.env.Compile(p.Rule)
		if issues != nil && issues.Err() != nil {
			e.broken[p.ID] = issues.Err()
			delete(e.programs, p.ID)
			continue
		}
		prg, err := e.env.Program(ast)
		if err != nil {
			e.broken[p.ID] = err
			delete(e.programs, p.ID)
			continue
		}
		delete(e.broken, p.ID)
		e.programs[p.ID] = prg
	}
}

// CompileErr returns the compile error for a policy, if any.
func (e *Engine) CompileErr(policyID string) error {
	return e.broken[policyID]
}

// Matches evaluates one compiled policy against a set of workflows and
// returns the IDs it matches. Evaluation errors on individual workflows
// are logged and skipped, never fatal.
func (e *Engine) Matches(policyID string, workflows []api.Workflow) []string {
	prg, ok := e.programs[policyID]
	if !ok {
		return nil
	}

	var matched []string
	for _, w := range workflows {
		out, _, err := prg.Eval(map[string]any{
			"id":     w.ID,
			"name":   w.Name,
			"tenant": w.TenantID,
			"status": w.Status,
			"error":  w.Error,
		})
		if err != nil {
			e.logger.Warn("rule evaluation failed", "policy_id", policyID, "workflow_id", w.ID, "error", err)
			continue
		}
		if hit, ok := out.Value().(bool); ok && hit {
			matched = append(matched, w.ID)
		}
	}
	return matched
}
