package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/plan"
	"github.com/kbukum/seqkit/resilience"
	"github.com/kbukum/seqkit/sse"
	"github.com/kbukum/seqkit/validation"
)

// inlinePlanName names plans sent without a name.
const inlinePlanName = "inline"

// EvaluateRequest is the body of POST /v1/evaluate. Exactly one of Plan and
// PlanName must be set.
type EvaluateRequest struct {
	Items    []any      `json:"items"`
	Plan     *plan.Plan `json:"plan,omitempty"`
	PlanName string     `json:"plan_name,omitempty"`
}

// EvaluateResponse is the body of a successful evaluation.
type EvaluateResponse struct {
	Plan   string `json:"plan"`
	Result any    `json:"result"`
}

// OperationsResponse lists the registered plan operations.
type OperationsResponse struct {
	Stages    []string `json:"stages"`
	Terminals []string `json:"terminals"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, bindError(err))
		return
	}

	v := validation.New()
	v.Custom(req.Items != nil, "items", "is required")
	v.Custom((req.Plan == nil) != (req.PlanName == ""), "plan", "exactly one of plan and plan_name is required")
	if err := v.Err(); err != nil {
		RespondWithError(c, err)
		return
	}

	p, err := s.resolvePlan(&req)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := resilience.ExecuteWithResult(ctx, s.bulkhead, func(ctx context.Context) (any, error) {
		return plan.Evaluate(ctx, p, req.Items, s.planOptions(ctx)...)
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, EvaluateResponse{Plan: p.Name, Result: result})
}

// handleEvaluateStream compiles the plan and streams its items as server-sent
// events. The plan must not reduce to a single value, so only a missing or
// toArray terminal is accepted.
func (s *Server) handleEvaluateStream(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, bindError(err))
		return
	}

	v := validation.New()
	v.Custom(req.Items != nil, "items", "is required")
	v.Custom((req.Plan == nil) != (req.PlanName == ""), "plan", "exactly one of plan and plan_name is required")
	if err := v.Err(); err != nil {
		RespondWithError(c, err)
		return
	}

	p, err := s.resolvePlan(&req)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if p.Terminal != nil && p.Terminal.Op != plan.TermToArray {
		RespondWithError(c, errors.InvalidInput("terminal", "streamed plans cannot reduce to a single value"))
		return
	}

	ctx := c.Request.Context()
	release, err := s.bulkhead.Acquire(ctx)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	defer release()

	seq, err := plan.CompileItems(ctx, p, req.Items, s.planOptions(ctx)...)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	w, err := sse.NewWriter(c.Writer)
	if err != nil {
		RespondWithError(c, errors.Internal(err))
		return
	}
	count, err := sse.Stream(ctx, w, seq)
	if err != nil {
		_ = c.Error(err)
		s.log.WithContext(ctx).Warn("stream ended with error", map[string]any{
			"plan":  p.Name,
			"items": count,
			"error": err.Error(),
		})
	}
}

func (s *Server) handleOperations(c *gin.Context) {
	RespondOK(c, OperationsResponse{
		Stages:    s.registry.StageNames(),
		Terminals: s.registry.TerminalNames(),
	})
}

func (s *Server) resolvePlan(req *EvaluateRequest) (*plan.Plan, error) {
	if req.Plan != nil {
		if req.Plan.Name == "" {
			req.Plan.Name = inlinePlanName
		}
		return req.Plan, nil
	}
	if s.plans == nil {
		return nil, errors.NotFound("plan", req.PlanName).
			WithDetail("reason", "no plan directories are configured")
	}
	return s.plans.Load(req.PlanName)
}

func (s *Server) planOptions(ctx context.Context) []plan.Option {
	return []plan.Option{
		plan.WithRegistry(s.registry),
		plan.WithObservability(observability.Options{
			Logger:  s.log.WithContext(ctx),
			Metrics: s.metrics,
			Tracer:  s.tracer,
		}),
	}
}

// bindError maps a JSON binding failure to an AppError.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.New(errors.ErrCodeRequestTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
	}
	return errors.InvalidInput("body", err.Error())
}
