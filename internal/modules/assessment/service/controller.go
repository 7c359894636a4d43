package service

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"rehab/internal/modules/assessment/domain"
	assessmentout "rehab/internal/modules/assessment/port/out"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/logging"
)

type Phase int

const (
	Editing Phase = iota
	Submitting
	Scored
)

func (p Phase) String() string {
	switch p {
	case Submitting:
		return "submitting"
	case Scored:
		return "scored"
	default:
		return "editing"
	}
}

type Deps struct {
	Scorer   assessmentout.Scorer
	Recorder assessmentout.Recorder
	Session  assessmentout.SessionView
	Language assessmentout.LanguageSource
	Board    assessmentout.Board
	Logger   hclog.Logger
}

// State is a copy of the controller's fields at one instant.
type State struct {
	Type      domain.Type
	Phase     Phase
	Inputs    domain.Inputs
	Issues    map[string]domain.Issue
	Result    domain.Result
	LastError error
}

func (s State) CanSubmit() bool {
	return s.Phase == Editing && len(s.Issues) == 0
}

// Controller runs one assessment form through editing, submitting and
// scored. A new assessment starts with Reset.
type Controller struct {
	mu         sync.Mutex
	schema     domain.Schema
	inputs     domain.Inputs
	phase      Phase
	result     domain.Result
	lastErr    error
	generation uint64

	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewController(t domain.Type, deps Deps) (*Controller, error) {
	schema, err := domain.SchemaFor(t)
	if err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		schema: schema,
		inputs: domain.Inputs{},
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (c *Controller) Schema() domain.Schema { return c.schema }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Type:      c.schema.Type,
		Phase:     c.phase,
		Inputs:    c.inputs.Clone(),
		Issues:    c.schema.Validate(c.inputs),
		Result:    c.result,
		LastError: c.lastErr,
	}
}

// Set stores the raw value of one field. Values are validated lazily so the
// form can hold partial input.
func (c *Controller) Set(field, value string) error {
	if _, ok := c.schema.Field(field); !ok {
		return fmt.Errorf("%w: unknown field %q for %s", apperrors.ErrInvalidInput, field, c.schema.Type)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Editing {
		return fmt.Errorf("%w: form is not editable while %s", apperrors.ErrInvalidInput, c.phase)
	}
	c.inputs[field] = value
	return nil
}

func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == Editing && len(c.schema.Validate(c.inputs)) == 0
}

func (c *Controller) DismissError() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

// Submit sends exactly one scoring request. Validation failures never reach
// the backend. A failed request returns the form to editing with the inputs
// intact.
func (c *Controller) Submit(ctx context.Context) (domain.Result, error) {
	c.mu.Lock()
	if c.phase != Editing {
		phase := c.phase
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot submit while %s", apperrors.ErrInvalidInput, phase)
	}
	values, err := c.schema.Parse(c.inputs)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.phase = Submitting
	c.result = nil
	c.lastErr = nil
	gen := c.generation
	c.mu.Unlock()

	lang := ""
	if c.deps.Language != nil {
		lang = c.deps.Language.Language()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	result, err := c.deps.Scorer.Score(reqCtx, c.schema, c.schema.Payload(values, lang))

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.deps.Logger.Debug("discarding result of abandoned submission", "type", c.schema.Type)
		return nil, context.Canceled
	}
	if err != nil {
		c.phase = Editing
		c.lastErr = err
		c.mu.Unlock()
		c.deps.Logger.Warn("scoring failed", "type", c.schema.Type, "error", err)
		return nil, err
	}
	c.phase = Scored
	c.result = result
	c.mu.Unlock()

	if c.deps.Board != nil {
		c.deps.Board.Publish(domain.Snapshot{Type: c.schema.Type, Inputs: values, Results: result.Fields()})
	}
	if c.deps.Session != nil && c.deps.Session.IsAuthenticated() && c.deps.Recorder != nil {
		c.wg.Add(1)
		go c.persist(domain.RecordData(values, result))
	}
	return result, nil
}

// persist is best effort: its outcome is logged and never touches the
// scored state.
func (c *Controller) persist(data map[string]any) {
	defer c.wg.Done()
	if err := c.deps.Recorder.Record(c.ctx, c.schema.Type, data); err != nil {
		c.deps.Logger.Warn("saving assessment to history failed", "type", c.schema.Type, "error", err)
		return
	}
	c.deps.Logger.Debug("assessment saved to history", "type", c.schema.Type)
}

// Reset starts a new assessment. A submission still in flight is abandoned.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.phase = Editing
	c.inputs = domain.Inputs{}
	c.result = nil
	c.lastErr = nil
}

// Wait blocks until a pending history save has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight requests and waits for background work.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}
