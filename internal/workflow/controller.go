package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/internal/repository/contract"
	"ideaspark-be/internal/service"
	"ideaspark-be/pkg/ai/pipeline"
	"ideaspark-be/pkg/export"
)

const module = "Workflow"

var ErrEmptyIdea = errors.New("idea text is empty")

// IdeaAI is the AI pipeline as seen by the controller.
type IdeaAI interface {
	Analyze(ctx context.Context, idea *entity.ProductIdea) (*pipeline.AnalysisResult, error)
	Improve(ctx context.Context, idea *entity.ProductIdea, analysis *entity.SimilarityAnalysis) ([]entity.ImprovementSuggestion, error)
	GenerateSpecification(ctx context.Context, idea *entity.ProductIdea) (string, error)
}

// StorageStatus reports the process-wide storage capability.
type StorageStatus interface {
	Capability() contract.Backend
	Banner() string
}

type Snapshot struct {
	Key         string
	View        View
	SelectedId  string
	Session     *entity.Session
	Error       string
	ErrorIdeaId string
	Banner      string
	Backend     contract.Backend
	Capability  contract.Backend
	IdeaCount   int
	InFlight    map[string]string
}

type Controller struct {
	ideas  service.IIdeaService
	ai     IdeaAI
	status StorageStatus
	logger logger.ILogger
}

func NewController(ideas service.IIdeaService, ai IdeaAI, status StorageStatus, logger logger.ILogger) *Controller {
	return &Controller{
		ideas:  ideas,
		ai:     ai,
		status: status,
		logger: logger,
	}
}

func (c *Controller) Snapshot(ws *Workspace) Snapshot {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	inFlight := make(map[string]string, len(ws.inFlight))
	for id, op := range ws.inFlight {
		inFlight[id] = op
	}
	return Snapshot{
		Key:         ws.key,
		View:        ws.view,
		SelectedId:  ws.selectedId,
		Session:     ws.session,
		Error:       ws.inlineError,
		ErrorIdeaId: ws.errorIdeaId,
		Banner:      c.status.Banner(),
		Backend:     c.ideas.Backend(ws.session),
		Capability:  c.status.Capability(),
		IdeaCount:   len(ws.ideas),
		InFlight:    inFlight,
	}
}

// Bind refreshes the session of a workspace from an authenticated request
// without changing the view.
func (c *Controller) Bind(ws *Workspace, session *entity.Session) {
	if session == nil {
		return
	}
	ws.mu.Lock()
	ws.session = session
	ws.mu.Unlock()
}

// needsLogin reports whether private views are closed. Callers hold ws.mu.
func (c *Controller) needsLogin(ws *Workspace) bool {
	return ws.session == nil && c.status.Capability() == contract.BackendRemote
}

// requireAccess sends the workspace to the login view when a private view
// would be entered without a session.
func (c *Controller) requireAccess(ws *Workspace) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if c.needsLogin(ws) {
		ws.view = ViewLogin
		return contract.ErrAuthRequired
	}
	return nil
}

// Start is the landing call to action.
func (c *Controller) Start(ctx context.Context, ws *Workspace) (View, error) {
	ws.mu.Lock()
	if c.needsLogin(ws) {
		ws.view = ViewLogin
		ws.mu.Unlock()
		return ViewLogin, nil
	}
	ws.mu.Unlock()

	c.ensureLoaded(ctx, ws)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if len(ws.ideas) > 0 {
		ws.view = ViewDashboard
	} else {
		ws.view = ViewCreate
	}
	return ws.view, nil
}

func (c *Controller) Navigate(ctx context.Context, ws *Workspace, view View) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidView, view)
	}
	if view.Private() {
		if err := c.requireAccess(ws); err != nil {
			return err
		}
		c.ensureLoaded(ctx, ws)
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if view == ViewIdea && ws.find(ws.selectedId) < 0 {
		return fmt.Errorf("no idea selected: %w", contract.ErrNotFound)
	}
	ws.view = view
	return nil
}

func (c *Controller) SignIn(ctx context.Context, ws *Workspace, session *entity.Session) error {
	if session == nil || session.UserId == "" {
		return contract.ErrAuthRequired
	}

	ws.mu.Lock()
	ws.session = session
	ws.loaded = false
	if ws.view == ViewLanding || ws.view == ViewLogin {
		ws.view = ViewDashboard
	}
	ws.mu.Unlock()

	c.Reload(ctx, ws)

	c.logger.Info(module, "Session attached", map[string]interface{}{
		"workspace": ws.key,
		"user_id":   session.UserId,
	})
	return nil
}

// SignOut drops the session and the collection and returns to the landing view.
func (c *Controller) SignOut(ws *Workspace) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.session = nil
	ws.ideas = []*entity.ProductIdea{}
	ws.loaded = false
	ws.selectedId = ""
	ws.inlineError = ""
	ws.errorIdeaId = ""
	ws.view = ViewLanding
}

func (c *Controller) DismissError(ws *Workspace) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.inlineError = ""
	ws.errorIdeaId = ""
}

// Reload replaces the in-memory collection with the backend's view of it.
// A failing backend yields an empty collection.
func (c *Controller) Reload(ctx context.Context, ws *Workspace) []*entity.ProductIdea {
	ws.mu.Lock()
	session := ws.session
	ws.mu.Unlock()

	ideas := c.ideas.List(ctx, session)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.ideas = ideas
	ws.loaded = true
	if ws.selectedId != "" && ws.find(ws.selectedId) < 0 {
		ws.selectedId = ""
		if ws.view == ViewIdea {
			ws.view = ViewDashboard
		}
	}
	return cloneAll(ideas)
}

// List is the dashboard: it reloads the collection from storage.
func (c *Controller) List(ctx context.Context, ws *Workspace) ([]*entity.ProductIdea, error) {
	if err := c.requireAccess(ws); err != nil {
		return nil, err
	}
	return c.Reload(ctx, ws), nil
}

func (c *Controller) ensureLoaded(ctx context.Context, ws *Workspace) {
	ws.mu.Lock()
	loaded := ws.loaded
	ws.mu.Unlock()
	if !loaded {
		c.Reload(ctx, ws)
	}
}

func (c *Controller) Create(ctx context.Context, ws *Workspace, rawIdea string, features []string) (*entity.ProductIdea, error) {
	if strings.TrimSpace(rawIdea) == "" {
		return nil, ErrEmptyIdea
	}
	if err := c.requireAccess(ws); err != nil {
		return nil, err
	}
	c.ensureLoaded(ctx, ws)

	ws.mu.Lock()
	session := ws.session
	ws.mu.Unlock()

	idea, err := c.ideas.Create(ctx, session, rawIdea, features)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.ideas = append([]*entity.ProductIdea{idea}, ws.ideas...)
	ws.view = ViewDashboard
	return idea.Clone(), nil
}

func (c *Controller) Open(ctx context.Context, ws *Workspace, id string) (*entity.ProductIdea, error) {
	if err := c.requireAccess(ws); err != nil {
		return nil, err
	}
	c.ensureLoaded(ctx, ws)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	i := ws.find(id)
	if i < 0 {
		return nil, fmt.Errorf("idea %s: %w", id, contract.ErrNotFound)
	}
	if ws.errorIdeaId != id {
		ws.inlineError = ""
		ws.errorIdeaId = ""
	}
	ws.selectedId = id
	ws.view = ViewIdea
	return ws.ideas[i].Clone(), nil
}

// Delete removes an idea once confirm agrees. Without confirmation the
// backend is never called.
func (c *Controller) Delete(ctx context.Context, ws *Workspace, id string, confirm ConfirmationProvider) error {
	if err := c.requireAccess(ws); err != nil {
		return err
	}
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		return ErrConfirmationRequired
	}

	ws.mu.Lock()
	session := ws.session
	ws.mu.Unlock()

	if err := c.ideas.Delete(ctx, session, id); err != nil {
		return err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if i := ws.find(id); i >= 0 {
		ws.ideas = append(ws.ideas[:i:i], ws.ideas[i+1:]...)
	}
	if ws.selectedId == id {
		ws.selectedId = ""
		if ws.view == ViewIdea {
			ws.view = ViewDashboard
		}
	}
	if ws.errorIdeaId == id {
		ws.inlineError = ""
		ws.errorIdeaId = ""
	}
	return nil
}

func (c *Controller) Analyze(ctx context.Context, ws *Workspace, id string) (*entity.ProductIdea, error) {
	idea, err := c.begin(ctx, ws, id, "analyze", nil)
	if err != nil {
		return nil, err
	}
	defer c.end(ws, id)

	result, err := c.ai.Analyze(ctx, idea)
	if err != nil {
		return nil, c.aiFailed(ws, id, "analyze", MessageAnalysisFailed, err)
	}

	return c.commit(ctx, ws, id, func(latest *entity.ProductIdea) error {
		latest.Title = result.Title
		latest.Problem = result.Problem
		latest.Solution = result.Solution
		latest.Analysis = result.Analysis
		latest.Status = latest.Status.Advance(entity.StatusAnalyzed)
		return nil
	})
}

func (c *Controller) Improve(ctx context.Context, ws *Workspace, id string) (*entity.ProductIdea, error) {
	idea, err := c.begin(ctx, ws, id, "improve", func(i *entity.ProductIdea) error {
		if i.Analysis == nil {
			return fmt.Errorf("improve needs an analysis: %w", pipeline.ErrPrerequisite)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	defer c.end(ws, id)

	suggestions, err := c.ai.Improve(ctx, idea, idea.Analysis)
	if err != nil {
		return nil, c.aiFailed(ws, id, "improve", MessageImprovementsFailed, err)
	}

	return c.commit(ctx, ws, id, func(latest *entity.ProductIdea) error {
		latest.Improvements = suggestions
		latest.Status = latest.Status.Advance(entity.StatusImproved)
		return nil
	})
}

func (c *Controller) GenerateSpecification(ctx context.Context, ws *Workspace, id string) (*entity.ProductIdea, error) {
	idea, err := c.begin(ctx, ws, id, "specification", func(i *entity.ProductIdea) error {
		if i.Improvements == nil && !i.Status.AtLeast(entity.StatusImproved) {
			return fmt.Errorf("specification needs improvements: %w", pipeline.ErrPrerequisite)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	defer c.end(ws, id)

	srs, err := c.ai.GenerateSpecification(ctx, idea)
	if err != nil {
		return nil, c.aiFailed(ws, id, "specification", MessageSpecificationFailed, err)
	}

	return c.commit(ctx, ws, id, func(latest *entity.ProductIdea) error {
		latest.Srs = &srs
		latest.Status = latest.Status.Advance(entity.StatusSrsReady)
		return nil
	})
}

func (c *Controller) ToggleImprovement(ctx context.Context, ws *Workspace, id, title string) (*entity.ProductIdea, error) {
	if err := c.requireAccess(ws); err != nil {
		return nil, err
	}
	c.ensureLoaded(ctx, ws)

	return c.commit(ctx, ws, id, func(latest *entity.ProductIdea) error {
		if !latest.HasImprovementTitle(title) && !latest.IsAccepted(title) {
			return fmt.Errorf("%w: %q", ErrUnknownImprovement, title)
		}
		latest.ToggleImprovement(title)
		return nil
	})
}

// EditSpecification replaces a generated SRS with the user's edited text.
func (c *Controller) EditSpecification(ctx context.Context, ws *Workspace, id, srs string) (*entity.ProductIdea, error) {
	if err := c.requireAccess(ws); err != nil {
		return nil, err
	}
	c.ensureLoaded(ctx, ws)

	return c.commit(ctx, ws, id, func(latest *entity.ProductIdea) error {
		if latest.Srs == nil {
			return fmt.Errorf("no specification to edit: %w", pipeline.ErrPrerequisite)
		}
		latest.Srs = &srs
		return nil
	})
}

func (c *Controller) Export(ctx context.Context, ws *Workspace, id string, format export.Format) (*export.File, error) {
	if err := c.requireAccess(ws); err != nil {
		return nil, err
	}
	c.ensureLoaded(ctx, ws)

	ws.mu.Lock()
	i := ws.find(id)
	if i < 0 {
		ws.mu.Unlock()
		return nil, fmt.Errorf("idea %s: %w", id, contract.ErrNotFound)
	}
	idea := ws.ideas[i].Clone()
	ws.mu.Unlock()

	if idea.Srs == nil {
		return nil, fmt.Errorf("no specification to export: %w", pipeline.ErrPrerequisite)
	}
	return export.Render(idea.DisplayTitle(), *idea.Srs, format)
}

// begin checks access and the prerequisite, marks the idea busy and
// returns a private copy for the AI call.
func (c *Controller) begin(ctx context.Context, ws *Workspace, id, op string, check func(*entity.ProductIdea) error) (*entity.ProductIdea, error) {
	if err := c.requireAccess(ws); err != nil {
		return nil, err
	}
	c.ensureLoaded(ctx, ws)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	i := ws.find(id)
	if i < 0 {
		return nil, fmt.Errorf("idea %s: %w", id, contract.ErrNotFound)
	}
	if running, busy := ws.inFlight[id]; busy {
		return nil, fmt.Errorf("%s already running: %w", running, pipeline.ErrOperationInProgress)
	}
	idea := ws.ideas[i].Clone()
	if check != nil {
		if err := check(idea); err != nil {
			return nil, err
		}
	}
	ws.inFlight[id] = op
	if ws.errorIdeaId == id {
		ws.inlineError = ""
		ws.errorIdeaId = ""
	}
	return idea, nil
}

func (c *Controller) end(ws *Workspace, id string) {
	ws.mu.Lock()
	delete(ws.inFlight, id)
	ws.mu.Unlock()
}

// aiFailed records the inline error for the idea. Status is left untouched.
func (c *Controller) aiFailed(ws *Workspace, id, op, message string, err error) error {
	c.logger.Error(module, "AI operation failed", map[string]interface{}{
		"workspace": ws.key,
		"idea_id":   id,
		"operation": op,
		"error":     err,
	})
	if errors.Is(err, pipeline.ErrOperationInProgress) || errors.Is(err, context.Canceled) {
		return err
	}

	ws.mu.Lock()
	ws.inlineError = message
	ws.errorIdeaId = id
	ws.mu.Unlock()
	return err
}

// commit applies mutate to a copy of the latest in-memory idea, persists it
// and only then swaps it into the collection.
func (c *Controller) commit(ctx context.Context, ws *Workspace, id string, mutate func(*entity.ProductIdea) error) (*entity.ProductIdea, error) {
	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()

	ws.mu.Lock()
	i := ws.find(id)
	if i < 0 {
		ws.mu.Unlock()
		return nil, fmt.Errorf("idea %s: %w", id, contract.ErrNotFound)
	}
	next := ws.ideas[i].Clone()
	session := ws.session
	ws.mu.Unlock()

	if err := mutate(next); err != nil {
		return nil, err
	}
	if err := c.ideas.Update(ctx, session, next); err != nil {
		return nil, err
	}

	ws.mu.Lock()
	if i := ws.find(id); i >= 0 {
		ws.ideas[i] = next
	}
	ws.mu.Unlock()
	return next.Clone(), nil
}

func cloneAll(ideas []*entity.ProductIdea) []*entity.ProductIdea {
	out := make([]*entity.ProductIdea, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, idea.Clone())
	}
	return out
}
