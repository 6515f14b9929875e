package workflow

import (
	"sync"

	"ideaspark-be/internal/entity"
)

type View string

const (
	ViewLanding   View = "landing"
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewCreate    View = "create"
	ViewIdea      View = "view_idea"
)

func (v View) Valid() bool {
	switch v {
	case ViewLanding, ViewLogin, ViewDashboard, ViewCreate, ViewIdea:
		return true
	}
	return false
}

// Private views need a session while remote storage is active.
func (v View) Private() bool {
	return v == ViewDashboard || v == ViewCreate || v == ViewIdea
}

// LocalWorkspaceKey names the single workspace used without a session.
const LocalWorkspaceKey = "local"

func WorkspaceKey(session *entity.Session) string {
	if session == nil || session.UserId == "" {
		return LocalWorkspaceKey
	}
	return "user:" + session.UserId
}

// Workspace is the state of one user's walk through the workflow. mu guards
// the fields and is never held across storage or AI calls; writeMu orders
// persisted mutations so a commit never overwrites a newer one.
type Workspace struct {
	key string

	mu          sync.Mutex
	view        View
	ideas       []*entity.ProductIdea
	loaded      bool
	selectedId  string
	session     *entity.Session
	inlineError string
	errorIdeaId string
	inFlight    map[string]string

	writeMu sync.Mutex
}

func NewWorkspace(key string) *Workspace {
	return &Workspace{
		key:      key,
		view:     ViewLanding,
		ideas:    []*entity.ProductIdea{},
		inFlight: map[string]string{},
	}
}

func (w *Workspace) Key() string {
	return w.key
}

// find returns the index of id in the collection. Callers hold mu.
func (w *Workspace) find(id string) int {
	for i, idea := range w.ideas {
		if idea.Id == id {
			return i
		}
	}
	return -1
}
