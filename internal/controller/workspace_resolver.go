package controller

import (
	"ideaspark-be/internal/pkg/serverutils"
	"ideaspark-be/internal/repository/memory"
	"ideaspark-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

// workspaceResolver picks the workspace of the caller: one per signed-in
// user, or the shared local one.
type workspaceResolver struct {
	flow       *workflow.Controller
	workspaces *memory.WorkspaceRepository
}

func (r *workspaceResolver) resolve(ctx *fiber.Ctx) *workflow.Workspace {
	session := serverutils.SessionFrom(ctx)
	ws := r.workspaces.GetOrCreate(workflow.WorkspaceKey(session))
	r.flow.Bind(ws, session)
	return ws
}
