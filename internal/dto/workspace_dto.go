package dto

type NavigateRequest struct {
	View string `json:"view" validate:"required,oneof=landing login dashboard create view_idea"`
}

type WorkspaceResponse struct {
	View        string            `json:"view"`
	SelectedId  string            `json:"selected_id,omitempty"`
	SignedIn    bool              `json:"signed_in"`
	Email       string            `json:"email,omitempty"`
	Error       string            `json:"error,omitempty"`
	ErrorIdeaId string            `json:"error_idea_id,omitempty"`
	Banner      string            `json:"banner,omitempty"`
	Backend     string            `json:"backend"`
	Capability  string            `json:"capability"`
	IdeaCount   int               `json:"idea_count"`
	InFlight    map[string]string `json:"in_flight"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Capability string `json:"capability"`
	Banner     string `json:"banner,omitempty"`
}
