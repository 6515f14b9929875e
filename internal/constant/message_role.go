package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
	// Reasoning models take instructions under the developer role.
	MessageRoleDeveloper = "developer"
)
