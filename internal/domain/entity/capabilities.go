package entity

// Capabilities permisos del usuario que llama. El núcleo nunca los evalúa: los recibe
// explícitamente y el llamador (handler HTTP, CLI) decide si permite la operación.
type Capabilities struct {
	CanUpload      bool `json:"can_upload"`
	CanViewAll     bool `json:"can_view_all"`
	CanDelete      bool `json:"can_delete"`
	CanManageUsers bool `json:"can_manage_users"`
	CanUseAI       bool `json:"can_use_ai"`
}

// Caller identidad del actor que invoca una operación; ActorID se usa para los sellos de auditoría.
type Caller struct {
	ActorID      string
	Capabilities Capabilities
}
