package dto

// InviteRequest is the team invite payload
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=viewer editor"`
}

// UpdateMemberRoleRequest is the role change payload
type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=viewer editor"`
}
