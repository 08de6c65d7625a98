package dto

// CreateAgentRequest payload.
type CreateAgentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CategoryRequest payload.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse is one registry entry.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RoleCountsResponse summarizes accounts per role.
type RoleCountsResponse struct {
	Users  int64 `json:"users"`
	Agents int64 `json:"agents"`
	Admins int64 `json:"admins"`
	Total  int64 `json:"total"`
}

// ToggleActiveResponse reports the new state after a toggle.
type ToggleActiveResponse struct {
	UserID int64 `json:"user_id"`
	Active bool  `json:"active"`
}
