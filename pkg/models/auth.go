package models

// SignupRequest is the payload of POST /v1/auth/signup.
type SignupRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	FullName         string `json:"full_name" validate:"required"`
	Role             Role   `json:"role,omitempty" validate:"omitempty,oneof=user provider"`
	OrganizationName string `json:"organization_name,omitempty" validate:"required_if=Role provider"`
}

// ProfileUpdateRequest is the payload of PUT /v1/me. An empty
// organization name leaves the stored one unchanged.
type ProfileUpdateRequest struct {
	FullName         string `json:"full_name" validate:"required"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// SigninRequest is the payload of POST /v1/auth/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// SavedIDs is the body of GET /v1/saved.
type SavedIDs struct {
	IDs []string `json:"ids"`
}

// ActiveRequest is the body of PATCH /v1/provider/opportunities/{id}/active.
type ActiveRequest struct {
	IsActive bool `json:"is_active"`
}
