package handler

// --- Request / Response types ---

type createAccountRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateAccountRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"omitempty,min=8"`
	FirstName   string `json:"first_name"   validate:"required"`
	LastName    string `json:"last_name"    validate:"required"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required,uuid"`
}

type requestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type checkResetRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,uuid"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Token       string `json:"token"        validate:"required,uuid"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type checkResetResponse struct {
	Valid bool `json:"valid"`
}
