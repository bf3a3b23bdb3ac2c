package models

// Request payloads submitted to the API. Validate tags describe the
// client-side rules checked before a request is put on the wire; the backend
// applies its own validation independently.

// LoginRequest carries sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries sign-up data. The backend expects the password
// twice; both fields always hold the same value when produced by the session
// controller.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
}

// TokenPair is the credential pair issued by the auth endpoints.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ChangePasswordRequest carries a password change for the current user.
type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password" validate:"required"`
	NewPassword1 string `json:"new_password1" validate:"required,min=8"`
	NewPassword2 string `json:"new_password2" validate:"required,eqfield=NewPassword1"`
}

// CreatePostRequest carries a new post submission.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Filename    string   `json:"filename" validate:"required,max=255"`
	Language    string   `json:"language" validate:"required"`
	Code        string   `json:"code" validate:"required"`
	Description string   `json:"description,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// EditPostRequest carries a partial update of an existing post. Nil fields
// are omitted from the PATCH body and left untouched by the backend.
// CommitMessage becomes the revision history entry for the edit.
type EditPostRequest struct {
	Title         *string  `json:"title,omitempty"`
	Filename      *string  `json:"filename,omitempty"`
	Language      *string  `json:"language,omitempty"`
	Code          *string  `json:"code,omitempty"`
	Description   *string  `json:"description,omitempty"`
	IsPublic      *bool    `json:"is_public,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CommitMessage string   `json:"commit_message,omitempty"`
}

// AddCommentRequest carries a new comment. Parent is nil for a top-level
// comment and the ancestor's id for a reply.
type AddCommentRequest struct {
	Content string  `json:"content" validate:"required,max=2000"`
	Parent  *string `json:"parent,omitempty"`
}

// UpdateProfileRequest carries a partial profile update.
type UpdateProfileRequest struct {
	DisplayName     *string `json:"display_name,omitempty"`
	Bio             *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location        *string `json:"location,omitempty"`
	Website         *string `json:"website,omitempty" validate:"omitempty,url"`
	GithubUsername  *string `json:"github_username,omitempty"`
	TwitterUsername *string `json:"twitter_username,omitempty"`
}
