package rest

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"

	"github.com/redwanhasan980/TaskManagement/auth"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)

type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate will run validation rules
func (p RegisterPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(
				&p.Username,
				validation.Required,
				validation.Match(usernameRegex).
					Error("must be 3 to 50 characters of letters, numbers, or underscores"),
			),
			validation.Field(&p.Email, validation.Required, is.Email),
			validation.Field(&p.Password, validation.Required, validation.Length(6, 100)),
		)
	}, "Invalid registration payload")
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (p LoginPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Email, validation.Required, is.Email),
			validation.Field(&p.Password, validation.Required),
		)
	}, "Invalid login payload")
}

type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (p ForgotPasswordPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Email, validation.Required, is.Email),
		)
	}, "Invalid password reset payload")
}

type ResetPasswordPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate will run validation rules. Token length is checked here so
// obviously malformed tokens never reach the database.
func (p ResetPasswordPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(
				&p.Token,
				validation.Required,
				validation.Length(auth.MinLifecycleTokenLength, 0),
			),
			validation.Field(&p.Password, validation.Required, validation.Length(6, 100)),
		)
	}, "Invalid password reset payload")
}

type UpdateProfilePayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Validate will run validation rules, empty fields are left untouched
func (p UpdateProfilePayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(
				&p.Username,
				validation.Match(usernameRegex).
					Error("must be 3 to 50 characters of letters, numbers, or underscores"),
			),
			validation.Field(&p.Email, is.Email),
		)
	}, "Invalid profile payload")
}

type CreateTaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// Validate will run validation rules
func (p CreateTaskPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
			validation.Field(&p.Description, validation.Length(0, 2000)),
		)
	}, "Invalid task payload")
}

type UpdateTaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// Validate will run validation rules, empty fields are left untouched
func (p UpdateTaskPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Title, validation.Length(1, 200)),
			validation.Field(&p.Description, validation.Length(0, 2000)),
		)
	}, "Invalid task payload")
}

type AdminUpdateUserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Validate will run validation rules
func (p AdminUpdateUserPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(
				&p.Username,
				validation.Required,
				validation.Match(usernameRegex).
					Error("must be 3 to 50 characters of letters, numbers, or underscores"),
			),
			validation.Field(&p.Email, validation.Required, is.Email),
			validation.Field(&p.Role, validation.Required,
				validation.In("admin", "user").
					Error(`must be either "admin" or "user"`)),
		)
	}, "Invalid user payload")
}
