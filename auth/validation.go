package auth

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 6
	passwordMaxLen = 50
	nicknameMaxLen = 50
	avatarMaxLen   = 255
	phoneMaxLen    = 20
)

// FieldError is a client side validation failure for one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every failing field of a form.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Field returns the message for field, or "".
func (v ValidationErrors) Field(field string) string {
	for _, e := range v {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Validator checks forms before they are sent, using the same rules as the
// backend so obvious mistakes never cost a round trip.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLogin accepts a username or an email as the login name.
func (v *Validator) ValidateLogin(req LoginRequest) error {
	var errs ValidationErrors
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, FieldError{"username", "username is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{"password", "password is required"})
	}
	return errs.orNil()
}

func (v *Validator) ValidateRegistration(req RegisterRequest) error {
	var errs ValidationErrors
	if err := v.ValidateUsername(req.Username); err != nil {
		errs = append(errs, FieldError{"username", err.Error()})
	}
	if err := v.ValidateEmail(req.Email); err != nil {
		errs = append(errs, FieldError{"email", err.Error()})
	}
	if err := v.ValidatePassword(req.Password); err != nil {
		errs = append(errs, FieldError{"password", err.Error()})
	}
	if req.ConfirmPassword != req.Password {
		errs = append(errs, FieldError{"confirm_password", ErrPasswordsDontMatch.Error()})
	}
	if req.Nickname != nil && utf8.RuneCountInString(*req.Nickname) > nicknameMaxLen {
		errs = append(errs, FieldError{"nickname", fmt.Sprintf("nickname must be at most %d characters", nicknameMaxLen)})
	}
	return errs.orNil()
}

func (v *Validator) ValidatePasswordChange(change PasswordChange, confirm string) error {
	var errs ValidationErrors
	if change.OldPassword == "" {
		errs = append(errs, FieldError{"old_password", "old password is required"})
	}
	if err := v.ValidatePassword(change.NewPassword); err != nil {
		errs = append(errs, FieldError{"new_password", err.Error()})
	} else if change.NewPassword == change.OldPassword {
		errs = append(errs, FieldError{"new_password", ErrSamePassword.Error()})
	}
	if confirm != change.NewPassword {
		errs = append(errs, FieldError{"confirm_password", ErrPasswordsDontMatch.Error()})
	}
	return errs.orNil()
}

func (v *Validator) ValidateProfileUpdate(update ProfileUpdate) error {
	if update.Nickname == nil && update.Avatar == nil && update.Phone == nil {
		return ErrNothingToUpdate
	}
	var errs ValidationErrors
	if update.Nickname != nil && utf8.RuneCountInString(*update.Nickname) > nicknameMaxLen {
		errs = append(errs, FieldError{"nickname", fmt.Sprintf("nickname must be at most %d characters", nicknameMaxLen)})
	}
	if update.Avatar != nil && len(*update.Avatar) > avatarMaxLen {
		errs = append(errs, FieldError{"avatar", fmt.Sprintf("avatar URL must be at most %d characters", avatarMaxLen)})
	}
	if update.Phone != nil && len(*update.Phone) > phoneMaxLen {
		errs = append(errs, FieldError{"phone", fmt.Sprintf("phone must be at most %d characters", phoneMaxLen)})
	}
	return errs.orNil()
}

// ValidateUsername allows letters, digits and underscores, 3 to 50 characters.
func (v *Validator) ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < usernameMinLen || n > usernameMaxLen {
		return fmt.Errorf("username must be %d to %d characters", usernameMinLen, usernameMaxLen)
	}
	for _, r := range username {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("username may only contain letters, digits and underscores")
		}
	}
	return nil
}

func (v *Validator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func (v *Validator) ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < passwordMinLen || n > passwordMaxLen {
		return fmt.Errorf("password must be %d to %d characters", passwordMinLen, passwordMaxLen)
	}
	return nil
}
