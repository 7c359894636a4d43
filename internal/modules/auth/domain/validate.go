package domain

import (
	"strings"

	apperrors "rehab/internal/platform/errors"
)

const MinPasswordLength = 8

func ValidateCredentials(email, password string) error {
	fields := map[string]string{}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "required"
	}
	if password == "" {
		fields["password"] = "required"
	}
	return asError(fields)
}

func (r Registration) Validate() error {
	fields := map[string]string{}
	if !strings.Contains(r.Email, "@") {
		fields["email"] = "must be an email address"
	}
	if strings.TrimSpace(r.Username) == "" {
		fields["username"] = "required"
	}
	if len(r.Password) < MinPasswordLength {
		fields["password"] = "must be at least 8 characters"
	}
	return asError(fields)
}

func (a AccountUpdate) Validate() error {
	fields := map[string]string{}
	if a.Email != "" && !strings.Contains(a.Email, "@") {
		fields["email"] = "must be an email address"
	}
	if a.NewPassword != "" {
		if len(a.NewPassword) < MinPasswordLength {
			fields["new_password"] = "must be at least 8 characters"
		}
		if a.CurrentPassword == "" {
			fields["current_password"] = "required to change the password"
		}
	}
	return asError(fields)
}

func ValidateNewPassword(token, password string) error {
	fields := map[string]string{}
	if strings.TrimSpace(token) == "" {
		fields["token"] = "required"
	}
	if len(password) < MinPasswordLength {
		fields["new_password"] = "must be at least 8 characters"
	}
	return asError(fields)
}

func asError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &apperrors.ValidationError{Fields: fields}
}
