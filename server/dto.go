package server

import (
	"encoding/json"
	"net/http"
	"net/mail"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/users"
)

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrapf(apperrors.ErrValidation, "malformed request body")
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.Wrapf(apperrors.ErrValidation, "invalid email address")
	}
	return nil
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (req registerRequest) validate() error {
	if req.FirstName == "" || req.LastName == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "firstName and lastName are required")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		return apperrors.Wrapf(apperrors.ErrValidation, "%v", err)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) validate() error {
	if req.Email == "" || req.Password == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "email and password are required")
	}
	return nil
}

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (req updateProfileRequest) validate() error {
	if req.FirstName == "" || req.LastName == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "firstName and lastName are required")
	}
	return validateEmail(req.Email)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (req changePasswordRequest) validate() error {
	if req.OldPassword == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "oldPassword is required")
	}
	if err := users.ValidatePasswordStrength(req.NewPassword); err != nil {
		return apperrors.Wrapf(apperrors.ErrValidation, "%v", err)
	}
	return nil
}

// userRequest is the privileged create/update payload. Password is only
// read on create.
type userRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	TenantID  *int64 `json:"tenantId"`
}

func (req userRequest) validate(withPassword bool) error {
	if req.FirstName == "" || req.LastName == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "firstName and lastName are required")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if withPassword {
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			return apperrors.Wrapf(apperrors.ErrValidation, "%v", err)
		}
	}
	return nil
}

type tenantRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (req tenantRequest) validate() error {
	if req.Name == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "name is required")
	}
	return nil
}
