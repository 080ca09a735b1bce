package auth

import (
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

func (r *registerRequest) normalize() {
	r.Email = sanitizer.Trim(r.Email)
	r.DisplayName = sanitizer.Apply(r.DisplayName, sanitizer.SingleLine, sanitizer.RemoveControlChars, sanitizer.Trim)
}

func (r registerRequest) validate() error {
	return validator.Apply(
		validator.Required("email", r.Email),
		validator.ValidEmail("email", r.Email),
		validator.Required("displayName", r.DisplayName),
		validator.MaxLen("displayName", r.DisplayName, 100),
		validator.Required("password", r.Password),
		validator.LenBetween("password", r.Password, 6, 12),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) validate() error {
	return validator.Apply(
		validator.Required("email", r.Email),
		validator.ValidEmail("email", r.Email),
		validator.Required("password", r.Password),
		validator.LenBetween("password", r.Password, 6, 24),
	)
}

type resendRequest struct {
	Email string `json:"email"`
}

func (r resendRequest) validate() error {
	return validator.Apply(
		validator.Required("email", r.Email),
		validator.ValidEmail("email", r.Email),
	)
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (r refreshRequest) validate() error {
	return validator.Apply(
		validator.Required("accessToken", r.AccessToken),
		validator.Required("refreshToken", r.RefreshToken),
	)
}

type confirmRequest struct {
	Token string `path:"token"`
}

type oauthRequest struct {
	Provider string `path:"provider"`
	Code     string `query:"code"`
	State    string `query:"state"`
}
