package auth

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/handler"
	authsvc "github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

type meResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type oauthLinkResponse struct {
	ID          string `json:"id"`
	Provider    string `json:"provider"`
	AccessToken string `json:"accessToken"`
}

type oauthUserResponse struct {
	ID           uuid.UUID           `json:"id"`
	Login        string              `json:"login"`
	Name         string              `json:"name"`
	OAuth        []oauthLinkResponse `json:"oauth"`
	RefreshToken string              `json:"refreshToken"`
}

func (m *Module) register(ctx handler.Context, req registerRequest) handler.Response {
	req.normalize()
	if err := req.validate(); err != nil {
		return handler.Error(err)
	}

	user, err := m.svc.Register(ctx, authsvc.RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		// The account exists even if the email could not be sent, the
		// client retries through /confirm/resend.
		if errors.Is(err, authsvc.ErrNotificationFailure) && user != nil {
			m.logger.WarnContext(ctx, "registered without verification email",
				logger.UserID(user.ID.String()),
				logger.Error(err),
				logger.Component("auth_http"),
			)
		}
		return handler.Error(err)
	}

	return handler.JSON(user, handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) confirm(ctx handler.Context, req confirmRequest) handler.Response {
	receipt, err := m.svc.ConfirmEmail(ctx, req.Token)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(receipt)
}

func (m *Module) resend(ctx handler.Context, req resendRequest) handler.Response {
	req.Email = sanitizer.Trim(req.Email)
	if err := req.validate(); err != nil {
		return handler.Error(err)
	}

	if err := m.svc.ResendVerification(ctx, req.Email); err != nil {
		return handler.Error(err)
	}
	return handler.EmptyWithStatus(http.StatusAccepted)
}

func (m *Module) login(ctx handler.Context, req loginRequest) handler.Response {
	req.Email = sanitizer.Trim(req.Email)
	if err := req.validate(); err != nil {
		return handler.Error(err)
	}

	pair, err := m.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(pair, handler.WithJSONHeader("Authorization", pair.AccessToken))
}

func (m *Module) refresh(ctx handler.Context, req refreshRequest) handler.Response {
	if err := req.validate(); err != nil {
		return handler.Error(err)
	}

	pair, err := m.svc.Refresh(ctx, req.AccessToken, req.RefreshToken)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(pair, handler.WithJSONHeader("Authorization", pair.AccessToken))
}

func (m *Module) me(ctx handler.Context, _ struct{}) handler.Response {
	claims, ok := authsvc.ClaimsFromContext(ctx)
	if !ok {
		return handler.Error(authsvc.ErrUnauthorized)
	}
	return handler.JSON(meResponse{ID: claims.UserID, Email: claims.Email})
}

func (m *Module) oauthRedirect(ctx handler.Context, req oauthRequest) handler.Response {
	url, err := m.oauth.AuthURL(ctx, req.Provider)
	if err != nil {
		return handler.Error(err)
	}
	return handler.RedirectWithCode(url, http.StatusFound)
}

func (m *Module) oauthCallback(ctx handler.Context, req oauthRequest) handler.Response {
	user, pair, err := m.oauth.Callback(ctx, req.Provider, req.Code, req.State)
	if err != nil {
		return handler.Error(err)
	}

	resp := oauthUserResponse{
		ID:           user.ID,
		Login:        user.Email,
		Name:         user.DisplayName,
		OAuth:        make([]oauthLinkResponse, 0, len(user.OAuthLinks)),
		RefreshToken: pair.RefreshToken,
	}
	for _, link := range user.OAuthLinks {
		if link.Provider != req.Provider {
			continue
		}
		resp.OAuth = append(resp.OAuth, oauthLinkResponse{
			ID:          link.ProviderUserID,
			Provider:    link.Provider,
			AccessToken: pair.AccessToken,
		})
	}

	return handler.JSON(resp, handler.WithJSONHeader("Authorization", pair.AccessToken))
}
