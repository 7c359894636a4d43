package out

import (
	"context"

	"rehab/internal/modules/auth/domain"
)

// TokenStore keeps the bearer token across process restarts.
type TokenStore interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Gateway is the backend's account surface.
type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	LoginGoogle(ctx context.Context, idToken string) (string, error)
	Me(ctx context.Context) (domain.User, error)
	UpdateMe(ctx context.Context, update domain.AccountUpdate) (domain.User, error)
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
	VerifyEmail(ctx context.Context, token string) (domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	GetProfile(ctx context.Context) (domain.Profile, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error)
}

// IdentityProvider obtains a third-party identity token, such as a Google ID token.
type IdentityProvider interface {
	IDToken(ctx context.Context) (string, error)
}
