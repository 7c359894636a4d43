package in

import (
	"context"

	"rehab/internal/modules/auth/dto"
)

type Usecase interface {
	Restore(ctx context.Context) (dto.SessionOutput, error)
	Session() dto.SessionOutput
	Watch() (<-chan dto.SessionOutput, func())
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	LoginWithGoogle(ctx context.Context, idToken string) (dto.SessionOutput, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, input dto.RegisterInput) (dto.UserOutput, error)
	VerifyEmail(ctx context.Context, token string) (dto.UserOutput, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, input dto.ResetPasswordInput) (string, error)
	UpdateAccount(ctx context.Context, input dto.AccountUpdateInput) (dto.UserOutput, error)
	GetProfile(ctx context.Context) (dto.ProfileData, error)
	UpdateProfile(ctx context.Context, input dto.ProfileData) (dto.ProfileData, error)
}

// Session is the read-only view other modules get of the session.
type Session interface {
	IsAuthenticated() bool
}
