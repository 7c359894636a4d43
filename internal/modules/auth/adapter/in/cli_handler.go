package in

import (
	"context"

	"rehab/internal/modules/auth/dto"
	authin "rehab/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Restore(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Session() dto.SessionOutput {
	return h.usecase.Session()
}

func (h CLIHandler) Watch() (<-chan dto.SessionOutput, func()) {
	return h.usecase.Watch()
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) LoginWithGoogle(ctx context.Context, idToken string) (dto.SessionOutput, error) {
	return h.usecase.LoginWithGoogle(ctx, idToken)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Register(ctx context.Context, email, username, password, firstName, lastName string) (dto.UserOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{
		Email:     email,
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
}

func (h CLIHandler) VerifyEmail(ctx context.Context, token string) (dto.UserOutput, error) {
	return h.usecase.VerifyEmail(ctx, token)
}

func (h CLIHandler) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return h.usecase.RequestPasswordReset(ctx, email)
}

func (h CLIHandler) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return h.usecase.ResetPassword(ctx, dto.ResetPasswordInput{Token: token, NewPassword: newPassword})
}

func (h CLIHandler) UpdateAccount(ctx context.Context, input dto.AccountUpdateInput) (dto.UserOutput, error) {
	return h.usecase.UpdateAccount(ctx, input)
}

func (h CLIHandler) GetProfile(ctx context.Context) (dto.ProfileData, error) {
	return h.usecase.GetProfile(ctx)
}

func (h CLIHandler) UpdateProfile(ctx context.Context, input dto.ProfileData) (dto.ProfileData, error) {
	return h.usecase.UpdateProfile(ctx, input)
}
