package usecase

import (
	"context"
	"strings"

	"rehab/internal/modules/auth/domain"
	"rehab/internal/modules/auth/dto"
	authin "rehab/internal/modules/auth/port/in"
	authout "rehab/internal/modules/auth/port/out"
	"rehab/internal/modules/auth/service"
	apperrors "rehab/internal/platform/errors"
)

const (
	registerFailedMessage = "Registration failed. Please try again."
	verifyFailedMessage   = "Email verification failed."
	resetFailedMessage    = "Password reset failed. Please try again."
	updateFailedMessage   = "Could not update your account."
	profileFailedMessage  = "Could not load your profile."
)

type Interactor struct {
	session *service.SessionService
	gateway authout.Gateway
}

func NewInteractor(session *service.SessionService, gateway authout.Gateway) authin.Usecase {
	return &Interactor{session: session, gateway: gateway}
}

func (i *Interactor) Restore(ctx context.Context) (dto.SessionOutput, error) {
	st, err := i.session.Restore(ctx)
	return toSession(st), err
}

func (i *Interactor) Session() dto.SessionOutput {
	return toSession(i.session.State())
}

func (i *Interactor) Watch() (<-chan dto.SessionOutput, func()) {
	src, cancel := i.session.Changes()
	out := make(chan dto.SessionOutput, 1)
	go func() {
		defer close(out)
		for st := range src {
			select {
			case <-out:
			default:
			}
			out <- toSession(st)
		}
	}()
	return out, cancel
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	st, err := i.session.Login(ctx, input.Email, input.Password)
	return toSession(st), err
}

func (i *Interactor) LoginWithGoogle(ctx context.Context, idToken string) (dto.SessionOutput, error) {
	st, err := i.session.LoginWithOAuthCredential(ctx, idToken)
	return toSession(st), err
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.session.Logout(ctx)
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.UserOutput, error) {
	reg := domain.Registration{
		Email:     strings.TrimSpace(input.Email),
		Username:  strings.TrimSpace(input.Username),
		Password:  input.Password,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	if err := reg.Validate(); err != nil {
		return dto.UserOutput{}, err
	}
	user, err := i.gateway.Register(ctx, reg)
	if err != nil {
		return dto.UserOutput{}, apperrors.WithMessage(err, registerFailedMessage)
	}
	return toUser(user), nil
}

func (i *Interactor) VerifyEmail(ctx context.Context, token string) (dto.UserOutput, error) {
	if strings.TrimSpace(token) == "" {
		return dto.UserOutput{}, &apperrors.ValidationError{Fields: map[string]string{"token": "required"}}
	}
	user, err := i.gateway.VerifyEmail(ctx, strings.TrimSpace(token))
	if err != nil {
		return dto.UserOutput{}, apperrors.WithMessage(err, verifyFailedMessage)
	}
	return toUser(user), nil
}

func (i *Interactor) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if !strings.Contains(email, "@") {
		return "", &apperrors.ValidationError{Fields: map[string]string{"email": "must be an email address"}}
	}
	msg, err := i.gateway.RequestPasswordReset(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", apperrors.WithMessage(err, resetFailedMessage)
	}
	return msg, nil
}

func (i *Interactor) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) (string, error) {
	if err := domain.ValidateNewPassword(input.Token, input.NewPassword); err != nil {
		return "", err
	}
	msg, err := i.gateway.ResetPassword(ctx, strings.TrimSpace(input.Token), input.NewPassword)
	if err != nil {
		return "", apperrors.WithMessage(err, resetFailedMessage)
	}
	return msg, nil
}

func (i *Interactor) UpdateAccount(ctx context.Context, input dto.AccountUpdateInput) (dto.UserOutput, error) {
	if !i.session.IsAuthenticated() {
		return dto.UserOutput{}, apperrors.ErrNotAuthenticated
	}
	update := domain.AccountUpdate(input)
	if err := update.Validate(); err != nil {
		return dto.UserOutput{}, err
	}
	user, err := i.gateway.UpdateMe(ctx, update)
	if err != nil {
		return dto.UserOutput{}, apperrors.WithMessage(err, updateFailedMessage)
	}
	i.session.ReplaceUser(user)
	return toUser(user), nil
}

func (i *Interactor) GetProfile(ctx context.Context) (dto.ProfileData, error) {
	if !i.session.IsAuthenticated() {
		return dto.ProfileData{}, apperrors.ErrNotAuthenticated
	}
	profile, err := i.gateway.GetProfile(ctx)
	if err != nil {
		return dto.ProfileData{}, apperrors.WithMessage(err, profileFailedMessage)
	}
	return dto.ProfileData(profile), nil
}

func (i *Interactor) UpdateProfile(ctx context.Context, input dto.ProfileData) (dto.ProfileData, error) {
	if !i.session.IsAuthenticated() {
		return dto.ProfileData{}, apperrors.ErrNotAuthenticated
	}
	if input.Height < 0 || input.Weight < 0 {
		return dto.ProfileData{}, &apperrors.ValidationError{Fields: map[string]string{"height/weight": "must not be negative"}}
	}
	profile, err := i.gateway.UpdateProfile(ctx, domain.Profile(input))
	if err != nil {
		return dto.ProfileData{}, apperrors.WithMessage(err, updateFailedMessage)
	}
	return dto.ProfileData(profile), nil
}

func toSession(st domain.Status) dto.SessionOutput {
	out := dto.SessionOutput{Authenticated: st.Authenticated(), Checking: st.Checking}
	if st.User != nil {
		u := toUser(*st.User)
		out.User = &u
	}
	return out
}

func toUser(u domain.User) dto.UserOutput {
	return dto.UserOutput{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		Role:        u.Role,
		IsVerified:  u.IsVerified,
	}
}
