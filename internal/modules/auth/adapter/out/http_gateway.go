package out

import (
	"context"
	"net/http"
	"net/url"

	"rehab/internal/modules/auth/domain"
	authout "rehab/internal/modules/auth/port/out"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/httpapi"
)

type HTTPGateway struct {
	client *httpapi.Client
}

func NewHTTPGateway(client *httpapi.Client) authout.Gateway {
	return &HTTPGateway{client: client}
}

type tokenJSON struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userJSON struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

type messageJSON struct {
	Message string `json:"message"`
}

type profileJSON struct {
	DateOfBirth           string `json:"date_of_birth,omitempty"`
	Gender                string `json:"gender,omitempty"`
	Height                int    `json:"height,omitempty"`
	Weight                int    `json:"weight,omitempty"`
	MedicalHistory        string `json:"medical_history,omitempty"`
	Allergies             string `json:"allergies,omitempty"`
	Medications           string `json:"medications,omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
	DoctorName            string `json:"doctor_name,omitempty"`
	DoctorPhone           string `json:"doctor_phone,omitempty"`
	StrokeDate            string `json:"stroke_date,omitempty"`
	StrokeType            string `json:"stroke_type,omitempty"`
	AffectedSide          string `json:"affected_side,omitempty"`
	MobilityAid           string `json:"mobility_aid,omitempty"`
	TherapyGoals          string `json:"therapy_goals,omitempty"`
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	return g.token(ctx, httpapi.Request{Method: http.MethodPost, Path: "/auth/login", Form: form})
}

func (g *HTTPGateway) LoginGoogle(ctx context.Context, idToken string) (string, error) {
	return g.token(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   "/auth/login/google",
		JSON:   map[string]string{"token": idToken},
	})
}

func (g *HTTPGateway) token(ctx context.Context, req httpapi.Request) (string, error) {
	var out tokenJSON
	if err := g.client.Do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", apperrors.NewMalformedError()
	}
	return out.AccessToken, nil
}

func (g *HTTPGateway) Me(ctx context.Context) (domain.User, error) {
	return g.user(ctx, httpapi.Request{Method: http.MethodGet, Path: "/auth/me"})
}

func (g *HTTPGateway) UpdateMe(ctx context.Context, update domain.AccountUpdate) (domain.User, error) {
	body := map[string]string{}
	setIf(body, "first_name", update.FirstName)
	setIf(body, "last_name", update.LastName)
	setIf(body, "email", update.Email)
	setIf(body, "current_password", update.CurrentPassword)
	setIf(body, "new_password", update.NewPassword)
	return g.user(ctx, httpapi.Request{Method: http.MethodPut, Path: "/auth/me", JSON: body})
}

func (g *HTTPGateway) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	body := map[string]string{
		"email":    reg.Email,
		"username": reg.Username,
		"password": reg.Password,
	}
	setIf(body, "first_name", reg.FirstName)
	setIf(body, "last_name", reg.LastName)
	return g.user(ctx, httpapi.Request{Method: http.MethodPost, Path: "/auth/register", JSON: body})
}

func (g *HTTPGateway) VerifyEmail(ctx context.Context, token string) (domain.User, error) {
	return g.user(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   "/auth/verify-email",
		JSON:   map[string]string{"token": token},
	})
}

func (g *HTTPGateway) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return g.message(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   "/auth/request-password-reset",
		JSON:   map[string]string{"email": email},
	})
}

func (g *HTTPGateway) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return g.message(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		JSON:   map[string]string{"token": token, "new_password": newPassword},
	})
}

func (g *HTTPGateway) GetProfile(ctx context.Context) (domain.Profile, error) {
	var out profileJSON
	if err := g.client.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/auth/me/profile"}, &out); err != nil {
		return domain.Profile{}, err
	}
	return out.toDomain(), nil
}

func (g *HTTPGateway) UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	var out profileJSON
	req := httpapi.Request{Method: http.MethodPut, Path: "/auth/me/profile", JSON: fromProfile(profile)}
	if err := g.client.Do(ctx, req, &out); err != nil {
		return domain.Profile{}, err
	}
	return out.toDomain(), nil
}

func (g *HTTPGateway) user(ctx context.Context, req httpapi.Request) (domain.User, error) {
	var out userJSON
	if err := g.client.Do(ctx, req, &out); err != nil {
		return domain.User{}, err
	}
	if out.Email == "" && out.Username == "" {
		return domain.User{}, apperrors.NewMalformedError()
	}
	return domain.User{
		ID:         out.ID,
		Email:      out.Email,
		Username:   out.Username,
		FirstName:  out.FirstName,
		LastName:   out.LastName,
		Role:       out.Role,
		IsVerified: out.IsVerified,
	}, nil
}

func (g *HTTPGateway) message(ctx context.Context, req httpapi.Request) (string, error) {
	var out messageJSON
	if err := g.client.Do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (p profileJSON) toDomain() domain.Profile {
	out := domain.Profile{
		Gender:                p.Gender,
		Height:                p.Height,
		Weight:                p.Weight,
		MedicalHistory:        p.MedicalHistory,
		Allergies:             p.Allergies,
		Medications:           p.Medications,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		DoctorName:            p.DoctorName,
		DoctorPhone:           p.DoctorPhone,
		StrokeType:            p.StrokeType,
		AffectedSide:          p.AffectedSide,
		MobilityAid:           p.MobilityAid,
		TherapyGoals:          p.TherapyGoals,
	}
	if t, ok := httpapi.ParseTime(p.DateOfBirth); ok {
		out.DateOfBirth = &t
	}
	if t, ok := httpapi.ParseTime(p.StrokeDate); ok {
		out.StrokeDate = &t
	}
	return out
}

func fromProfile(p domain.Profile) profileJSON {
	out := profileJSON{
		Gender:                p.Gender,
		Height:                p.Height,
		Weight:                p.Weight,
		MedicalHistory:        p.MedicalHistory,
		Allergies:             p.Allergies,
		Medications:           p.Medications,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		DoctorName:            p.DoctorName,
		DoctorPhone:           p.DoctorPhone,
		StrokeType:            p.StrokeType,
		AffectedSide:          p.AffectedSide,
		MobilityAid:           p.MobilityAid,
		TherapyGoals:          p.TherapyGoals,
	}
	if p.DateOfBirth != nil {
		out.DateOfBirth = httpapi.FormatTime(*p.DateOfBirth)
	}
	if p.StrokeDate != nil {
		out.StrokeDate = httpapi.FormatTime(*p.StrokeDate)
	}
	return out
}

func setIf(body map[string]string, key, value string) {
	if value != "" {
		body[key] = value
	}
}
