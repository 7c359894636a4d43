package domain

import (
	"strings"
	"time"
)

type User struct {
	ID         int64
	Email      string
	Username   string
	FirstName  string
	LastName   string
	Role       string
	IsVerified bool
}

// DisplayName prefers the full name, then the username, then the email.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	switch {
	case full != "":
		return full
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// Status is a snapshot of the session. A token counts as authenticated
// before its profile fetch resolves; User is set only after that fetch
// succeeded for the current token.
type Status struct {
	HasToken bool
	User     *User
	Checking bool
}

func (s Status) Authenticated() bool { return s.HasToken }

// Resolved is false while a profile fetch for the current token is in flight.
func (s Status) Resolved() bool { return !s.Checking }

type Registration struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type AccountUpdate struct {
	FirstName       string
	LastName        string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// Profile is the medical profile attached to an account. Empty fields are
// left unchanged on update.
type Profile struct {
	DateOfBirth           *time.Time
	Gender                string
	Height                int
	Weight                int
	MedicalHistory        string
	Allergies             string
	Medications           string
	EmergencyContactName  string
	EmergencyContactPhone string
	DoctorName            string
	DoctorPhone           string
	StrokeDate            *time.Time
	StrokeType            string
	AffectedSide          string
	MobilityAid           string
	TherapyGoals          string
}
