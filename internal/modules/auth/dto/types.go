package dto

import "time"

type UserOutput struct {
	ID          int64
	Email       string
	Username    string
	DisplayName string
	Role        string
	IsVerified  bool
}

type SessionOutput struct {
	Authenticated bool
	Checking      bool
	User          *UserOutput
}

type LoginInput struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type AccountUpdateInput struct {
	FirstName       string
	LastName        string
	Email           string
	CurrentPassword string
	NewPassword     string
}

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

type ProfileData struct {
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
