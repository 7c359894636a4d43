package domain

import (
	"fmt"
	"strings"

	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/slug"
)

// ExportRequest asks the backend to render an assessment as a PDF report.
type ExportRequest struct {
	PatientName    string
	AssessmentType string
	Data           map[string]any
	Language       string
}

func (r ExportRequest) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(r.PatientName) == "" {
		fields["patient_name"] = "required"
	}
	if strings.TrimSpace(r.AssessmentType) == "" {
		fields["assessment_type"] = "required"
	}
	if len(r.Data) == 0 {
		fields["assessment_data"] = "required"
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// Export is the backend's answer; FilePath is a path on the server.
type Export struct {
	FilePath string
	Message  string
}

type Report struct {
	Path  string
	Pages int
}

// FileName is the local name of a downloaded report.
func FileName(patient string) string {
	return fmt.Sprintf("%s-report.pdf", slug.Make(patient))
}
