package out

import (
	"context"
	"net/http"
	"net/url"

	"rehab/internal/modules/report/domain"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/httpapi"
)

const (
	exportPath = "/export/assessment"
	pdfPath    = "/report/pdf/"
)

type HTTPReports struct {
	client *httpapi.Client
}

func NewHTTPReports(client *httpapi.Client) *HTTPReports {
	return &HTTPReports{client: client}
}

type exportBody struct {
	PatientName    string         `json:"patient_name"`
	AssessmentType string         `json:"assessment_type"`
	AssessmentData map[string]any `json:"assessment_data"`
	Language       string         `json:"language"`
}

type exportResponse struct {
	FilePath string `json:"file_path"`
	Success  *bool  `json:"success"`
	Message  string `json:"message"`
}

func (h *HTTPReports) Export(ctx context.Context, req domain.ExportRequest) (domain.Export, error) {
	var out exportResponse
	err := h.client.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   exportPath,
		JSON: exportBody{
			PatientName:    req.PatientName,
			AssessmentType: req.AssessmentType,
			AssessmentData: req.Data,
			Language:       req.Language,
		},
	}, &out)
	if err != nil {
		return domain.Export{}, err
	}
	if out.Success == nil {
		return domain.Export{}, apperrors.NewMalformedError()
	}
	if !*out.Success {
		return domain.Export{}, apperrors.FromStatus(http.StatusInternalServerError, out.Message)
	}
	return domain.Export{FilePath: out.FilePath, Message: out.Message}, nil
}

func (h *HTTPReports) Fetch(ctx context.Context, patientID string) ([]byte, error) {
	return h.client.GetBytes(ctx, pdfPath+url.PathEscape(patientID))
}
