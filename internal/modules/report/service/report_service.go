package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	"rehab/internal/modules/report/domain"
	reportout "rehab/internal/modules/report/port/out"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/logging"
)

type ReportService struct {
	exporter   reportout.Exporter
	downloader reportout.Downloader
	inspector  reportout.Inspector
	current    reportout.Current
	language   reportout.LanguageSource
	logger     hclog.Logger
}

func NewReportService(
	exporter reportout.Exporter,
	downloader reportout.Downloader,
	inspector reportout.Inspector,
	current reportout.Current,
	language reportout.LanguageSource,
	logger hclog.Logger,
) *ReportService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReportService{
		exporter:   exporter,
		downloader: downloader,
		inspector:  inspector,
		current:    current,
		language:   language,
		logger:     logger,
	}
}

// Export fills the type, data and language from the current assessment when
// the request leaves them empty.
func (s *ReportService) Export(ctx context.Context, req domain.ExportRequest) (domain.Export, error) {
	if req.AssessmentType == "" && len(req.Data) == 0 && s.current != nil {
		if t, data, ok := s.current.Current(); ok {
			req.AssessmentType, req.Data = t, data
		}
	}
	if req.Language == "" && s.language != nil {
		req.Language = s.language.Language()
	}
	if err := req.Validate(); err != nil {
		return domain.Export{}, err
	}
	out, err := s.exporter.Export(ctx, req)
	if err != nil {
		s.logger.Warn("report export failed", "type", req.AssessmentType, "error", err)
		return domain.Export{}, err
	}
	return out, nil
}

// Download saves the patient's PDF report into dir. A body that does not
// open as a PDF is removed again.
func (s *ReportService) Download(ctx context.Context, patientID, patientName, dir string) (domain.Report, error) {
	if patientID == "" {
		return domain.Report{}, &apperrors.ValidationError{Fields: map[string]string{"patient_id": "required"}}
	}
	body, err := s.downloader.Fetch(ctx, patientID)
	if err != nil {
		return domain.Report{}, err
	}
	name := patientName
	if name == "" {
		name = patientID
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Report{}, fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, domain.FileName(name))
	tmp := path + ".part"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return domain.Report{}, fmt.Errorf("write report: %w", err)
	}
	pages, err := s.inspector.PageCount(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		s.logger.Warn("downloaded report is not a readable pdf", "patient", patientID, "error", err)
		return domain.Report{}, apperrors.NewMalformedError()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return domain.Report{}, fmt.Errorf("save report: %w", err)
	}
	return domain.Report{Path: path, Pages: pages}, nil
}
