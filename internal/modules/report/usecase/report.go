package usecase

import (
	"context"

	"rehab/internal/modules/report/domain"
	"rehab/internal/modules/report/dto"
	reportin "rehab/internal/modules/report/port/in"
	"rehab/internal/modules/report/service"
	apperrors "rehab/internal/platform/errors"
)

const exportFailedMessage = "Could not export the assessment report."

type Interactor struct {
	svc *service.ReportService
}

func NewInteractor(svc *service.ReportService) reportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	out, err := i.svc.Export(ctx, domain.ExportRequest{
		PatientName:    input.PatientName,
		AssessmentType: input.AssessmentType,
		Data:           input.Data,
		Language:       input.Language,
	})
	if err != nil {
		if apperrors.Status(err) > 0 {
			return dto.ExportOutput{}, apperrors.WithMessage(err, exportFailedMessage)
		}
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{FilePath: out.FilePath, Message: out.Message}, nil
}

func (i *Interactor) Download(ctx context.Context, input dto.DownloadInput) (dto.ReportOutput, error) {
	report, err := i.svc.Download(ctx, input.PatientID, input.PatientName, input.Dir)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{Path: report.Path, Pages: report.Pages}, nil
}
