package in

import (
	"context"

	"rehab/internal/modules/report/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Download(ctx context.Context, input dto.DownloadInput) (dto.ReportOutput, error)
}
