package in

import (
	"context"

	"rehab/internal/modules/report/dto"
	reportin "rehab/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Export with empty type and data exports the current assessment.
func (h CLIHandler) Export(ctx context.Context, patientName, assessmentType string, data map[string]any) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{PatientName: patientName, AssessmentType: assessmentType, Data: data})
}

func (h CLIHandler) Download(ctx context.Context, patientID, patientName, dir string) (dto.ReportOutput, error) {
	return h.usecase.Download(ctx, dto.DownloadInput{PatientID: patientID, PatientName: patientName, Dir: dir})
}
