package out

import (
	"context"

	"rehab/internal/modules/report/domain"
)

type Exporter interface {
	Export(ctx context.Context, req domain.ExportRequest) (domain.Export, error)
}

type Downloader interface {
	Fetch(ctx context.Context, patientID string) ([]byte, error)
}

// Inspector opens a PDF file and counts its pages.
type Inspector interface {
	PageCount(path string) (int, error)
}

// Current is the scored assessment an export defaults to.
type Current interface {
	Current() (assessmentType string, data map[string]any, ok bool)
}

type LanguageSource interface {
	Language() string
}
