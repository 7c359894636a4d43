package dto

type ExportInput struct {
	PatientName    string
	AssessmentType string
	Data           map[string]any
	Language       string
}

type ExportOutput struct {
	FilePath string
	Message  string
}

type DownloadInput struct {
	PatientID   string
	PatientName string
	Dir         string
}

type ReportOutput struct {
	Path  string
	Pages int
}
