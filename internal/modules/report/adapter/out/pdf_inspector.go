package out

import (
	"fmt"

	"rsc.io/pdf"
)

type PDFInspector struct{}

func NewPDFInspector() PDFInspector {
	return PDFInspector{}
}

// PageCount opens path and touches every page. The pdf package panics on
// some malformed streams, which is reported as an error.
func (PDFInspector) PageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("read pdf: %v", r)
		}
	}()
	doc, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	total := doc.NumPage()
	if total == 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	for i := 1; i <= total; i++ {
		if doc.Page(i).V.IsNull() {
			return 0, fmt.Errorf("pdf page %d is null", i)
		}
	}
	return total, nil
}
