package estimator

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

func countPDFPages(content []byte) (pages int, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: malformed pdf: %v", ErrDocumentRead, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}

	n := reader.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("%w: pdf has no pages", ErrDocumentRead)
	}
	return n, nil
}
