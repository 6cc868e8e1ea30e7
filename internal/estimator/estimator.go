// Package estimator derives print page counts from uploaded documents.
//
// PDF counts are exact. Word documents are estimated: DOCX from its
// paragraph, table and image structure, legacy DOC from its size alone.
// Every estimate is a pure function of the input bytes and filename.
package estimator

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedFileType = errors.New("not supported file type, only PDF and Word documents are supported for now")
	ErrDocumentRead        = errors.New("unable to read document")
)

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOC  Kind = "doc"
	KindDOCX Kind = "docx"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var kindByMIME = map[string]Kind{
	MIMEPDF:  KindPDF,
	MIMEDOC:  KindDOC,
	MIMEDOCX: KindDOCX,
}

var kindByExt = map[string]Kind{
	".pdf":  KindPDF,
	".doc":  KindDOC,
	".docx": KindDOCX,
}

// ContentType is the canonical MIME type reported for a kind.
func (k Kind) ContentType() string {
	switch k {
	case KindPDF:
		return MIMEPDF
	case KindDOC:
		return MIMEDOC
	case KindDOCX:
		return MIMEDOCX
	}
	return ""
}

type Result struct {
	Pages       int
	Kind        Kind
	ContentType string
}

// Detect classifies content by its leading bytes, then by the extension of
// filename when sniffing does not yield a supported document type.
func Detect(content []byte, filename string) (Kind, error) {
	mime := mimetype.Detect(content)
	for m := mime; m != nil; m = m.Parent() {
		if kind, ok := kindByMIME[m.String()]; ok {
			return kind, nil
		}
	}

	if kind, ok := kindByExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return kind, nil
	}

	return "", ErrUnsupportedFileType
}

// Estimate returns the page count for content. The result is always at
// least one page.
func Estimate(content []byte, filename string) (Result, error) {
	kind, err := Detect(content, filename)
	if err != nil {
		return Result{}, err
	}

	var pages int
	switch kind {
	case KindPDF:
		pages, err = countPDFPages(content)
	case KindDOCX:
		pages = estimateDOCXPages(content)
	case KindDOC:
		pages = estimateDOCPages(len(content))
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Pages:       max(1, pages),
		Kind:        kind,
		ContentType: kind.ContentType(),
	}, nil
}
