package estimator

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Layout constants approximate an A4 page at default Word formatting.
const (
	wordsPerLine       = 13
	paragraphSpacing   = 0.5
	tableRowLines      = 1.2
	tableOverheadLines = 2
	imageLines         = 4
	linesPerPage       = 54
	layoutCorrection   = 1.1

	charsPerPage   = 2500
	tablePageShare = 0.3
	bytesPerPage   = 40960

	maxDocumentXML = 64 << 20
)

type docxParagraph struct {
	text   string
	images int
}

// docxBody holds the top-level blocks of word/document.xml. Paragraphs
// nested in tables count towards their table's rows only.
type docxBody struct {
	paragraphs []docxParagraph
	tableRows  []int
}

func (b docxBody) empty() bool {
	return len(b.paragraphs) == 0 && len(b.tableRows) == 0
}

func estimateDOCXPages(content []byte) int {
	documentXML, err := readDocumentXML(content)
	if err != nil {
		return estimateFromSize(len(content))
	}

	body, err := scanBody(documentXML, true)
	if err == nil {
		return body.layoutPages()
	}

	body, err = scanBody(documentXML, false)
	if err != nil && body.empty() {
		return estimateFromSize(len(content))
	}
	return body.textPages()
}

func readDocumentXML(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	f, err := zr.Open("word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("open document part: %w", err)
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxDocumentXML))
}

// scanBody walks the document part token by token. A non-strict scan keeps
// whatever it collected before the first error.
func scanBody(documentXML []byte, strict bool) (docxBody, error) {
	dec := xml.NewDecoder(bytes.NewReader(documentXML))
	dec.Strict = strict

	var (
		body      docxBody
		stack     []xml.Name
		text      strings.Builder
		para      *docxParagraph
		paraDepth int
		inText    bool
		rows      = -1
		tblDepth  int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return body, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parentIsBody := len(stack) > 0 && stack[len(stack)-1].Local == "body"
			switch {
			case parentIsBody && t.Name.Local == "p":
				para = &docxParagraph{}
				paraDepth = len(stack)
				text.Reset()
			case parentIsBody && t.Name.Local == "tbl":
				rows = 0
				tblDepth = len(stack)
			case rows >= 0 && t.Name.Local == "tr" && len(stack) == tblDepth+1:
				rows++
			case para != nil && t.Name.Local == "t" && t.Name.Space == wordprocessingNS:
				inText = true
			case para != nil && t.Name.Local == "blip":
				para.images++
			}
			stack = append(stack, t.Name)

		case xml.EndElement:
			if len(stack) == 0 {
				return body, fmt.Errorf("unbalanced element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
			switch {
			case para != nil && len(stack) == paraDepth:
				para.text = text.String()
				body.paragraphs = append(body.paragraphs, *para)
				para = nil
			case rows >= 0 && len(stack) == tblDepth:
				body.tableRows = append(body.tableRows, rows)
				rows = -1
			case inText && t.Name.Local == "t":
				inText = false
			}

		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	return body, nil
}

func (b docxBody) layoutPages() int {
	var lines float64
	for _, p := range b.paragraphs {
		lines += float64(p.images * imageLines)
		if strings.TrimSpace(p.text) == "" {
			continue
		}
		words := len(strings.Fields(p.text))
		lines += float64(max(1, words/wordsPerLine)) + paragraphSpacing
	}
	for _, rows := range b.tableRows {
		lines += float64(rows)*tableRowLines + tableOverheadLines
	}

	pages := math.Max(1, lines/linesPerPage)
	return max(1, int(math.Floor(pages*layoutCorrection)))
}

func (b docxBody) textPages() int {
	texts := make([]string, len(b.paragraphs))
	for i, p := range b.paragraphs {
		texts[i] = p.text
	}
	chars := utf8.RuneCountInString(strings.Join(texts, "\n"))

	pages := max(1, chars/charsPerPage)
	return pages + int(math.Floor(float64(len(b.tableRows))*tablePageShare))
}

func estimateFromSize(size int) int {
	return max(1, size/bytesPerPage)
}
