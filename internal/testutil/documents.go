package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// PDF builds a minimal well-formed PDF with the given number of blank pages.
func PDF(pages int) []byte {
	var objects []string
	kids := make([]string, pages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	)
	for range pages {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

const docxNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"`

// DOCX assembles a Word document body block by block.
type DOCX struct {
	body strings.Builder
}

func NewDOCX() *DOCX {
	return &DOCX{}
}

// Paragraph adds a body paragraph. Text is written verbatim, so callers
// may inject raw markup.
func (d *DOCX) Paragraph(text string) *DOCX {
	fmt.Fprintf(&d.body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, text)
	return d
}

// Image adds a paragraph holding one inline picture.
func (d *DOCX) Image() *DOCX {
	d.body.WriteString(`<w:p><w:r><w:drawing><wp:inline><a:graphic><a:graphicData>` +
		`<a:blip r:embed="rId1"/></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)
	return d
}

// Table adds a one-column table whose cells each hold cellText.
func (d *DOCX) Table(rows int, cellText string) *DOCX {
	d.body.WriteString("<w:tbl>")
	for range rows {
		fmt.Fprintf(&d.body, `<w:tr><w:tc><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:tc></w:tr>`, cellText)
	}
	d.body.WriteString("</w:tbl>")
	return d
}

func (d *DOCX) DocumentXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + docxNamespaces + `><w:body>` + d.body.String() + `</w:body></w:document>`
}

func (d *DOCX) Bytes() []byte {
	return ZipParts(map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"word/document.xml": d.DocumentXML(),
	})
}

// ZipParts writes parts into a zip archive, content types first.
func ZipParts(parts map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	if ct, ok := parts["[Content_Types].xml"]; ok {
		write("[Content_Types].xml", ct)
	}
	for name, content := range parts {
		if name != "[Content_Types].xml" {
			write(name, content)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Words returns n space separated words.
func Words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}
