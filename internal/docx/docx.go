// Package docx converts between WordprocessingML binaries and a plain HTML
// rendering. It covers the structure the preview needs (paragraphs, runs,
// line breaks), not the whole OOXML surface.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
)

const documentPath = "word/document.xml"

// RenderHTML renders a .docx binary into HTML: one <p> per paragraph, <br>
// for explicit line breaks, text escaped. Formatting runs are flattened to
// their text content.
func RenderHTML(docxBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", fmt.Errorf("not a word document: %w", err)
	}
	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == documentPath {
			docXML, err = f.Open()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("word document has no %s", documentPath)
	}
	defer docXML.Close()

	var (
		out       strings.Builder
		paragraph strings.Builder
		inText    bool
	)
	flush := func() {
		out.WriteString("<p>")
		out.WriteString(paragraph.String())
		out.WriteString("</p>")
		paragraph.Reset()
	}

	dec := xml.NewDecoder(docXML)
	depth := 0 // nesting depth of w:p elements, tables nest paragraphs
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing word document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depth++
			case "t":
				inText = true
			case "br", "cr":
				paragraph.WriteString("<br>")
			case "tab":
				paragraph.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if depth > 0 {
					depth--
				}
				if depth == 0 {
					flush()
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				paragraph.WriteString(html.EscapeString(string(t)))
			}
		}
	}
	if paragraph.Len() > 0 {
		flush()
	}
	return out.String(), nil
}

// Export serializes HTML (as produced by RenderHTML, possibly edited) back
// into a minimal .docx binary. Tags other than paragraph and line breaks are
// stripped; their text survives.
func Export(htmlContent string) ([]byte, error) {
	var doc strings.Builder
	doc.WriteString(xml.Header)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, para := range splitParagraphs(htmlContent) {
		doc.WriteString("<w:p><w:r>")
		for i, line := range strings.Split(para, "\n") {
			if i > 0 {
				doc.WriteString("<w:br/>")
			}
			doc.WriteString(`<w:t xml:space="preserve">`)
			if err := xml.EscapeText(&doc, []byte(line)); err != nil {
				return nil, err
			}
			doc.WriteString("</w:t>")
		}
		doc.WriteString("</w:r></w:p>")
	}
	doc.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{documentPath, doc.String()},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, f.content); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// splitParagraphs extracts paragraph texts from HTML. <p> boundaries split
// paragraphs, <br> becomes a newline within one, all other tags are dropped.
func splitParagraphs(htmlContent string) []string {
	normalized := htmlContent
	for _, br := range []string{"<br>", "<br/>", "<br />"} {
		normalized = strings.ReplaceAll(normalized, br, "\n")
	}

	var (
		paras   []string
		current strings.Builder
		inTag   bool
		tag     strings.Builder
	)
	endParagraph := func() {
		text := html.UnescapeString(current.String())
		if strings.TrimSpace(text) != "" {
			paras = append(paras, text)
		}
		current.Reset()
	}
	for _, r := range normalized {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			name := strings.ToLower(strings.TrimSpace(tag.String()))
			if name == "/p" || name == "p" || strings.HasPrefix(name, "p ") {
				endParagraph()
			}
		case inTag:
			tag.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	endParagraph()
	return paras
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
