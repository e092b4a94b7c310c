package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/pkg/errors"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

// WriteEPUB renders the ebook as an EPUB 3 archive. Skipped and empty
// chapters are left out; at least one chapter must have written content.
func WriteEPUB(w io.Writer, ebook *models.Ebook) error {
	chapters := includedChapters(ebook)
	if len(chapters) == 0 {
		return errors.New("ebook has no written chapters to export")
	}

	zw := zip.NewWriter(w)

	// The mimetype entry must come first and must be stored uncompressed.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := mt.Write([]byte("application/epub+zip")); err != nil {
		return errors.WithStack(err)
	}

	if err := writeZipEntry(zw, "META-INF/container.xml", []byte(containerXML)); err != nil {
		return err
	}

	opf, err := buildOPF(ebook, chapters)
	if err != nil {
		return err
	}
	if err := writeZipEntry(zw, "OEBPS/content.opf", opf); err != nil {
		return err
	}

	if err := writeZipEntry(zw, "OEBPS/nav.xhtml", buildNav(ebook, chapters)); err != nil {
		return err
	}

	for i, ch := range chapters {
		name := fmt.Sprintf("OEBPS/chapter_%03d.xhtml", i+1)
		if err := writeZipEntry(zw, name, buildChapterXHTML(ch)); err != nil {
			return err
		}
	}

	return errors.WithStack(zw.Close())
}

func includedChapters(ebook *models.Ebook) []*models.Chapter {
	if ebook.Outline == nil {
		return nil
	}
	chapters := []*models.Chapter{}
	for _, ch := range ebook.Outline.Chapters {
		if ch.Content.HasText() {
			chapters = append(chapters, ch)
		}
	}
	return chapters
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = f.Write(data)
	return errors.WithStack(err)
}

// OPF XML structures for the package document.

type opfPackage struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XMLName    xml.Name  `xml:"metadata"`
	DC         string    `xml:"xmlns:dc,attr"`
	Identifier opfID     `xml:"dc:identifier"`
	Title      string    `xml:"dc:title"`
	Creator    string    `xml:"dc:creator,omitempty"`
	Language   string    `xml:"dc:language"`
	Meta       []opfMeta `xml:"meta"`
}

type opfID struct {
	Text string `xml:",chardata"`
	ID   string `xml:"id,attr"`
}

type opfMeta struct {
	Text     string `xml:",chardata"`
	Property string `xml:"property,attr,omitempty"`
}

type opfManifest struct {
	XMLName xml.Name          `xml:"manifest"`
	Items   []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	XMLName xml.Name       `xml:"spine"`
	Items   []opfSpineItem `xml:"itemref"`
}

type opfSpineItem struct {
	IDRef string `xml:"idref,attr"`
}

func buildOPF(ebook *models.Ebook, chapters []*models.Chapter) ([]byte, error) {
	author := ""
	if ebook.Cover != nil {
		author = ebook.Cover.AuthorName
	}

	pkg := opfPackage{
		Xmlns:            "http://www.idpf.org/2007/opf",
		Version:          "3.0",
		UniqueIdentifier: "book-id",
		Metadata: opfMetadata{
			DC:         "http://purl.org/dc/elements/1.1/",
			Identifier: opfID{Text: "urn:uuid:" + ebook.ID, ID: "book-id"},
			Title:      ebook.Title,
			Creator:    author,
			Language:   "en",
			Meta: []opfMeta{
				{Property: "dcterms:modified", Text: time.Now().UTC().Format("2006-01-02T15:04:05Z")},
			},
		},
		Manifest: opfManifest{
			Items: []opfManifestItem{
				{ID: "nav", Href: "nav.xhtml", MediaType: "application/xhtml+xml", Properties: "nav"},
			},
		},
	}

	for i := range chapters {
		id := fmt.Sprintf("chapter-%03d", i+1)
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfManifestItem{
			ID:        id,
			Href:      fmt.Sprintf("chapter_%03d.xhtml", i+1),
			MediaType: "application/xhtml+xml",
		})
		pkg.Spine.Items = append(pkg.Spine.Items, opfSpineItem{IDRef: id})
	}

	output, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return append([]byte(xml.Header), output...), nil
}

func buildNav(ebook *models.Ebook, chapters []*models.Chapter) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n")
	b.WriteString("<head><title>" + html.EscapeString(ebook.Title) + "</title></head>\n<body>\n")
	b.WriteString(`<nav epub:type="toc"><ol>` + "\n")
	for i, ch := range chapters {
		fmt.Fprintf(&b, `<li><a href="chapter_%03d.xhtml">%s</a></li>`+"\n", i+1, html.EscapeString(ch.Title))
	}
	b.WriteString("</ol></nav>\n</body>\n</html>\n")
	return []byte(b.String())
}

// buildChapterXHTML renders a chapter body. The generated content is
// markdown-flavored text; headings and paragraphs are enough structure for
// readers, so that's all we translate.
func buildChapterXHTML(ch *models.Chapter) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml">` + "\n")
	b.WriteString("<head><title>" + html.EscapeString(ch.Title) + "</title></head>\n<body>\n")
	b.WriteString("<h1>" + html.EscapeString(ch.Title) + "</h1>\n")

	for _, block := range strings.Split(ch.Content.Text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		switch {
		case strings.HasPrefix(block, "### "):
			b.WriteString("<h4>" + html.EscapeString(strings.TrimPrefix(block, "### ")) + "</h4>\n")
		case strings.HasPrefix(block, "## "):
			b.WriteString("<h3>" + html.EscapeString(strings.TrimPrefix(block, "## ")) + "</h3>\n")
		case strings.HasPrefix(block, "# "):
			b.WriteString("<h2>" + html.EscapeString(strings.TrimPrefix(block, "# ")) + "</h2>\n")
		default:
			b.WriteString("<p>" + html.EscapeString(block) + "</p>\n")
		}
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}
