package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFImporter 提取 PDF 的纯文本，每页内按空行切分段落。
type PDFImporter struct{}

func (p *PDFImporter) Import(r io.Reader, filename string) (*Imported, error) {
	tmp, size, err := spoolToTemp(r, "oshirase-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	reader, err := pdflib.NewReader(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc := &Imported{}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
			doc.add(para)
		}
	}
	return doc, nil
}
