package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/wgomg/versa/internal/utils"
)

// ReadPoem loads poem text from a .txt, .md or .pdf file.
func ReadPoem(path string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", "":
		text, err = readText(path)
	case ".pdf":
		text, err = readPDF(path)
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	text = utils.NormalizeLines(text)
	if text == "" {
		return "", fmt.Errorf("no poem text found in %s", path)
	}
	return text, nil
}

func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(b), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
