package service

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	// fallbackFontSize applies to glyphs drawn without a usable size.
	fallbackFontSize = 10.0

	// averageGlyphWidth estimates a glyph's advance, in ems, for fonts
	// that ship no width metrics.
	averageGlyphWidth = 0.6
)

// PDFProcessor turns a PDF into one text block per page, lines separated by
// "\n". Pages without text come back as "".
type PDFProcessor interface {
	ExtractPages(pdfData []byte, password string) ([]string, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) ExtractPages(pdfData []byte, password string) (pages []string, err error) {
	// both pdf libraries panic on some malformed input
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty pdf")
	}

	// ledongthuc/pdf has no password support; decrypt with pdfcpu first
	if password != "" {
		pdfData, err = decrypt(pdfData, password)
		if err != nil {
			return nil, err
		}
	}

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	totalPage := r.NumPage()
	pages = make([]string, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.Join(pageLines(page.Content().Text), "\n"))
	}
	return pages, nil
}

type textLine struct {
	y      float64
	glyphs []pdf.Text
}

// pageLines groups glyphs into lines by baseline, top to bottom, and each
// line left to right.
func pageLines(texts []pdf.Text) []string {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || t.S == "\n" {
			continue
		}
		glyphs = append(glyphs, t)
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Y > glyphs[j].Y
	})

	var lines []*textLine
	for _, g := range glyphs {
		if n := len(lines); n > 0 && math.Abs(lines[n-1].y-g.Y) <= baselineTolerance(g) {
			lines[n-1].glyphs = append(lines[n-1].glyphs, g)
			continue
		}
		lines = append(lines, &textLine{y: g.Y, glyphs: []pdf.Text{g}})
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		sort.SliceStable(l.glyphs, func(a, b int) bool {
			return l.glyphs[a].X < l.glyphs[b].X
		})
		out[i] = joinGlyphs(l.glyphs)
	}
	return out
}

func baselineTolerance(g pdf.Text) float64 {
	return math.Max(1, fontSize(g)*0.2)
}

// joinGlyphs concatenates glyphs, inserting a space where the gap after the
// previous glyph is wider than a fraction of its font size.
func joinGlyphs(glyphs []pdf.Text) string {
	var sb strings.Builder
	lastSpace := true
	for i, g := range glyphs {
		space := g.S == " "
		if i > 0 && !lastSpace && !space && wordGap(glyphs[i-1], g) {
			sb.WriteString(" ")
		}
		sb.WriteString(g.S)
		lastSpace = strings.HasSuffix(g.S, " ")
	}
	return sb.String()
}

func wordGap(prev, cur pdf.Text) bool {
	size := fontSize(prev)
	width, threshold := prev.W, size*0.15
	if width <= 0 {
		// no width metrics: every glyph of a run shares one X
		width = size * averageGlyphWidth * float64(utf8.RuneCountInString(prev.S))
		threshold = size * 0.3
	}
	return cur.X-(prev.X+width) > threshold
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return fallbackFontSize
}

func decrypt(pdfData []byte, password string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(pdfData), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to decrypt pdf: %w", err)
	}
	return out.Bytes(), nil
}
