package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calculadora-judicial/correction-service/dto"
)

// buildPDF writes a minimal PDF with one page per content stream. An empty
// stream produces a page without /Contents; missingPages adds to /Count pages
// that have no page object.
func buildPDF(t *testing.T, contents []string, missingPages int) []byte {
	t.Helper()

	widths := strings.TrimSpace(strings.Repeat("600 ", 26))
	fonts := []string{
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 65 /LastChar 90 /Widths [" + widths + "] >>",
	}

	// objects: 1 catalog, 2 page tree, 3-4 fonts, then page (+ stream) pairs
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>", "")
	objects = append(objects, fonts...)

	var kids []string
	for _, c := range contents {
		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >>"
		if c == "" {
			objects = append(objects, page+" >>")
			continue
		}
		objects = append(objects,
			fmt.Sprintf("%s /Contents %d 0 R >>", page, pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(c), c),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(contents)+missingPages)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, o := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// placeGlyphs draws each glyph with its own text matrix, the way some
// statement generators lay out text.
func placeGlyphs(font string, y float64, glyphs string, xs []float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BT /%s 12 Tf ", font)
	for i, g := range glyphs {
		fmt.Fprintf(&sb, "1 0 0 1 %.3f %.1f Tm (%c) Tj ", xs[i], y, g)
	}
	sb.WriteString("ET")
	return sb.String()
}

const runsPage = "BT /F1 12 Tf 72 720 Td (CARTAO CONSIGNADO 150,00) Tj 0 -14 Td (EMPRESTIMO 1.234,56) Tj ET"

// Helvetica advances for C A R T A O at 12pt; the font dict carries no widths.
var helveticaCartao = []float64{72, 80.664, 88.668, 97.332, 104.664, 112.668}

func glyphPage() string {
	return placeGlyphs("F1", 700, "CARTAO", helveticaCartao) +
		"\nBT /F1 12 Tf 1 0 0 1 200 700 Tm (150,00) Tj ET"
}

func TestExtractPages(t *testing.T) {
	monospaced := placeGlyphs("F2", 650, "SEBRA", []float64{72, 79.2, 86.4, 93.6, 100.8}) +
		"\nBT /F2 12 Tf 1 0 0 1 120 650 Tm (TARIFA) Tj ET"

	data := buildPDF(t, []string{runsPage, glyphPage(), monospaced, ""}, 1)

	pages, err := NewPDFProcessor().ExtractPages(data, "")
	require.NoError(t, err)
	require.Len(t, pages, 5)

	assert.Equal(t, "CARTAO CONSIGNADO 150,00\nEMPRESTIMO 1.234,56", pages[0])
	assert.Equal(t, "CARTAO 150,00", pages[1])
	assert.Equal(t, "SEBRA TARIFA", pages[2])
	assert.Equal(t, "", pages[3], "page without contents")
	assert.Equal(t, "", pages[4], "page missing from the tree")
}

func TestExtractPagesFeedsEngines(t *testing.T) {
	header := "BT /F1 12 Tf 72 760 Td (COMPETENCIA/PERIODO) Tj 0 -14 Td (01/2023) Tj ET\n"
	data := buildPDF(t, []string{header + glyphPage()}, 0)

	svc := NewCalculationService(NewPDFProcessor())
	req := newRequest(dto.DocTypeINSS, "cartao")
	req.Statement = data

	res, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	recs := res.Results.Records("CARTAO")
	require.Len(t, recs, 1)
	assert.Equal(t, "01/2023", recs[0].Competence)
	assert.Equal(t, "157.5", recs[0].CorrectedValue.String())
}

func TestExtractPagesErrors(t *testing.T) {
	p := NewPDFProcessor()

	_, err := p.ExtractPages(nil, "")
	assert.Error(t, err)

	_, err = p.ExtractPages([]byte("definitely not a pdf"), "")
	assert.Error(t, err)

	_, err = p.ExtractPages([]byte("definitely not a pdf"), "secret")
	assert.Error(t, err)
}

func TestJoinGlyphs(t *testing.T) {
	tests := []struct {
		name   string
		glyphs []pdf.Text
		want   string
	}{
		{"empty", nil, ""},
		{
			"adjacent with widths",
			[]pdf.Text{{S: "A", X: 10, W: 6, FontSize: 10}, {S: "B", X: 16, W: 6, FontSize: 10}},
			"AB",
		},
		{
			"gap with widths",
			[]pdf.Text{{S: "A", X: 10, W: 6, FontSize: 10}, {S: "B", X: 19, W: 6, FontSize: 10}},
			"A B",
		},
		{
			"explicit space kept once",
			[]pdf.Text{{S: "A", X: 10, W: 6, FontSize: 10}, {S: " ", X: 16, W: 3, FontSize: 10}, {S: "B", X: 40, W: 6, FontSize: 10}},
			"A B",
		},
		{
			"no widths, shared position",
			[]pdf.Text{{S: "1", X: 10, FontSize: 12}, {S: "0", X: 10, FontSize: 12}},
			"10",
		},
		{
			"no widths, distant run",
			[]pdf.Text{{S: "O", X: 10, FontSize: 12}, {S: "1", X: 60, FontSize: 12}},
			"O 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinGlyphs(tt.glyphs))
		})
	}
}

func TestPageLinesGroupsByBaseline(t *testing.T) {
	lines := pageLines([]pdf.Text{
		{S: "B", X: 20, Y: 700.4, W: 6, FontSize: 10},
		{S: "X", X: 10, Y: 680, W: 6, FontSize: 10},
		{S: "A", X: 14, Y: 700, W: 6, FontSize: 10},
		{S: "\n", X: 0, Y: 700},
	})
	assert.Equal(t, []string{"AB", "X"}, lines)
}
