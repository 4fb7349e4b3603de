// Package shoppinglist lays an aggregated shopping list out on fixed-size
// pages and renders it as PDF.
package shoppinglist

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pageza/foodgram/backend/internal/types"
)

// FileName is the base name of the downloaded document
const FileName = "shopping_list"

// EmptyText is drawn in place of the list when there is nothing to buy
const EmptyText = "No items"

const fontFamily = "body"

// DejaVu Sans covers Latin and Cyrillic ingredient names
//
//go:embed fonts/DejaVuSansCondensed.ttf
var defaultFont []byte

// Layout is the page geometry in millimetres
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	Left         float64
	TitleY       float64
	ListTop      float64
	LineHeight   float64
	BottomMargin float64
	// ColumnOffset is the distance from the first column to the second
	ColumnOffset float64
	TitleSize    float64
	FontSize     float64
	Title        string
	// FontPath optionally replaces the embedded font with another TTF file
	FontPath string
}

// DefaultLayout is A4 portrait with two list columns
func DefaultLayout() Layout {
	return Layout{
		PageWidth:    210,
		PageHeight:   297,
		Left:         20,
		TitleY:       20,
		ListTop:      35,
		LineHeight:   8,
		BottomMargin: 20,
		ColumnOffset: 95,
		TitleSize:    16,
		FontSize:     12,
		Title:        "Shopping list",
	}
}

// Placement is where one line of text goes
type Placement struct {
	Page   int
	Column int
	X      float64
	Y      float64
	Text   string
}

// Renderer draws one document. Build a new one per document.
type Renderer struct {
	layout   Layout
	compress bool
}

func NewRenderer(layout Layout) *Renderer {
	return &Renderer{layout: layout, compress: true}
}

// Line formats one aggregation group as "<name> <amount> <unit>"
func Line(item types.ShoppingItem) string {
	return fmt.Sprintf("%s %d %s", item.Name, item.TotalAmount, item.Unit)
}

// Plan places every item. A column ends once the cursor passes the bottom
// margin; the second column continues at ColumnOffset, and after it a new
// page starts back at the first column's origin. The title is only drawn on
// the first page and is not part of the plan.
func (r *Renderer) Plan(items []types.ShoppingItem) []Placement {
	l := r.layout
	if len(items) == 0 {
		return []Placement{{X: l.Left, Y: l.ListTop, Text: EmptyText}}
	}

	limit := l.PageHeight - l.BottomMargin
	placements := make([]Placement, 0, len(items))
	page, column, y := 0, 0, l.ListTop
	for _, item := range items {
		if y > limit {
			if column == 0 {
				column = 1
			} else {
				page++
				column = 0
			}
			y = l.ListTop
		}
		placements = append(placements, Placement{
			Page:   page,
			Column: column,
			X:      l.Left + float64(column)*l.ColumnOffset,
			Y:      y,
			Text:   Line(item),
		})
		y += l.LineHeight
	}
	return placements
}

// pages reports how many pages the items occupy
func (r *Renderer) pages(items []types.ShoppingItem) int {
	plan := r.Plan(items)
	return plan[len(plan)-1].Page + 1
}

// Render draws the title and the planned lines and returns the PDF bytes
func (r *Renderer) Render(items []types.ShoppingItem) ([]byte, error) {
	l := r.layout
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(r.compress)
	pdf.SetTitle(l.Title, true)

	if l.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", l.FontPath)
	} else {
		pdf.AddUTF8FontFromBytes(fontFamily, "", defaultFont)
	}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", l.TitleSize)
	pdf.Text(l.Left, l.TitleY, l.Title)
	pdf.SetFont(fontFamily, "", l.FontSize)

	page := 0
	for _, p := range r.Plan(items) {
		for page < p.Page {
			pdf.AddPage()
			page++
		}
		pdf.Text(p.X, p.Y, p.Text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}
