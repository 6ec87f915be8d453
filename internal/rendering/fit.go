package rendering

// Page describes a sheet in millimetres.
type Page struct {
	Width  float64
	Height float64
	Margin float64
}

// A4 is a portrait A4 sheet with 10 mm margins.
var A4 = Page{Width: 210, Height: 297, Margin: 10}

// Placement is where content lands on a page, in millimetres from the top
// left corner. Scale is the factor applied to the content's own size.
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Scale  float64
}

// FitToPage scales content of the given size to the printable width of page
// keeping its aspect ratio, shrinks it further if it would run past the bottom
// margin, and centers it horizontally below the top margin.
func FitToPage(contentWidth, contentHeight float64, page Page) Placement {
	printableW := page.Width - 2*page.Margin
	printableH := page.Height - 2*page.Margin
	if contentWidth <= 0 || contentHeight <= 0 || printableW <= 0 || printableH <= 0 {
		return Placement{X: page.Margin, Y: page.Margin, Scale: 1}
	}

	ratio := contentWidth / contentHeight
	w := printableW
	h := w / ratio
	if h > printableH {
		h = printableH
		w = h * ratio
	}

	return Placement{
		X:      (page.Width - w) / 2,
		Y:      page.Margin,
		Width:  w,
		Height: h,
		Scale:  w / contentWidth,
	}
}
