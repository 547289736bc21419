// Package ui is a small immediate-mode GUI that draws into an RGBA canvas.
//
// Each frame calls Begin, issues widgets, and calls End to get the canvas.
// Widgets return their interaction result directly; there is no retained
// widget tree. Widget identity is the window title plus the label.
package ui

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	titleHeight = 18
	padding     = 6
	lineHeight  = 16
	labelWidth  = 70
	fieldGap    = 4
)

var (
	ColorText        = color.RGBA{230, 230, 230, 255}
	ColorDim         = color.RGBA{150, 150, 150, 255}
	ColorWarn        = color.RGBA{240, 200, 80, 255}
	ColorError       = color.RGBA{240, 90, 80, 255}
	colorWindow      = color.RGBA{30, 30, 34, 220}
	colorTitle       = color.RGBA{50, 70, 110, 240}
	colorHover       = color.RGBA{70, 70, 80, 255}
	colorSelected    = color.RGBA{60, 90, 150, 255}
	colorField       = color.RGBA{50, 50, 56, 255}
	colorFieldHot    = color.RGBA{80, 80, 90, 255}
	colorFieldDrag   = color.RGBA{90, 110, 160, 255}
	colorTransparent = color.RGBA{}
)

// Input is the mouse state sampled once per frame, in canvas pixels.
type Input struct {
	Width, Height  int
	MouseX, MouseY float32
	MouseDown      bool
	// MouseClicked is set when the button went down since the last frame,
	// even if it was released again before this one.
	MouseClicked bool
}

type window struct {
	title  string
	rect   image.Rectangle
	cursor int
}

type Context struct {
	canvas *image.RGBA
	face   font.Face

	in       Input
	prevDown bool
	pressed  bool
	released bool

	active     string
	dragLastX  float32
	win        *window
	windows    []image.Rectangle
	overWindow bool
}

func NewContext() *Context {
	return &Context{face: basicfont.Face7x13}
}

// Begin starts a frame. The canvas is resized to the input size and cleared.
func (c *Context) Begin(in Input) {
	if in.Width < 1 {
		in.Width = 1
	}
	if in.Height < 1 {
		in.Height = 1
	}
	if c.canvas == nil || c.canvas.Rect.Dx() != in.Width || c.canvas.Rect.Dy() != in.Height {
		c.canvas = image.NewRGBA(image.Rect(0, 0, in.Width, in.Height))
	} else {
		draw.Draw(c.canvas, c.canvas.Rect, image.NewUniform(colorTransparent), image.Point{}, draw.Src)
	}

	c.in = in
	c.pressed = in.MouseClicked || (in.MouseDown && !c.prevDown)
	c.released = !in.MouseDown && c.prevDown
	c.prevDown = in.MouseDown
	c.windows = c.windows[:0]
	c.overWindow = false
	c.win = nil
}

// End finishes the frame and returns the canvas. The image is reused by the
// next Begin.
func (c *Context) End() *image.RGBA {
	if c.win != nil {
		c.EndWindow()
	}
	if !c.in.MouseDown {
		c.active = ""
	}
	return c.canvas
}

// WantsMouse reports whether the mouse is over a window drawn this frame or
// a widget is being dragged. The viewport should ignore the mouse then.
func (c *Context) WantsMouse() bool {
	return c.overWindow || c.active != ""
}

// Captures reports whether the point lies on a window drawn in the last
// frame or a widget is being dragged. Events are dispatched before the
// frame's widgets run, so this is what routes them.
func (c *Context) Captures(x, y float32) bool {
	if c.active != "" {
		return true
	}
	p := image.Pt(int(x), int(y))
	for _, r := range c.windows {
		if p.In(r) {
			return true
		}
	}
	return false
}

// Window opens a panel. Widgets are laid out top to bottom inside it until
// EndWindow.
func (c *Context) Window(title string, rect image.Rectangle) {
	if c.win != nil {
		c.EndWindow()
	}
	c.win = &window{title: title, rect: rect, cursor: rect.Min.Y + titleHeight + padding}
	c.windows = append(c.windows, rect)
	if c.hover(rect) {
		c.overWindow = true
	}

	c.fill(rect, colorWindow)
	c.fill(image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+titleHeight), colorTitle)
	c.drawText(rect.Min.X+padding, rect.Min.Y+2, title, ColorText)
}

func (c *Context) EndWindow() {
	c.win = nil
}

func (c *Context) Text(s string) {
	c.TextColored(s, ColorText)
}

func (c *Context) Textf(format string, args ...any) {
	c.TextColored(fmt.Sprintf(format, args...), ColorText)
}

func (c *Context) TextColored(s string, col color.Color) {
	row, ok := c.nextRow()
	if !ok {
		return
	}
	c.drawText(row.Min.X, row.Min.Y+1, s, col)
}

// Separator leaves half a line of space.
func (c *Context) Separator() {
	if c.win != nil {
		c.win.cursor += lineHeight / 2
	}
}

// Selectable draws a full-width row and reports a click on it.
func (c *Context) Selectable(label string, selected bool) bool {
	row, ok := c.nextRow()
	if !ok {
		return false
	}
	hovered := c.hover(row)
	switch {
	case selected:
		c.fill(row, colorSelected)
	case hovered:
		c.fill(row, colorHover)
	}
	c.drawText(row.Min.X+2, row.Min.Y+1, label, ColorText)

	if hovered && c.pressed && c.active == "" {
		c.active = c.id(label)
		return true
	}
	return false
}

// Button reports a click.
func (c *Context) Button(label string) bool {
	row, ok := c.nextRow()
	if !ok {
		return false
	}
	width := len(label)*7 + 2*padding
	r := image.Rect(row.Min.X, row.Min.Y, min(row.Min.X+width, row.Max.X), row.Max.Y)
	hovered := c.hover(r)
	bg := colorField
	if hovered {
		bg = colorFieldHot
	}
	c.fill(r, bg)
	c.drawText(r.Min.X+padding, r.Min.Y+1, label, ColorText)

	if hovered && c.pressed && c.active == "" {
		c.active = c.id(label)
		return true
	}
	return false
}

// DragFloat3 edits three floats by dragging horizontally over one of the
// fields; each pixel adds speed. changed is set on frames that modified v,
// released on the frame a drag of this widget ends.
func (c *Context) DragFloat3(label string, v *[3]float32, speed float32) (changed, released bool) {
	row, ok := c.nextRow()
	if !ok {
		return false, false
	}
	c.drawText(row.Min.X, row.Min.Y+1, label, ColorDim)

	fieldsX := row.Min.X + labelWidth
	fieldW := (row.Max.X - fieldsX) / 3
	base := c.id(label)

	for i := 0; i < 3; i++ {
		r := image.Rect(fieldsX+i*fieldW, row.Min.Y, fieldsX+(i+1)*fieldW-fieldGap, row.Max.Y)
		id := fmt.Sprintf("%s#%d", base, i)

		if c.active == "" && c.pressed && c.hover(r) {
			c.active = id
			c.dragLastX = c.in.MouseX
		}

		bg := colorField
		if c.active == id {
			bg = colorFieldDrag
			if c.in.MouseDown {
				delta := c.in.MouseX - c.dragLastX
				if delta != 0 {
					v[i] += delta * speed
					changed = true
				}
				c.dragLastX = c.in.MouseX
			} else if c.released {
				released = true
				c.active = ""
			}
		} else if c.hover(r) {
			bg = colorFieldHot
		}

		c.fill(r, bg)
		c.drawText(r.Min.X+3, r.Min.Y+1, fmt.Sprintf("%.2f", v[i]), ColorText)
	}
	return changed, released
}

// Dragging reports whether the widget with this label in the current window
// holds the mouse.
func (c *Context) Dragging(label string) bool {
	if c.active == "" {
		return false
	}
	base := c.id(label)
	return len(c.active) > len(base) && c.active[:len(base)] == base
}

// nextRow advances the layout cursor. Rows that would overflow the window are
// skipped.
func (c *Context) nextRow() (image.Rectangle, bool) {
	if c.win == nil {
		return image.Rectangle{}, false
	}
	r := c.win.rect
	row := image.Rect(r.Min.X+padding, c.win.cursor, r.Max.X-padding, c.win.cursor+lineHeight)
	c.win.cursor += lineHeight
	if row.Max.Y > r.Max.Y-padding/2 {
		return image.Rectangle{}, false
	}
	return row, true
}

func (c *Context) id(label string) string {
	if c.win == nil {
		return label
	}
	return c.win.title + "/" + label
}

func (c *Context) hover(r image.Rectangle) bool {
	p := image.Pt(int(c.in.MouseX), int(c.in.MouseY))
	return p.In(r)
}

func (c *Context) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.canvas, r.Intersect(c.canvas.Rect), image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *Context) drawText(x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.canvas,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(x, y+c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
