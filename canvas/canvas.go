// Package canvas adapts a pcd8544 display to the tinygo drivers.Displayer
// interface, so tinyfont and the other tinygo drawing helpers can render on
// it.
//
// Pixels are collected in an image1bit.VerticalLSB page buffer and only sent
// to the display on Display.
package canvas

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*Canvas)(nil)

// Canvas is an off-screen page buffer in front of a display.Drawer.
type Canvas struct {
	dst display.Drawer
	img *image1bit.VerticalLSB

	// dirty is the area touched since the last Display.
	dirty image.Rectangle
}

// New returns a blank canvas covering the bounds of dst.
func New(dst display.Drawer) *Canvas {
	return &Canvas{
		dst: dst,
		img: image1bit.NewVerticalLSB(dst.Bounds()),
	}
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	r := c.img.Bounds()
	return int16(r.Dx()), int16(r.Dy())
}

// SetPixel implements drivers.Displayer.
//
// Pixels with any visible intensity turn the LCD segment on. Coordinates
// outside the canvas are ignored.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(c.img.Rect) {
		return
	}
	c.img.SetBit(p.X, p.Y, on(col))
	c.dirty = c.dirty.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
}

// FillScreen sets every pixel of the canvas.
func (c *Canvas) FillScreen(col color.RGBA) {
	v := byte(0x00)
	if on(col) {
		v = 0xFF
	}
	for i := range c.img.Pix {
		c.img.Pix[i] = v
	}
	c.dirty = c.img.Rect
}

// Display implements drivers.Displayer. It sends the area modified since the
// previous call.
func (c *Canvas) Display() error {
	if c.dirty.Empty() {
		return nil
	}
	if err := c.dst.Draw(c.dirty, c.img, c.dirty.Min); err != nil {
		return err
	}
	c.dirty = image.Rectangle{}
	return nil
}

// Image returns the backing page buffer.
func (c *Canvas) Image() *image1bit.VerticalLSB {
	return c.img
}

func on(col color.RGBA) image1bit.Bit {
	return image1bit.BitModel.Convert(col).(image1bit.Bit)
}
