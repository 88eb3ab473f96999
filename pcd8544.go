// Package pcd8544 controls a PCD8544 (Nokia 5110/3310) LCD via SPI.
//
// The PCD8544 is a 48x84 monochrome controller. Its RAM is organized in
// pages: horizontal bands of 8 pixels, where each byte written is one
// vertical strip of 8 pixels, least significant bit at the top.
//
// See the examples for how to use this package.
package pcd8544

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	// MaxWidth is the number of columns of the controller RAM.
	MaxWidth = 84
	// MaxHeight is the number of rows of the controller RAM.
	MaxHeight = 48
	// PageHeight is the number of pixel rows covered by one page.
	PageHeight = 8
)

const (
	_FUNCTIONSET     = 0x20
	_EXTENDED        = 0x01 // H bit of function set
	_POWERDOWN       = 0x04 // PD bit of function set
	_DISPLAYNORMAL   = 0x0C
	_DISPLAYINVERTED = 0x0D
	_SETYADDR        = 0x40
	_SETXADDR        = 0x80

	// Extended instruction set.
	_SETTEMPCOEFF = 0x04
	_SETBIAS      = 0x10
	_SETVOP       = 0x80
)

var _ display.Drawer = (*Dev)(nil)

// resetDelay is held after each edge of the reset pulse.
const resetDelay = 100 * time.Millisecond

// sleep is replaced in tests.
var sleep = time.Sleep

// DefaultOpts is the configuration of the common 84x48 module.
var DefaultOpts = Opts{
	W:         MaxWidth,
	H:         MaxHeight,
	Contrast:  0x40,
	TempCoeff: 3,
	Bias:      3,
}

// Opts is the configuration for the PCD8544 display.
//
// Start from DefaultOpts and override what differs: Contrast 0 is a valid,
// very faint, operating voltage.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 84, must be ≤84)
	H int // Height (default: 48, must be a multiple of 8 and ≤48)

	// Contrast is the operating voltage Vop, 0 to 0x7F. The init sequence
	// sends 0x80|Contrast.
	Contrast byte
	// TempCoeff is the temperature coefficient, 0 to 3.
	TempCoeff byte
	// Bias is the bias system, 0 to 7. 3 selects 1:48, the usual value.
	Bias byte

	// Optional control pins
	RST gpio.PinOut // Reset pin (optional, nil if not used)
	BL  gpio.PinOut // Backlight enable (optional, nil if not used)
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W > MaxWidth {
		return fmt.Errorf("pcd8544: width must be between 1 and %d", MaxWidth)
	}
	if o.H < PageHeight || o.H > MaxHeight || o.H%PageHeight != 0 {
		return fmt.Errorf("pcd8544: height must be a multiple of %d between %d and %d", PageHeight, PageHeight, MaxHeight)
	}
	if o.Contrast > 0x7F {
		return errors.New("pcd8544: contrast must be ≤0x7F")
	}
	if o.TempCoeff > 3 {
		return errors.New("pcd8544: temperature coefficient must be ≤3")
	}
	if o.Bias > 7 {
		return errors.New("pcd8544: bias must be ≤7")
	}
	return nil
}

// Dev is the device handle for the PCD8544 display.
//
// The driver keeps no copy of the screen for text and bitmap operations:
// every call positions the controller cursor and streams bytes. Dev is not
// safe for concurrent use.
type Dev struct {
	// Communication
	c   conn.Conn   // SPI connection
	dc  gpio.PinOut // Data/Command pin
	rst gpio.PinOut // Reset pin (optional)
	bl  gpio.PinOut // Backlight pin (optional)

	// Display geometry
	rect  image.Rectangle
	pages int

	// Controller settings, replayed by Resume
	contrast  byte
	tempCoeff byte
	bias      byte
	inverted  bool

	// next is lazy initialized on first Draw().
	next *image1bit.VerticalLSB

	// State
	halted bool
}

// NewSPI creates a new PCD8544 device connected via SPI.
//
// The SPI port is configured for 4MHz, the controller maximum, Mode0 and
// 8-bit transfers. The dc (Data/Command) GPIO pin must be provided; 3-wire
// mode is not supported by the controller.
//
// opts can be nil to use DefaultOpts.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("pcd8544: dc pin is required")
	}
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("pcd8544: %w", err)
	}
	return newDev(c, dc, opts)
}

// newDev builds the device on an established connection and sends the
// initialization sequence. opts must already be validated.
func newDev(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	d := &Dev{
		c:         c,
		dc:        dc,
		rst:       opts.RST,
		bl:        opts.BL,
		rect:      image.Rect(0, 0, opts.W, opts.H),
		pages:     opts.H / PageHeight,
		contrast:  opts.Contrast,
		tempCoeff: opts.TempCoeff,
		bias:      opts.Bias,
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init turns the backlight on, pulses reset and configures the controller.
func (d *Dev) init() error {
	if d.bl != nil {
		if err := d.bl.Out(gpio.High); err != nil {
			return &TransportError{Op: "backlight on", Err: err}
		}
	}

	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return &TransportError{Op: "pull RST low", Err: err}
		}
		sleep(resetDelay)

		if err := d.rst.Out(gpio.High); err != nil {
			return &TransportError{Op: "pull RST high", Err: err}
		}
		sleep(resetDelay)
	}

	return d.sendCommands(d.initCommands()...)
}

// initCommands is the configuration sequence, in the order the controller
// expects it.
func (d *Dev) initCommands() []byte {
	return []byte{
		_FUNCTIONSET | _EXTENDED,    // Extended instruction set
		_SETVOP | d.contrast,        // Operating voltage (contrast)
		_SETTEMPCOEFF | d.tempCoeff, // Temperature coefficient
		_SETBIAS | d.bias,           // Bias system
		_FUNCTIONSET,                // Basic instruction set
		d.displayMode(),             // Normal or inverted display
	}
}

func (d *Dev) displayMode() byte {
	if d.inverted {
		return _DISPLAYINVERTED
	}
	return _DISPLAYNORMAL
}

// sendCommands sends command bytes with DC low.
func (d *Dev) sendCommands(cmds ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return &TransportError{Op: "select command mode", Err: err}
	}
	if err := d.c.Tx(cmds, nil); err != nil {
		return &TransportError{Op: "send command", Err: err}
	}
	return nil
}

// sendData sends pixel bytes with DC high. Empty writes are skipped.
func (d *Dev) sendData(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return &TransportError{Op: "select data mode", Err: err}
	}
	if err := d.c.Tx(data, nil); err != nil {
		return &TransportError{Op: "send data", Err: err}
	}
	return nil
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// src is rendered into an off-screen page buffer and only the pages and
// columns covered by dst are sent. The buffer only tracks what went through
// Draw and Write; text and bitmaps drawn with the other methods are
// overwritten where dst overlaps them.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}

	// Fast path: full frame already in controller format.
	if img, ok := src.(*image1bit.VerticalLSB); ok && dst == d.rect && img.Rect == d.rect && sp == (image.Point{}) {
		_, err := d.Write(img.Pix)
		return err
	}

	clipped := dst.Intersect(d.rect)
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(dst.Min))
	dst = clipped

	if d.next == nil {
		d.next = image1bit.NewVerticalLSB(d.rect)
	}
	draw.Src.Draw(d.next, dst, src, sp)

	first := dst.Min.Y / PageHeight
	last := (dst.Max.Y + PageHeight - 1) / PageHeight
	for page := first; page < last; page++ {
		row := d.next.Pix[page*d.next.Stride:]
		if err := d.blit(dst.Min.X, page, row[dst.Min.X:dst.Max.X]); err != nil {
			return err
		}
	}
	return nil
}

// Write writes a full frame in image1bit.VerticalLSB layout: one byte per
// column per page, pages top to bottom. The data must be exactly
// W * H / 8 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, ErrHalted
	}
	w := d.rect.Dx()
	if len(pixels) != w*d.pages {
		return 0, fmt.Errorf("pcd8544: invalid pixel stream length; expected %d bytes, got %d bytes", w*d.pages, len(pixels))
	}
	for page := 0; page < d.pages; page++ {
		if err := d.blit(0, page, pixels[page*w:(page+1)*w]); err != nil {
			return 0, err
		}
	}
	if d.next == nil {
		d.next = image1bit.NewVerticalLSB(d.rect)
	}
	copy(d.next.Pix, pixels)
	return len(pixels), nil
}

// SetContrast sets the operating voltage Vop (0-0x7F).
func (d *Dev) SetContrast(vop byte) error {
	if d.halted {
		return ErrHalted
	}
	if vop > 0x7F {
		return errors.New("pcd8544: contrast must be ≤0x7F")
	}
	if err := d.sendCommands(_FUNCTIONSET|_EXTENDED, _SETVOP|vop, _FUNCTIONSET); err != nil {
		return err
	}
	d.contrast = vop
	return nil
}

// Invert inverts the display (black on white vs white on black).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return ErrHalted
	}
	mode := byte(_DISPLAYNORMAL)
	if invert {
		mode = _DISPLAYINVERTED
	}
	if err := d.sendCommands(mode); err != nil {
		return err
	}
	d.inverted = invert
	return nil
}

// Backlight switches the backlight. It is a no-op when no BL pin was given.
func (d *Dev) Backlight(on bool) error {
	if d.bl == nil {
		return nil
	}
	l := gpio.Low
	if on {
		l = gpio.High
	}
	if err := d.bl.Out(l); err != nil {
		return &TransportError{Op: "backlight", Err: err}
	}
	return nil
}

// Halt puts the controller in power-down mode.
//
// The display RAM is kept. Drawing operations fail with ErrHalted until
// Resume is called.
func (d *Dev) Halt() error {
	if err := d.sendCommands(_FUNCTIONSET | _POWERDOWN); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// Resume leaves power-down mode and replays the controller configuration.
func (d *Dev) Resume() error {
	if err := d.sendCommands(d.initCommands()...); err != nil {
		return err
	}
	d.halted = false
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("pcd8544.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
