// Package pcd8544 controls a PCD8544 LCD via SPI.
//
// The PCD8544 is the monochrome controller of the Nokia 5110 and 3310
// displays: 84×48 pixels, driven over a write-only serial bus.
// This driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 1-bit monochrome, 84 columns by 6 pages of 8 pixels
// - Page addressing: a byte written is a vertical strip of 8 pixels, least
// significant bit at the top, and the column pointer advances after each byte
// - No read back: the driver cannot know what is on the glass
// - Adjustable contrast (operating voltage), temperature coefficient and bias
// - Display inversion and power-down
//
// # Hardware Connection
//
// Connect the PCD8544 module to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	CLK         → SPI Clock (SCLK)
//	DIN         → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CE          → SPI Chip Select
//	RST         → Optional: GPIO for hardware reset
//	BL          → Optional: GPIO for the backlight
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/flavioheleno/pcd8544"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//		b, err := spireg.Open("")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer b.Close()
//
//		opts := pcd8544.DefaultOpts
//		opts.RST = gpioreg.ByName("GPIO25")
//		dev, err := pcd8544.NewSPI(b, gpioreg.ByName("GPIO24"), &opts)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		dev.Clear()
//		dev.DrawText(0, 0, "HELLO")
//	}
//
// # Reset Pin
//
// When Opts.RST is set the driver pulls it low for 100ms then high for 100ms
// before configuring the controller. Without it the module relies on its
// power-on reset.
//
// # Text
//
// DrawText uses the 5x7 font of the font5x7 package with a pitch of 6
// columns, so a page holds up to 14 characters. The font only covers ' '
// through 'R'; other characters are drawn as '?'. Text is cut, not wrapped,
// and DrawText returns how many characters were drawn.
//
// For other fonts render into an image and use Draw, or use the canvas
// package with tinyfont.
//
// # Bitmaps
//
// DrawBitmap takes width columns for each page, page after page, which is the
// layout of image1bit.VerticalLSB.Pix:
//
//	smiley := []byte{0x3E, 0x42, 0xA9, 0xBD, 0xBD, 0xA9, 0x42, 0x3E}
//	dev.DrawBitmap(38, 2, smiley, 8, 1)
//
// # Errors
//
// Positions outside the display are skipped: SetCursor reports them as a
// *BoundsError while the drawing methods silently clip. DrawBitmap rejects a
// bitmap shorter than its declared size with a *BoundsError before sending
// anything. Bus and pin failures are always returned as a *TransportError.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/Monochrome/Nokia5110.pdf
package pcd8544
