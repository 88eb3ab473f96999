package pcd8544

import (
	"errors"
	"math"

	"github.com/flavioheleno/pcd8544/font5x7"
)

// SetCursor moves the controller write pointer to column x of page.
//
// Out of range positions send nothing and return a *BoundsError. The drawing
// methods treat that as "skip this part" rather than a failure.
func (d *Dev) SetCursor(x, page int) error {
	if d.halted {
		return ErrHalted
	}
	if x < 0 || x >= d.rect.Dx() || page < 0 || page >= d.pages {
		return &BoundsError{X: x, Page: page}
	}
	return d.sendCommands(_SETYADDR|byte(page), _SETXADDR|byte(x))
}

// blit positions the cursor at (x, page) and sends data, clipped at the right
// edge so the controller never wraps it onto the next page. Out of range
// positions send nothing.
func (d *Dev) blit(x, page int, data []byte) error {
	if err := d.SetCursor(x, page); err != nil {
		if errors.Is(err, ErrOutOfBounds) {
			return nil
		}
		return err
	}
	if n := d.rect.Dx() - x; len(data) > n {
		data = data[:n]
	}
	return d.sendData(data)
}

// Clear blanks the whole display.
func (d *Dev) Clear() error {
	if d.halted {
		return ErrHalted
	}
	zeros := make([]byte, d.rect.Dx())
	for page := 0; page < d.pages; page++ {
		if err := d.blit(0, page, zeros); err != nil {
			return err
		}
	}
	if d.next != nil {
		clear(d.next.Pix)
	}
	return nil
}

// DrawBitmap draws a page aligned bitmap with its top left corner at column x
// of page.
//
// bitmap holds width columns for each of the heightPages pages, page after
// page, each byte being a vertical strip of 8 pixels with the least
// significant bit at the top. This is the layout of image1bit.VerticalLSB.Pix.
//
// Pages below the display are skipped and columns past the right edge are
// dropped. An empty bitmap sends nothing. A bitmap shorter than
// width*heightPages bytes is rejected with a *BoundsError before anything is
// sent.
func (d *Dev) DrawBitmap(x, page int, bitmap []byte, width, heightPages int) error {
	if d.halted {
		return ErrHalted
	}
	if width < 0 || heightPages < 0 {
		return &BoundsError{X: x, Page: page}
	}
	if width == 0 || heightPages == 0 {
		return nil
	}
	if heightPages > len(bitmap)/width {
		need := math.MaxInt
		if heightPages <= math.MaxInt/width {
			need = width * heightPages
		}
		return &BoundsError{X: x, Page: page, Len: len(bitmap), Need: need}
	}
	for p := 0; p < heightPages; p++ {
		if err := d.blit(x, page+p, bitmap[p*width:(p+1)*width]); err != nil {
			return err
		}
	}
	return nil
}

// DrawChar draws c at column x of page, followed by one blank spacing column.
//
// Characters the font does not cover are drawn as font5x7.Fallback. The
// caller advances by font5x7.Pitch for the next character.
func (d *Dev) DrawChar(x, page int, c rune) error {
	if d.halted {
		return ErrHalted
	}
	var cell [font5x7.Pitch]byte
	g := font5x7.Lookup(c)
	copy(cell[:], g[:])
	return d.blit(x, page, cell[:])
}

// DrawText draws text on page starting at column x and returns the number of
// characters drawn.
//
// Text does not wrap: drawing stops before the first character that would
// not fit, that is once x + font5x7.Width reaches the display width.
func (d *Dev) DrawText(x, page int, text string) (int, error) {
	if d.halted {
		return 0, ErrHalted
	}
	if page < 0 || page >= d.pages || x < 0 {
		return 0, nil
	}
	n := 0
	for _, c := range text {
		if x+font5x7.Width >= d.rect.Dx() {
			break
		}
		if err := d.DrawChar(x, page, c); err != nil {
			return n, err
		}
		n++
		x += font5x7.Pitch
	}
	return n, nil
}
