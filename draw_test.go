package pcd8544

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/flavioheleno/pcd8544/font5x7"
)

var smiley = []byte{0x3E, 0x42, 0xA9, 0xBD, 0xBD, 0xA9, 0x42, 0x3E}

func TestSetCursor(t *testing.T) {
	tests := []struct {
		name    string
		x, page int
		want    []byte
	}{
		{"origin", 0, 0, []byte{0x40, 0x80}},
		{"last column", 83, 0, []byte{0x40, 0xD3}},
		{"last page", 0, 5, []byte{0x45, 0x80}},
		{"middle", 38, 2, []byte{0x42, 0xA6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, r := newTestDev(t, nil)
			if err := d.SetCursor(tt.x, tt.page); err != nil {
				t.Fatalf("SetCursor(%d, %d) error = %v", tt.x, tt.page, err)
			}
			if got := r.commands(); !bytes.Equal(got, tt.want) {
				t.Errorf("SetCursor(%d, %d) commands = % X, want % X", tt.x, tt.page, got, tt.want)
			}
			if len(r.data()) != 0 {
				t.Errorf("SetCursor sent data")
			}
		})
	}
}

func TestSetCursorOutOfRange(t *testing.T) {
	d, r := newTestDev(t, nil)
	for _, pos := range [][2]int{{84, 0}, {0, 6}, {84, 6}, {200, 0}, {-1, 0}, {0, -1}} {
		err := d.SetCursor(pos[0], pos[1])
		var be *BoundsError
		if !errors.As(err, &be) || !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetCursor(%d, %d) error = %v, want BoundsError", pos[0], pos[1], err)
			continue
		}
		if be.X != pos[0] || be.Page != pos[1] {
			t.Errorf("BoundsError = %+v, want X=%d Page=%d", be, pos[0], pos[1])
		}
	}
	if len(r.txs) != 0 {
		t.Errorf("out of range SetCursor sent %d transactions", len(r.txs))
	}
}

func TestSetCursorNarrowPanel(t *testing.T) {
	o := DefaultOpts
	o.W = 48
	o.H = 32
	d, r := newTestDev(t, &o)
	if err := d.SetCursor(48, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetCursor(48, 0) error = %v", err)
	}
	if err := d.SetCursor(0, 4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetCursor(0, 4) error = %v", err)
	}
	if len(r.txs) != 0 {
		t.Errorf("sent %d transactions", len(r.txs))
	}
}

func TestDrawCharSupported(t *testing.T) {
	for c := font5x7.First; c <= font5x7.Last; c++ {
		d, r := newTestDev(t, nil)
		if err := d.DrawChar(10, 1, c); err != nil {
			t.Fatalf("DrawChar(%q) error = %v", c, err)
		}
		var got []byte
		for _, b := range r.data() {
			got = append(got, b...)
		}
		g := font5x7.Lookup(c)
		want := append(g[:], 0x00)
		if !bytes.Equal(got, want) {
			t.Errorf("DrawChar(%q) data = % X, want % X", c, got, want)
		}
		if cmds := r.commands(); !bytes.Equal(cmds, []byte{0x41, 0x8A}) {
			t.Errorf("DrawChar(%q) commands = % X", c, cmds)
		}
	}
}

func TestDrawCharFallback(t *testing.T) {
	d, r := newTestDev(t, nil)
	if err := d.DrawChar(0, 0, font5x7.Fallback); err != nil {
		t.Fatal(err)
	}
	want := r.txs

	for _, c := range []rune{0, '\t', 31, 'S', 'z', 127, 'ñ', '€'} {
		d, r := newTestDev(t, nil)
		if err := d.DrawChar(0, 0, c); err != nil {
			t.Fatalf("DrawChar(%U) error = %v", c, err)
		}
		if len(r.txs) != len(want) {
			t.Fatalf("DrawChar(%U) sent %d transactions, want %d", c, len(r.txs), len(want))
		}
		for i := range want {
			if r.txs[i].data != want[i].data || !bytes.Equal(r.txs[i].b, want[i].b) {
				t.Errorf("DrawChar(%U) txn %d = %+v, want %+v", c, i, r.txs[i], want[i])
			}
		}
	}
}

func TestDrawCharClipped(t *testing.T) {
	d, r := newTestDev(t, nil)
	if err := d.DrawChar(81, 0, 'A'); err != nil {
		t.Fatal(err)
	}
	data := r.data()
	if len(data) != 1 || !bytes.Equal(data[0], []byte{0x7C, 0x12, 0x11}) {
		t.Errorf("clipped DrawChar data = %v", data)
	}
}

func TestDrawText(t *testing.T) {
	tests := []struct {
		name  string
		x     int
		text  string
		want  int
		wantX []byte // column commands, in order
	}{
		{"empty", 0, "", 0, nil},
		{"hello", 0, "HELLO", 5, []byte{0x80, 0x86, 0x8C, 0x92, 0x98}},
		{"row of M", 0, strings.Repeat("M", 20), 14, nil},
		{"offset", 10, strings.Repeat("A", 20), 12, nil},
		{"last slot", 78, "AB", 1, []byte{0xCE}},
		{"no room", 79, "A", 0, nil},
		{"lowercase falls back", 0, "hola", 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, r := newTestDev(t, nil)
			n, err := d.DrawText(tt.x, 2, tt.text)
			if err != nil {
				t.Fatalf("DrawText() error = %v", err)
			}
			if n != tt.want {
				t.Errorf("DrawText() = %d, want %d", n, tt.want)
			}
			if got := len(r.data()); got != tt.want {
				t.Errorf("DrawText() sent %d data writes, want %d", got, tt.want)
			}
			cmds := r.commands()
			for i := 0; i+1 < len(cmds); i += 2 {
				if cmds[i] != 0x42 {
					t.Errorf("page command = %02X, want 42", cmds[i])
				}
				x := int(cmds[i+1] &^ 0x80)
				if x+font5x7.Width >= 84 {
					t.Errorf("character drawn at column %d overflows", x)
				}
				if tt.wantX != nil && cmds[i+1] != tt.wantX[i/2] {
					t.Errorf("column command %d = %02X, want %02X", i/2, cmds[i+1], tt.wantX[i/2])
				}
			}
		})
	}
}

func TestDrawTextOffPage(t *testing.T) {
	d, r := newTestDev(t, nil)
	for _, page := range []int{-1, 6} {
		n, err := d.DrawText(0, page, "HI")
		if n != 0 || err != nil {
			t.Errorf("DrawText(page %d) = %d, %v, want 0, nil", page, n, err)
		}
	}
	if len(r.txs) != 0 {
		t.Errorf("sent %d transactions", len(r.txs))
	}
}

func TestDrawBitmap(t *testing.T) {
	bitmap := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C,
	}
	d, r := newTestDev(t, nil)
	if err := d.DrawBitmap(5, 1, bitmap, 4, 3); err != nil {
		t.Fatalf("DrawBitmap() error = %v", err)
	}
	if len(r.txs) != 6 {
		t.Fatalf("DrawBitmap() sent %d transactions, want 6", len(r.txs))
	}
	for p := 0; p < 3; p++ {
		cursor, data := r.txs[2*p], r.txs[2*p+1]
		if cursor.data || !bytes.Equal(cursor.b, []byte{0x40 | byte(1+p), 0x85}) {
			t.Errorf("page %d cursor = %+v", p, cursor)
		}
		if !data.data || !bytes.Equal(data.b, bitmap[p*4:(p+1)*4]) {
			t.Errorf("page %d data = %+v, want % X", p, data, bitmap[p*4:(p+1)*4])
		}
	}
}

func TestDrawBitmapShort(t *testing.T) {
	d, r := newTestDev(t, nil)
	err := d.DrawBitmap(0, 0, smiley, 8, 2)
	var be *BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("DrawBitmap() error = %v, want BoundsError", err)
	}
	if be.Len != 8 || be.Need != 16 {
		t.Errorf("BoundsError = %+v, want Len 8 Need 16", be)
	}
	if err := d.DrawBitmap(0, 0, smiley, -1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("negative width error = %v", err)
	}
	if len(r.txs) != 0 {
		t.Errorf("rejected bitmap sent %d transactions", len(r.txs))
	}
}

func TestDrawBitmapSizeOverflow(t *testing.T) {
	d, r := newTestDev(t, nil)
	err := d.DrawBitmap(0, 0, []byte{0x01}, math.MaxInt/2+1, 4)
	var be *BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("DrawBitmap() error = %v, want BoundsError", err)
	}
	if be.Len != 1 || be.Need <= be.Len {
		t.Errorf("BoundsError = %+v", be)
	}
	if len(r.txs) != 0 {
		t.Errorf("rejected bitmap sent %d transactions", len(r.txs))
	}
}

func TestDrawBitmapEmpty(t *testing.T) {
	tests := []struct {
		name               string
		width, heightPages int
	}{
		{"zero width", 0, 3},
		{"zero height", 8, 0},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, r := newTestDev(t, nil)
			if err := d.DrawBitmap(10, 1, nil, tt.width, tt.heightPages); err != nil {
				t.Fatalf("DrawBitmap() error = %v", err)
			}
			if len(r.txs) != 0 {
				t.Errorf("empty DrawBitmap sent %d transactions", len(r.txs))
			}
		})
	}
}

func TestDrawBitmapClipped(t *testing.T) {
	d, r := newTestDev(t, nil)
	// Two pages tall, one sticking out at the bottom, four columns out on
	// the right.
	bitmap := append(append([]byte{}, smiley...), smiley...)
	if err := d.DrawBitmap(80, 5, bitmap, 8, 2); err != nil {
		t.Fatalf("DrawBitmap() error = %v", err)
	}
	if got, want := r.commands(), []byte{0x45, 0xD0}; !bytes.Equal(got, want) {
		t.Errorf("commands = % X, want % X", got, want)
	}
	data := r.data()
	if len(data) != 1 || !bytes.Equal(data[0], smiley[:4]) {
		t.Errorf("data = %v, want % X", data, smiley[:4])
	}

	r.reset()
	if err := d.DrawBitmap(90, 0, smiley, 8, 1); err != nil {
		t.Errorf("off screen DrawBitmap() error = %v", err)
	}
	if len(r.txs) != 0 {
		t.Errorf("off screen DrawBitmap sent %d transactions", len(r.txs))
	}
}

func TestClear(t *testing.T) {
	d, r := newTestDev(t, nil)
	if err := d.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	data := r.data()
	if len(data) != 6 {
		t.Fatalf("Clear() sent %d data writes, want 6", len(data))
	}
	for p, b := range data {
		if !bytes.Equal(b, make([]byte, 84)) {
			t.Errorf("page %d not zero: % X", p, b)
		}
	}
	want := []byte{0x40, 0x80, 0x41, 0x80, 0x42, 0x80, 0x43, 0x80, 0x44, 0x80, 0x45, 0x80}
	if got := r.commands(); !bytes.Equal(got, want) {
		t.Errorf("Clear() commands = % X, want % X", got, want)
	}
}

func TestClearThenDrawBitmapFootprint(t *testing.T) {
	tests := []struct {
		name    string
		x, page int
	}{
		{"origin", 0, 0},
		{"center", 38, 2},
		{"bottom right", 76, 5},
		{"left smiley", 20, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, r := newTestDev(t, nil)
			// Garbage left over from a previous frame.
			r.txs = append(r.txs, txn{false, []byte{0x40, 0x80}}, txn{true, bytes.Repeat([]byte{0xFF}, 84*6)})

			if err := d.Clear(); err != nil {
				t.Fatal(err)
			}
			if err := d.DrawBitmap(tt.x, tt.page, smiley, len(smiley), 1); err != nil {
				t.Fatal(err)
			}
			ram := replay(r.txs, 84, 6)
			for page := range ram {
				for x, b := range ram[page] {
					inside := page == tt.page && x >= tt.x && x < tt.x+len(smiley)
					switch {
					case inside && b != smiley[x-tt.x]:
						t.Errorf("(%d, page %d) = %02X, want %02X", x, page, b, smiley[x-tt.x])
					case !inside && b != 0:
						t.Errorf("(%d, page %d) = %02X outside the bitmap", x, page, b)
					}
				}
			}
		})
	}
}
