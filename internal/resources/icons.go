// Package resources renders the tray icons. Glyphs are drawn at runtime so no
// image files have to ship with the binary.
package resources

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"runtime"
	"strconv"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// GlyphCount is the number of desktop glyphs, "1" through "10".
const GlyphCount = 10

// IconSize is the edge length of every rendered icon in pixels.
const IconSize = 32

// ErrIconNotFound is returned for a desktop index without a glyph.
var ErrIconNotFound = errors.New("icon not found")

var (
	background = color.RGBA{R: 0x20, G: 0x24, B: 0x2b, A: 0xff}
	foreground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	accent     = color.RGBA{R: 0x3d, G: 0x8b, B: 0xfd, A: 0xff}
)

var (
	cacheMu sync.Mutex
	cache   = make(map[string][]byte)
)

// DesktopIcon returns the tray icon for the zero-based desktop index, showing
// the desktop's 1-based number. The bytes are ICO on Windows and PNG
// elsewhere, which is what systray.SetIcon expects.
func DesktopIcon(index int) ([]byte, error) {
	if index < 0 || index >= GlyphCount {
		return nil, fmt.Errorf("%w: desktop %d", ErrIconNotFound, index+1)
	}
	return cached(strconv.Itoa(index+1), foreground, background)
}

// AppIcon returns the neutral icon shown before the active desktop is known.
func AppIcon() ([]byte, error) {
	return cached("B", foreground, accent)
}

// AppIconPNG returns the neutral icon as PNG regardless of platform, for
// consumers like toast notifications that need an image file.
func AppIconPNG() ([]byte, error) {
	return renderPNG("B", foreground, accent)
}

func cached(label string, fg, bg color.Color) ([]byte, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if data, ok := cache[label]; ok {
		return data, nil
	}
	data, err := renderPNG(label, fg, bg)
	if err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		data = WrapICO(data, IconSize)
	}
	cache[label] = data
	return data, nil
}

// renderPNG draws label with the 7x13 bitmap font on a 16x16 tile and
// scales it up without smoothing so the pixels stay crisp.
func renderPNG(label string, fg, bg color.Color) ([]byte, error) {
	face := basicfont.Face7x13
	const tile = 16

	small := image.NewRGBA(image.Rect(0, 0, tile, tile))
	draw.Draw(small, image.Rect(1, 1, tile-1, tile-1), image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	width := d.MeasureString(label).Ceil()
	if width > tile {
		return nil, fmt.Errorf("label '%s' is too wide for the icon", label)
	}
	top := (tile - face.Height) / 2
	d.Dot = fixed.P((tile-width)/2, top+face.Ascent)
	d.DrawString(label)

	big := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, big); err != nil {
		return nil, fmt.Errorf("failed to encode icon '%s': %w", label, err)
	}
	return buf.Bytes(), nil
}

// WrapICO wraps PNG data in a single-image ICO container.
func WrapICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16

	dim := byte(size)
	if size >= 256 {
		dim = 0
	}

	var buf bytes.Buffer
	buf.Grow(headerLen + len(pngData))
	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(pngData)), headerLen})
	buf.Write(pngData)
	return buf.Bytes()
}
