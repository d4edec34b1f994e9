package resources

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/png"
	"runtime"
	"testing"
)

func pngPart(t *testing.T, data []byte) []byte {
	t.Helper()
	if runtime.GOOS != "windows" {
		return data
	}
	if len(data) < 22 {
		t.Fatalf("icon too short: %d bytes", len(data))
	}
	return data[22:]
}

func TestDesktopIconsRender(t *testing.T) {
	for i := 0; i < GlyphCount; i++ {
		data, err := DesktopIcon(i)
		if err != nil {
			t.Fatalf("DesktopIcon(%d) error = %v", i, err)
		}
		img, err := png.Decode(bytes.NewReader(pngPart(t, data)))
		if err != nil {
			t.Fatalf("DesktopIcon(%d) is not a PNG: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != IconSize || b.Dy() != IconSize {
			t.Errorf("DesktopIcon(%d) size = %v", i, b)
		}
	}
}

func TestDesktopIconsDiffer(t *testing.T) {
	one, _ := DesktopIcon(0)
	two, _ := DesktopIcon(1)
	if bytes.Equal(one, two) {
		t.Error("glyphs for desktop 1 and 2 are identical")
	}
	again, _ := DesktopIcon(0)
	if &again[0] != &one[0] {
		t.Error("DesktopIcon did not return the cached icon")
	}
}

func TestDesktopIconOutOfRange(t *testing.T) {
	for _, i := range []int{-1, GlyphCount, 42} {
		if _, err := DesktopIcon(i); !errors.Is(err, ErrIconNotFound) {
			t.Errorf("DesktopIcon(%d) error = %v, want ErrIconNotFound", i, err)
		}
	}
}

func TestAppIcon(t *testing.T) {
	if _, err := AppIcon(); err != nil {
		t.Fatalf("AppIcon() error = %v", err)
	}
	data, err := AppIconPNG()
	if err != nil {
		t.Fatalf("AppIconPNG() error = %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("AppIconPNG() is not a PNG: %v", err)
	}
}

func TestWrapICO(t *testing.T) {
	payload := []byte("png-bytes")
	ico := WrapICO(payload, 32)

	var header [3]uint16
	if err := binary.Read(bytes.NewReader(ico[:6]), binary.LittleEndian, &header); err != nil {
		t.Fatal(err)
	}
	if header != [3]uint16{0, 1, 1} {
		t.Errorf("header = %v", header)
	}
	if ico[6] != 32 || ico[7] != 32 {
		t.Errorf("dimensions = %d x %d", ico[6], ico[7])
	}
	size := binary.LittleEndian.Uint32(ico[14:18])
	offset := binary.LittleEndian.Uint32(ico[18:22])
	if int(size) != len(payload) || offset != 22 {
		t.Errorf("size = %d offset = %d", size, offset)
	}
	if !bytes.Equal(ico[22:], payload) {
		t.Error("payload not copied after header")
	}

	if big := WrapICO(payload, 256); big[6] != 0 {
		t.Errorf("256px dimension byte = %d, want 0", big[6])
	}
}
