package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"sync"
)

var (
	iconOnce sync.Once
	iconPNG  []byte
)

const iconSize = 16

// Icon returns a 16x16 clipboard with a lock-colored clip, encoded the way
// systray expects on this platform (ICO on Windows, PNG elsewhere).
func Icon() []byte {
	iconOnce.Do(func() { iconPNG = renderIcon() })
	return platformIcon(iconPNG)
}

// wrapICO embeds a PNG image in a single-entry ICO container.
func wrapICO(pngData []byte, size int) []byte {
	const headerLen, entryLen = 6, 16
	var buf bytes.Buffer
	le := binary.LittleEndian
	// ICONDIR: reserved, type 1 (icon), one image.
	_ = binary.Write(&buf, le, [3]uint16{0, 1, 1})
	// ICONDIRENTRY; a dimension byte of 0 means 256.
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(size))
	buf.WriteByte(0) // palette colors
	buf.WriteByte(0) // reserved
	_ = binary.Write(&buf, le, uint16(1))  // color planes
	_ = binary.Write(&buf, le, uint16(32)) // bits per pixel
	_ = binary.Write(&buf, le, uint32(len(pngData)))
	_ = binary.Write(&buf, le, uint32(headerLen+entryLen))
	buf.Write(pngData)
	return buf.Bytes()
}

func renderIcon() []byte {
	board := color.RGBA{0x5b, 0x3a, 0x1a, 0xff}
	paper := color.RGBA{0xf4, 0xf4, 0xf4, 0xff}
	clip := color.RGBA{0x00, 0x78, 0xd4, 0xff}

	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	fill := func(x0, y0, x1, y1 int, c color.Color) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				img.Set(x, y, c)
			}
		}
	}
	fill(2, 2, 14, 16, board)
	fill(4, 4, 12, 14, paper)
	fill(5, 0, 11, 4, clip)
	for y := 7; y < 13; y += 2 {
		fill(5, y, 11, y+1, board)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
