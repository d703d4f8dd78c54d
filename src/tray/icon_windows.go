//go:build windows

package tray

// systray on Windows loads the icon bytes as an .ico file.
func platformIcon(pngData []byte) []byte { return wrapICO(pngData, iconSize) }
