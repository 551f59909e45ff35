package tray

import "encoding/base64"

// Minimal 1x1 PNG used as the tray icon. Platforms render their own
// fallback when the artwork is this small; the menu works regardless.
const iconPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func iconData() []byte {
	data, err := base64.StdEncoding.DecodeString(iconPNG)
	if err != nil {
		return nil
	}
	return data
}
