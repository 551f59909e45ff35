package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var writeMu sync.Mutex

func Init() error {
	return clipboard.Init()
}

// WriteImage performs a mutex-guarded clipboard write to prevent
// corruption under parallel writes. The data must be an encoded PNG.
func WriteImage(pngData []byte) error {
	if len(pngData) == 0 {
		return errors.New("clipboard: empty image")
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtImage, pngData)
	return nil
}
