package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	logFileName  = "screenai.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

// Setup enables file logging with size-based rotation (10MB, 3 archives).
// The log lives under the user cache directory so packaged installs can
// write it regardless of where the binary sits. When disabled, logs are
// discarded to keep stdout clean.
func Setup(enableFileLogging bool) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enableFileLogging {
		log.SetOutput(io.Discard)
		return
	}

	path := logPath()
	rotateIfNeeded(path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return
	}
	log.SetOutput(&rotatingWriter{f: f, path: path})
}

func logPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return logFileName
	}
	appDir := filepath.Join(dir, "screenai")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return logFileName
	}
	return filepath.Join(appDir, logFileName)
}

type rotatingWriter struct {
	f    *os.File
	path string
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	// naive rotation check per write
	if st, err := w.f.Stat(); err == nil && st.Size()+int64(len(p)) > maxSizeBytes {
		_ = w.f.Close()
		rotateIfNeeded(w.path)
		nf, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return 0, err
		}
		w.f = nf
	}
	return w.f.Write(p)
}

// rotateIfNeeded shifts archives .1 .. .3 and moves the live file to .1
// once it exceeds the size cap. The oldest archive is discarded.
func rotateIfNeeded(path string) {
	st, err := os.Stat(path)
	if err != nil || st.Size() <= maxSizeBytes {
		return
	}
	_ = os.Remove(archiveName(path, maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(archiveName(path, i), archiveName(path, i+1))
	}
	_ = os.Rename(path, archiveName(path, 1))
}

func archiveName(path string, n int) string { return fmt.Sprintf("%s.%d", path, n) }
