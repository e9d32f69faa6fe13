package export

import (
	"fmt"
	"os"

	"github.com/skratchdot/open-golang/open"
)

// Opener launches a viewer for a file. Implementations are best-effort.
type Opener interface {
	Open(path string) error
}

// SystemOpener opens files with the platform's default application.
type SystemOpener struct {
	start func(path string) error
}

// NewSystemOpener creates an opener for the running platform.
func NewSystemOpener() *SystemOpener {
	return &SystemOpener{start: open.Start}
}

// Open starts the viewer without waiting for it to exit.
func (o *SystemOpener) Open(path string) error {
	if err := o.start(path); err != nil {
		return fmt.Errorf("failed to launch viewer for %s: %w", path, err)
	}
	return nil
}

// NoopOpener disables the open step.
type NoopOpener struct{}

// Open does nothing.
func (NoopOpener) Open(string) error { return nil }

// IsFileInUse reports whether path appears to be held open by another
// process. It checks with a non-destructive open for append; a file that does
// not exist is not in use. The answer can be stale by the time it is acted on.
func IsFileInUse(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return !os.IsNotExist(err)
	}
	f.Close()
	return false
}
