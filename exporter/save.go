package exporter

import (
	"fmt"
	"runtime"

	"yellowpages-scraper/models"
)

// Picker asks the user where to save a file.
// An empty path with a nil error means the user cancelled.
type Picker interface {
	PickSavePath(title string, filter FileFilter) (string, error)
}

type saveResult struct {
	path string
	err  error
}

// SaveWithPicker shows the picker and writes the file on one dedicated,
// OS-thread-locked goroutine, blocking until both are done.
// It returns the chosen path, or "" when the user cancelled.
func SaveWithPicker(picker Picker, format Format, entries []models.BusinessEntry) (string, error) {
	done := make(chan saveResult, 1)

	go func() {
		// The terminal dialog must run start to finish on a single thread
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		title := "Save Results to " + string(format)
		path, err := picker.PickSavePath(title, FilterFor(format))
		if err != nil {
			done <- saveResult{err: fmt.Errorf("save dialog failed: %w", err)}
			return
		}
		if path == "" {
			done <- saveResult{}
			return
		}

		if err := Export(path, format, entries); err != nil {
			done <- saveResult{path: path, err: err}
			return
		}
		done <- saveResult{path: path}
	}()

	res := <-done
	return res.path, res.err
}
