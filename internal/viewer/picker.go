package viewer

import (
	"errors"

	"github.com/sqweek/dialog"
)

// Picker asks the user for an asset path. ok is false when the user cancels.
type Picker func() (path string, ok bool, err error)

// NativePicker shows the platform file dialog filtered to glTF assets.
// It blocks the calling thread until the dialog closes.
func NativePicker() (string, bool, error) {
	path, err := dialog.File().
		Filter("glTF assets", "gltf", "glb").
		Filter("All Files", "*").
		Title("Open 3D asset").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
