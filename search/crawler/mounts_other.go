//go:build !linux && !windows

package crawler

import (
	"os"
	"path"
)

// Mounts returns the root filesystem plus every volume attached under
// /Volumes. Symlinked entries, such as the boot volume alias on macOS,
// are ignored.
func Mounts() ([]Mount, error) {
	mounts := []Mount{{Root: "/", FSType: "root", Local: true}}

	entries, err := os.ReadDir("/Volumes")
	if err != nil {
		return mounts, nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		mounts = append(mounts, Mount{
			Root:   path.Join("/Volumes", e.Name()),
			FSType: "volume",
			Local:  true,
		})
	}
	return mounts, nil
}
