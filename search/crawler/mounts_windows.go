package crawler

import (
	"golang.org/x/sys/windows"
)

// Mounts lists the logical drives. Fixed and removable drives are local;
// network shares and optical drives are not.
func Mounts() ([]Mount, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, err
	}

	var mounts []Mount
	for i := 0; i < 26; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		root := string(rune('A'+i)) + ":/"
		ptr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}
		kind := windows.GetDriveType(ptr)
		mounts = append(mounts, Mount{
			Root:   root,
			FSType: driveTypeName(kind),
			Local:  kind == windows.DRIVE_FIXED || kind == windows.DRIVE_REMOVABLE,
		})
	}
	return mounts, nil
}

func driveTypeName(kind uint32) string {
	switch kind {
	case windows.DRIVE_FIXED:
		return "fixed"
	case windows.DRIVE_REMOVABLE:
		return "removable"
	case windows.DRIVE_REMOTE:
		return "remote"
	case windows.DRIVE_CDROM:
		return "cdrom"
	case windows.DRIVE_RAMDISK:
		return "ramdisk"
	}
	return "unknown"
}
