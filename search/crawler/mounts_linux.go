package crawler

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Filesystems that are virtual, or remote and so excluded from the index.
var skippedFS = map[string]bool{
	"autofs": true, "binfmt_misc": true, "bpf": true, "cgroup": true,
	"cgroup2": true, "configfs": true, "debugfs": true, "devpts": true,
	"devtmpfs": true, "efivarfs": true, "fusectl": true, "hugetlbfs": true,
	"mqueue": true, "nsfs": true, "proc": true, "pstore": true,
	"rpc_pipefs": true, "securityfs": true, "selinuxfs": true, "squashfs": true,
	"sysfs": true, "tmpfs": true, "tracefs": true, "ramfs": true,

	"nfs": true, "nfs4": true, "cifs": true, "smb3": true, "smbfs": true,
	"9p": true, "fuse.sshfs": true, "afs": true, "ceph": true, "glusterfs": true,
}

// Mounts lists the mount table from /proc/self/mounts.
func Mounts() ([]Mount, error) {
	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		return []Mount{{Root: "/", FSType: "unknown", Local: true}}, nil
	}
	defer f.Close()

	mounts, err := parseMounts(f)
	if err != nil {
		return nil, err
	}
	for i := range mounts {
		if mounts[i].Local {
			mounts[i].Local = hasBlocks(mounts[i].Root)
		}
	}
	return mounts, nil
}

func parseMounts(r io.Reader) ([]Mount, error) {
	var mounts []Mount
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		root := unescapeMount(fields[1])
		mounts = append(mounts, Mount{
			Root:   root,
			FSType: fields[2],
			Local:  !skippedFS[fields[2]],
		})
	}
	return mounts, scanner.Err()
}

// unescapeMount decodes the octal escapes (\040 for a space) used in the
// mount table.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func hasBlocks(root string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(root, &st); err != nil {
		return false
	}
	return st.Blocks > 0
}
