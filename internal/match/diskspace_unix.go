//go:build unix

package match

import "syscall"

// spaceSafetyMargin keeps a little headroom so a copy never fills the target
// filesystem to the last byte.
const spaceSafetyMargin = 10 * 1024 * 1024

// hasDiskSpace reports whether the filesystem holding dir has room for
// required bytes plus the safety margin.
func hasDiskSpace(dir string, required int64) (bool, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(dir, &st); err != nil {
		return false, err
	}
	free := int64(st.Bavail) * int64(st.Bsize)
	return free >= required+spaceSafetyMargin, nil
}
