// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isFatalFsnotifyError reports whether err means the watcher cannot keep
// running. On Unix these are the inotify/kqueue resource exhaustion errors:
// ENOSPC when the inotify watch limit is hit (fs.inotify.max_user_watches),
// EMFILE when the process runs out of file descriptors, and ENFILE when the
// whole system does.
func isFatalFsnotifyError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
