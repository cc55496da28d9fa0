// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes that leave the ReadDirectoryChangesW based watcher in an
// unrecoverable state.
const (
	// ERROR_TOO_MANY_OPEN_FILES (4): the process handle limit is exhausted,
	// the Windows cousin of EMFILE.
	errnoTooManyOpenFiles = syscall.Errno(4)
	// ERROR_INVALID_HANDLE (6): the directory handle went stale, usually
	// because the watched directory was removed or its volume unmounted.
	errnoInvalidHandle = syscall.Errno(6)
	// ERROR_NOT_ENOUGH_MEMORY (8): the notification buffer could not be
	// allocated.
	errnoNotEnoughMemory = syscall.Errno(8)
)

// isFatalFsnotifyError reports whether err means the watcher cannot keep
// running. Windows has no inotify-style watch limits, but handle exhaustion,
// stale directory handles, and buffer allocation failures still end the
// session.
func isFatalFsnotifyError(err error) bool {
	return errors.Is(err, errnoTooManyOpenFiles) ||
		errors.Is(err, errnoInvalidHandle) ||
		errors.Is(err, errnoNotEnoughMemory)
}
