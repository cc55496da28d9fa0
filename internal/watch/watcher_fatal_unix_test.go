// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "watch_limit_exhausted", err: syscall.ENOSPC, want: true},
		{name: "process_fd_limit", err: syscall.EMFILE, want: true},
		{name: "system_fd_limit", err: syscall.ENFILE, want: true},
		{name: "wrapped_watch_limit", err: fmt.Errorf("fsnotify: %w", syscall.ENOSPC), want: true},
		{name: "deeply_wrapped", err: fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", syscall.EMFILE)), want: true},
		{name: "permission_denied", err: syscall.EACCES, want: false},
		{name: "not_permitted", err: syscall.EPERM, want: false},
		{name: "plain_error", err: errors.New("queue overflowed"), want: false},
		{name: "nil_error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isFatalFsnotifyError(tt.err); got != tt.want {
				t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
