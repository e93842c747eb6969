//go:build unix

package privilege

import (
	"syscall"

	"golang.org/x/sys/unix"
)

type unixSystem struct{}

func init() {
	CurrentSystem = &unixSystem{}
}

func (unixSystem) Getuid() int  { return unix.Getuid() }
func (unixSystem) Getgid() int  { return unix.Getgid() }
func (unixSystem) Geteuid() int { return unix.Geteuid() }
func (unixSystem) Getegid() int { return unix.Getegid() }

// The wake callback runs on whatever thread the runtime picks, so every
// change here has to apply to all threads of the process. The syscall
// package guarantees that for setgroups.
func (unixSystem) Setgroups(gids []int) error { return syscall.Setgroups(gids) }
func (unixSystem) Setgid(gid int) error       { return unix.Setgid(gid) }
func (unixSystem) Setuid(uid int) error       { return unix.Setuid(uid) }
