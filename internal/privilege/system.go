package privilege

// System is the slice of process credential calls this package needs.
type System interface {
	Getuid() int
	Getgid() int
	Geteuid() int
	Getegid() int

	Setgroups(gids []int) error
	Setgid(gid int) error
	Setuid(uid int) error
}

// CurrentSystem holds the implementation for the current operating system.
// It is initialized by the platform-specific files (e.g., system_unix.go).
var CurrentSystem System
