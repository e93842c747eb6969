// Package privilege records who invoked the program before it was elevated
// and gives that identity back before untrusted work runs.
//
// The restore identity is resolved exactly once, before the elevated
// identity is used to arm the wake alarm, and is never re-derived after a
// uid or gid change. Under sudo the invoking user is read from SUDO_UID and
// SUDO_GID; otherwise the real uid and gid are used.
package privilege

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Context is the identity the process runs as and the identity it hands
// back before running a wake command. It is read-only once resolved.
type Context struct {
	EffectiveUID int
	EffectiveGID int
	RestoreUID   int
	RestoreGID   int
}

// Elevated reports whether dropping to the restore identity changes anything.
func (c Context) Elevated() bool {
	return c.EffectiveUID != c.RestoreUID || c.EffectiveGID != c.RestoreGID
}

func (c Context) String() string {
	return fmt.Sprintf("uid %d->%d gid %d->%d", c.EffectiveUID, c.RestoreUID, c.EffectiveGID, c.RestoreGID)
}

// Resolve builds a Context from the process credentials in sys and the
// environment lookup function, normally os.LookupEnv.
func Resolve(sys System, lookupEnv func(string) (string, bool)) Context {
	ctx := Context{
		EffectiveUID: sys.Geteuid(),
		EffectiveGID: sys.Getegid(),
		RestoreUID:   sys.Getuid(),
		RestoreGID:   sys.Getgid(),
	}

	if id, ok := envID(lookupEnv, "SUDO_UID"); ok {
		ctx.RestoreUID = id
	}
	if id, ok := envID(lookupEnv, "SUDO_GID"); ok {
		ctx.RestoreGID = id
	}

	return ctx
}

func envID(lookupEnv func(string) (string, bool), key string) (int, bool) {
	raw, ok := lookupEnv(key)
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		slog.Warn("Ignoring malformed identity hint", "var", key, "value", raw, "error", err)
		return 0, false
	}
	return int(id), true
}
