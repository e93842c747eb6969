package privilege

import "fmt"

type MockSystem struct {
	UID, GID, EUID, EGID int

	Calls []string

	FailGroups bool
	FailGID    bool
	FailUID    bool
}

func (m *MockSystem) Getuid() int  { return m.UID }
func (m *MockSystem) Getgid() int  { return m.GID }
func (m *MockSystem) Geteuid() int { return m.EUID }
func (m *MockSystem) Getegid() int { return m.EGID }

func (m *MockSystem) Setgroups(gids []int) error {
	m.Calls = append(m.Calls, fmt.Sprintf("setgroups(%v)", gids))
	if m.FailGroups {
		return fmt.Errorf("mock setgroups error")
	}
	return nil
}

func (m *MockSystem) Setgid(gid int) error {
	m.Calls = append(m.Calls, fmt.Sprintf("setgid(%d)", gid))
	if m.FailGID {
		return fmt.Errorf("mock setgid error")
	}
	m.GID, m.EGID = gid, gid
	return nil
}

func (m *MockSystem) Setuid(uid int) error {
	m.Calls = append(m.Calls, fmt.Sprintf("setuid(%d)", uid))
	if m.FailUID {
		return fmt.Errorf("mock setuid error")
	}
	m.UID, m.EUID = uid, uid
	return nil
}

// Ensure MockSystem satisfies the System interface
var _ System = &MockSystem{}
