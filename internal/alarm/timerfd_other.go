//go:build !linux

package alarm

import "errors"

func init() {
	OpenWakeSource = func() (Source, error) {
		return nil, &Error{Kind: KindCreate, Op: "open wake source", Err: errors.ErrUnsupported}
	}
}
