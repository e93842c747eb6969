package timespec

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxSeconds keeps TotalSeconds convertible to a time.Duration.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Parse builds a TimeSpec from command line tokens. In absolute mode exactly
// one token is expected, holding seconds since the Unix epoch, and now is used
// to reject instants in the past. In relative mode now is ignored.
func Parse(tokens []string, absolute bool, now time.Time) (TimeSpec, error) {
	if absolute {
		if len(tokens) != 1 {
			return TimeSpec{}, &ParseError{
				Token:  0,
				Offset: -1,
				Input:  strings.Join(tokens, " "),
				Reason: "absolute time takes exactly one value",
			}
		}
		return ParseAbsolute(tokens[0], now)
	}
	return ParseRelative(tokens)
}

// ParseRelative sums "<digits><unit>" groups across all tokens, with units
// h, m and s in either case. Repeated units add up, so "1h 20m", "1h20m" and
// "20m 1h" are the same spec.
//
// Digits that are not followed by a unit before the token ends are dropped
// and the token is recorded in TimeSpec.Dropped.
func ParseRelative(tokens []string) (TimeSpec, error) {
	ts := TimeSpec{Kind: Relative}

	for i, tok := range tokens {
		var accum int64
		pending := false

		for j := 0; j < len(tok); j++ {
			c := tok[j]
			switch c {
			case 'h', 'H':
				ts.Hours += accum
			case 'm', 'M':
				ts.Minutes += accum
			case 's', 'S':
				ts.Seconds += accum
			default:
				if c < '0' || c > '9' {
					return TimeSpec{}, errIllegalChar(i, j, tok, c)
				}
				if accum > (maxSeconds-9)/10 {
					return TimeSpec{}, &ParseError{Token: i, Offset: j, Input: tok, Reason: "value out of range"}
				}
				accum = accum*10 + int64(c-'0')
				pending = true
				continue
			}
			accum = 0
			pending = false

			if ts.Hours > maxSeconds/3600 || ts.Minutes > maxSeconds/60 || ts.TotalSeconds() > maxSeconds {
				return TimeSpec{}, &ParseError{Token: i, Offset: j, Input: tok, Reason: "duration out of range"}
			}
		}

		if pending {
			ts.Dropped = append(ts.Dropped, tok)
		}
	}

	if ts.TotalSeconds() == 0 {
		return TimeSpec{}, ErrEmptyDuration
	}
	return ts, nil
}

// ParseAbsolute reads token as base-10 seconds since the epoch. The instant
// may equal now but not precede it.
func ParseAbsolute(token string, now time.Time) (TimeSpec, error) {
	epoch, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		reason := "not a base-10 integer"
		if errors.Is(err, strconv.ErrRange) {
			reason = "value out of range"
		}
		return TimeSpec{}, &ParseError{
			Token:  0,
			Offset: firstNonDigit(token),
			Input:  token,
			Reason: reason,
			Err:    err,
		}
	}

	at := time.Unix(epoch, 0)
	nowSec := now.Unix()
	if epoch < nowSec {
		return TimeSpec{}, &PastTimeError{At: at, Now: time.Unix(nowSec, 0)}
	}

	diff := epoch - nowSec
	return TimeSpec{
		Kind:    Absolute,
		At:      at,
		Hours:   diff / 3600,
		Minutes: (diff % 3600) / 60,
		Seconds: diff % 60,
	}, nil
}

func firstNonDigit(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}
		if i == 0 && (c == '-' || c == '+') {
			continue
		}
		return i
	}
	return -1
}
