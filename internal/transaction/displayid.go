package transaction

import (
	"fmt"
	"strconv"
	"strings"
)

var channelPrefixes = map[Channel]string{
	ChannelCash:   "C",
	ChannelBank:   "B",
	ChannelHybrid: "H",
}

// DisplayID returns the human-readable id, e.g. "B42" for the 42nd record paid by bank.
func (r *Record) DisplayID() string {
	return channelPrefixes[r.Channel()] + strconv.FormatInt(r.SequenceID, 10)
}

// ParseDisplayID splits a display id into its channel and sequence number.
// The prefix is case-insensitive.
func ParseDisplayID(s string) (Channel, int64, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", 0, fmt.Errorf("invalid display id %q", s)
	}

	prefix := strings.ToUpper(s[:1])

	var channel Channel

	for c, p := range channelPrefixes {
		if p == prefix {
			channel = c
			break
		}
	}

	if channel == "" {
		return "", 0, fmt.Errorf("unknown display id prefix %q", prefix)
	}

	digits := s[1:]
	if strings.TrimLeft(digits, "0123456789") != "" {
		return "", 0, fmt.Errorf("invalid display id sequence %q", digits)
	}

	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || seq <= 0 {
		return "", 0, fmt.Errorf("invalid display id sequence %q", digits)
	}

	return channel, seq, nil
}
