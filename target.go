package wabridge

import (
	"fmt"
	"strings"

	"github.com/nahidhasan98/wabridge/internal/validation"
)

// TargetKind selects the endpoint a message is posted to
type TargetKind int

const (
	// TargetSelf is the account the bridge is logged in as
	TargetSelf TargetKind = iota
	TargetPhone
	TargetGroup
	TargetChannel
)

func (k TargetKind) String() string {
	switch k {
	case TargetSelf:
		return "self"
	case TargetPhone:
		return "phone"
	case TargetGroup:
		return "group"
	case TargetChannel:
		return "channel"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is a message recipient
type Target struct {
	Kind    TargetKind
	Address string
}

// Self is the target for messages to the caller's own chat
func Self() Target { return Target{Kind: TargetSelf} }

// Phone targets an individual by phone number
func Phone(phone string) Target { return Target{Kind: TargetPhone, Address: phone} }

// GroupTarget targets a group JID such as 120363012345@g.us
func GroupTarget(id string) Target { return Target{Kind: TargetGroup, Address: id} }

// ChannelTarget targets a channel JID such as 120363098765@newsletter
func ChannelTarget(id string) Target { return Target{Kind: TargetChannel, Address: id} }

// ParseTarget classifies a raw recipient string. Empty means self, group and
// newsletter JIDs map to their endpoints, anything else is a phone number.
func ParseTarget(s string) Target {
	s = strings.TrimSpace(s)
	switch validation.Classify(s) {
	case validation.KindSelf:
		return Self()
	case validation.KindGroup:
		return GroupTarget(s)
	case validation.KindChannel:
		return ChannelTarget(s)
	default:
		return Phone(s)
	}
}

func (t Target) String() string {
	if t.Kind == TargetSelf {
		return "self"
	}
	return t.Kind.String() + ":" + t.Address
}
