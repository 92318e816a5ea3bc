package validation

import (
	"fmt"
	"regexp"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// Phone numbers accepted by the bridge: 7 to 15 digits, country code first
var phonePattern = regexp.MustCompile(`^\d{7,15}$`)

// nonDigit matches everything a phone number may be decorated with
var nonDigit = regexp.MustCompile(`\D`)

// AddressKind tells which endpoint an address belongs to
type AddressKind int

const (
	KindSelf AddressKind = iota
	KindPhone
	KindGroup
	KindChannel
)

func (k AddressKind) String() string {
	switch k {
	case KindSelf:
		return "self"
	case KindPhone:
		return "phone"
	case KindGroup:
		return "group"
	case KindChannel:
		return "channel"
	default:
		return fmt.Sprintf("AddressKind(%d)", int(k))
	}
}

// Classify maps a raw address to its kind. An empty address is the caller
// itself, group and newsletter JIDs are recognized by server, and anything
// else is passed to the bridge as a phone recipient.
func Classify(addr string) AddressKind {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return KindSelf
	}
	if !strings.Contains(addr, "@") {
		return KindPhone
	}

	jid, err := types.ParseJID(addr)
	if err != nil {
		return KindPhone
	}
	switch jid.Server {
	case types.GroupServer:
		return KindGroup
	case types.NewsletterServer:
		return KindChannel
	default:
		return KindPhone
	}
}

// IsGroupID checks that id is a group JID (…@g.us)
func IsGroupID(id string) bool {
	jid, err := types.ParseJID(strings.TrimSpace(id))
	return err == nil && jid.User != "" && jid.Server == types.GroupServer
}

// IsChannelID checks that id is a channel JID (…@newsletter)
func IsChannelID(id string) bool {
	jid, err := types.ParseJID(strings.TrimSpace(id))
	return err == nil && jid.User != "" && jid.Server == types.NewsletterServer
}

// IsPhone checks that s is a bare international phone number
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// NormalizePhone strips formatting from a phone number ("+91 98765-43210")
// and from user JIDs ("919876543210@s.whatsapp.net").
func NormalizePhone(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "@") {
		jid, err := types.ParseJID(s)
		if err != nil {
			return "", fmt.Errorf("invalid JID %s: %w", s, err)
		}
		if jid.Server != types.DefaultUserServer {
			return "", fmt.Errorf("not a user JID: %s", s)
		}
		s = jid.User
	}

	phone := nonDigit.ReplaceAllString(s, "")
	if !IsPhone(phone) {
		return "", fmt.Errorf("invalid phone number: %q", s)
	}
	return phone, nil
}
