package discovery

import "net/netip"

// EligibleAddress reports whether text is a well-formed address of the
// family the describe protocol operates over. The RTSP collaborator only
// speaks IPv4, so every other family is categorically ineligible; callers
// skip ineligible addresses silently rather than treating them as errors.
func EligibleAddress(text string) bool {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return false
	}
	return addr.Is4()
}
