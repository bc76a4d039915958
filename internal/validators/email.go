package validators

import (
	"net"
	"regexp"
	"strings"
)

var emailFormat = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

func IsEmailFormatValid(email string) bool {
	return emailFormat.MatchString(email)
}

// IsEmailDomainValid checks the domain resolves at all, catching obvious
// typos at registration time.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
