package browser

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Notices for the URL commands
var (
	ErrTopPage   = errors.New("Already at top page. Cannot go further up.")
	ErrTopDomain = errors.New("Already at top domain. Cannot go further up.")
)

var (
	lastSegment = regexp.MustCompile(`^(\w+://.+?/)([\w?=+%&\-.]+/?)$`)
	subDomain   = regexp.MustCompile(`^\w+\.(.+?)\.([a-z]{2,4})(?:\.([a-z]{2}))?$`)
)

// ParentPage drops the last path segment of href
func ParentPage(href string) (string, error) {
	m := lastSegment.FindStringSubmatch(href)
	if m == nil || m[1] == href {
		return "", ErrTopPage
	}
	return m[1], nil
}

// ParentDomain drops the first label of the host of href, keeping the
// scheme. Hosts starting with www. are left alone.
func ParentDomain(href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil || u.Hostname() == "" {
		return "", ErrTopDomain
	}
	host := u.Hostname()
	if strings.HasPrefix(host, "www.") {
		return "", ErrTopDomain
	}

	m := subDomain.FindStringSubmatch(host)
	if m == nil {
		return "", ErrTopDomain
	}
	parts := []string{m[1], m[2]}
	if m[3] != "" {
		parts = append(parts, m[3])
	}
	return u.Scheme + "://" + strings.Join(parts, "."), nil
}
