// Package ipchecker provides utilities for extracting and validating
// client IP addresses from HTTP requests. It supports checking whether
// a given IP falls within a trusted subnet.
package ipchecker

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// IPChecker validates whether a request's client IP belongs to a trusted
// subnet configured in CIDR notation.
type IPChecker struct {
	trustedSubnet *net.IPNet
}

// New creates an IPChecker for the given CIDR, e.g. "192.168.1.0/24".
// An empty CIDR yields a disabled checker: Enabled reports false and Check
// rejects every IP.
func New(trustedSubnet string) (*IPChecker, error) {
	if trustedSubnet == "" {
		return &IPChecker{}, nil
	}

	_, allowedNet, err := net.ParseCIDR(trustedSubnet)
	if err != nil {
		return nil, fmt.Errorf("parsing trusted subnet %q: %w", trustedSubnet, err)
	}

	return &IPChecker{trustedSubnet: allowedNet}, nil
}

// Enabled reports whether a trusted subnet was configured.
func (checker *IPChecker) Enabled() bool {
	return checker.trustedSubnet != nil
}

// Check reports whether clientIP belongs to the trusted subnet.
// A disabled checker rejects everything.
func (checker *IPChecker) Check(clientIP net.IP) bool {
	return checker.trustedSubnet != nil && clientIP != nil && checker.trustedSubnet.Contains(clientIP)
}

// GetClientIP extracts the client's IP address from an HTTP request,
// checking in order: the "X-Real-IP" header, the "X-Forwarded-For" header,
// and finally the request's RemoteAddr field.
func (checker *IPChecker) GetClientIP(request *http.Request) (net.IP, error) {
	if ip := net.ParseIP(request.Header.Get("X-Real-IP")); ip != nil {
		return ip, nil
	}

	if xff := request.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip, nil
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return nil, fmt.Errorf("splitting remote address %q: %w", request.RemoteAddr, err)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return nil, fmt.Errorf("unparsable client IP %q", host)
	}

	return ip, nil
}
