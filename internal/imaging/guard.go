// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"
)

// maxRedirects bounds the redirects followed for one remote image.
const maxRedirects = 5

// ErrBlockedAddress is returned when a remote image resolves to a loopback,
// private, link-local or otherwise internal address.
var ErrBlockedAddress = errors.New("image host address is not allowed")

// carrierNAT is the shared address space of RFC 6598, not covered by
// net.IP.IsPrivate.
var carrierNAT = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// blockedIP reports whether ip must not be fetched from.
func blockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		carrierNAT.Contains(ip)
}

// checkHost resolves host and rejects it if any of its addresses is
// blocked. The dialer checks again on connect, which covers DNS rebinding.
func (l *Loader) checkHost(ctx context.Context, host string) error {
	if l.allowPrivate {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil {
		if blockedIP(ip) {
			return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
		}
		return nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return fmt.Errorf("resolve image host %s: %w", host, err)
	}
	for _, a := range addrs {
		if blockedIP(a.IP) {
			return fmt.Errorf("%w: %s resolves to %s", ErrBlockedAddress, host, a.IP)
		}
	}
	return nil
}

// control runs on every outgoing connection after resolution, so a
// redirect or a re-resolved name cannot reach an internal address.
func (l *Loader) control(_, address string, _ syscall.RawConn) error {
	if l.allowPrivate {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	if ip := net.ParseIP(host); ip == nil || blockedIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// transport dials through control. Proxies from the environment are not
// used: the proxy address would be checked instead of the image host.
func (l *Loader) transport(timeout time.Duration) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
		Control:   l.control,
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: time.Second,
	}
}

// redirect allows at most maxRedirects hops, each to an http(s) URL whose
// host passes checkHost.
func (l *Loader) redirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: redirect to %s", ErrUnsupportedSource, req.URL.Scheme)
	}
	return l.checkHost(req.Context(), req.URL.Hostname())
}
