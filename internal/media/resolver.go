// Package media resolves image sources to something the browser can display,
// substituting a placeholder when the source is missing or unreachable.
package media

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StaticPrefix is the URL prefix under which files in the media root are served.
const StaticPrefix = "/static/"

// ErrEmptySource is returned for a blank src; every other failure resolves to the fallback.
var ErrEmptySource = errors.New("image source cannot be empty")

// Resolution is the outcome of resolving one image source.
type Resolution struct {
	Src      string `json:"src"`
	Resolved string `json:"resolved"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// errBlockedHost marks a target on a loopback, private or link-local address.
var errBlockedHost = errors.New("image host is not publicly routable")

// Resolver checks image sources against the local media root or, for absolute
// http(s) URLs, with a HEAD request. Remote checks only reach public addresses
// unless the host is explicitly allowed.
type Resolver struct {
	root         string
	fallbackURL  string
	allowedHosts map[string]struct{}
	resolver     *net.Resolver
	dialer       *net.Dialer
	client       *http.Client
	logger       *zap.Logger
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithAllowedHosts lets remote checks reach the given hosts (name or host:port) even when
// they resolve to internal addresses.
func WithAllowedHosts(hosts ...string) Option {
	return func(r *Resolver) {
		for _, h := range hosts {
			h = strings.ToLower(strings.TrimSpace(h))
			if h != "" {
				r.allowedHosts[h] = struct{}{}
			}
		}
	}
}

// NewResolver creates a Resolver. The media root need not exist; local lookups then always fall back.
func NewResolver(root, fallbackURL string, checkTimeout time.Duration, logger *zap.Logger, opts ...Option) (*Resolver, error) {
	if fallbackURL == "" {
		return nil, fmt.Errorf("fallback image URL cannot be empty")
	}
	if checkTimeout <= 0 {
		checkTimeout = 3 * time.Second
	}
	r := &Resolver{
		root:         root,
		fallbackURL:  fallbackURL,
		allowedHosts: make(map[string]struct{}),
		resolver:     net.DefaultResolver,
		dialer:       &net.Dialer{Timeout: checkTimeout},
		logger:       logger.Named("media"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.client = &http.Client{
		Timeout: checkTimeout,
		Transport: &http.Transport{
			// No proxy: the guarded dialer must see the real target.
			Proxy:               nil,
			DialContext:         r.dialGuarded,
			TLSHandshakeTimeout: checkTimeout,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
	return r, nil
}

// dialGuarded resolves addr itself and dials the first acceptable address, so the
// address checked is the address connected to. Redirect hops pass through here too.
func (r *Resolver) dialGuarded(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	if r.allowed(host, addr) {
		return r.dialer.DialContext(ctx, network, addr)
	}

	ips, err := r.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if internalIP(ip.IP) {
			return nil, errBlockedHost
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no addresses for %s", host)
	}
	return r.dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].IP.String(), port))
}

func (r *Resolver) allowed(host, addr string) bool {
	if _, ok := r.allowedHosts[strings.ToLower(host)]; ok {
		return true
	}
	_, ok := r.allowedHosts[strings.ToLower(addr)]
	return ok
}

// carrierGradeNAT is 100.64.0.0/10, shared address space that is not publicly routable.
var carrierGradeNAT = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// internalIP reports addresses a public image host can never have.
func internalIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified() ||
		carrierGradeNAT.Contains(ip)
}

// FallbackURL is the placeholder image substituted on failure.
func (r *Resolver) FallbackURL() string { return r.fallbackURL }

// Resolve returns src when it points at a displayable image, otherwise the fallback.
func (r *Resolver) Resolve(ctx context.Context, src string) (Resolution, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Resolution{}, ErrEmptySource
	}

	var reason string
	switch {
	case strings.HasPrefix(src, StaticPrefix):
		reason = r.checkLocal(strings.TrimPrefix(src, StaticPrefix))
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		reason = r.checkRemote(ctx, src)
	default:
		reason = "unsupported image source"
	}

	if reason == "" {
		return Resolution{Src: src, Resolved: src}, nil
	}
	r.logger.Debug("Image source falling back", zap.String("src", src), zap.String("reason", reason))
	return Resolution{Src: src, Resolved: r.fallbackURL, Fallback: true, Reason: reason}, nil
}

// checkLocal returns an empty reason when relativePath names an image file inside the media root.
func (r *Resolver) checkLocal(relativePath string) string {
	cleanRelativePath := filepath.Clean(filepath.FromSlash(relativePath))
	if cleanRelativePath == "." || strings.HasPrefix(cleanRelativePath, "..") || filepath.IsAbs(cleanRelativePath) {
		r.logger.Warn("Image path escapes the media root", zap.String("relativePath", relativePath))
		return "invalid image path"
	}
	if !isImageType(mime.TypeByExtension(filepath.Ext(cleanRelativePath))) {
		return "not an image file"
	}

	info, err := os.Stat(filepath.Join(r.root, cleanRelativePath))
	if err != nil {
		if os.IsNotExist(err) {
			return "image not found"
		}
		return "image unreadable"
	}
	if info.IsDir() {
		return "not an image file"
	}
	return ""
}

// checkRemote returns an empty reason when a HEAD request answers 2xx with an image content type.
func (r *Resolver) checkRemote(ctx context.Context, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "invalid image URL"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return "invalid image URL"
	}
	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, errBlockedHost) {
			r.logger.Warn("Image request to internal address refused", zap.String("host", u.Host))
			return "image host not allowed"
		}
		return "image host unreachable"
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("image host answered %d", resp.StatusCode)
	}
	if !isImageType(resp.Header.Get("Content-Type")) {
		return "not an image"
	}
	return ""
}

func isImageType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}
