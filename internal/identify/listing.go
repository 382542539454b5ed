package identify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const maxListingBytes = 2 << 20

var listingMetaSelectors = []string{
	"meta[property='og:title']",
	"meta[property='og:description']",
	"meta[name='description']",
	"meta[name='twitter:title']",
}

// ExtractListingText pulls the identifying text out of a vehicle listing
// page: the title, descriptive meta tags, headings and schema.org item
// properties. The visible body text is used only when none of those exist.
func ExtractListingText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(doc.Find("title").First().Text())
	for _, selector := range listingMetaSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			add(s.AttrOr("content", ""))
		})
	}
	doc.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})
	doc.Find("[itemprop]").Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			add(content)
			return
		}
		if s.Children().Length() == 0 {
			add(s.Text())
		}
	})

	if len(parts) == 0 {
		body := doc.Find("body")
		body.Find("script, style, noscript").Remove()
		add(body.Text())
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

// ErrNonPublicAddress is returned when a listing URL resolves to a loopback,
// private, link-local or unspecified address.
var ErrNonPublicAddress = errors.New("refusing to fetch non-public address")

// ListingFetcher downloads listing pages with a shared request rate limit.
// Only http and https URLs on public addresses are fetched.
type ListingFetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	health     *fetchHealth
}

// NewListingFetcher creates a fetcher allowing requestsPerSecond page loads
func NewListingFetcher(requestsPerSecond float64, timeout time.Duration) *ListingFetcher {
	return newListingFetcher(requestsPerSecond, timeout, publicAddressOnly)
}

func newListingFetcher(requestsPerSecond float64, timeout time.Duration, control func(network, address string, c syscall.RawConn) error) *ListingFetcher {
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: control,
	}
	return &ListingFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:     dialer.DialContext,
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		userAgent: "Mozilla/5.0 (compatible; LotPilot/2.0)",
		health:    &fetchHealth{},
	}
}

// publicAddressOnly runs after DNS resolution, so every redirect hop and
// rebound hostname is checked against the address actually dialed.
func publicAddressOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("%w %s", ErrNonPublicAddress, host)
	}
	return nil
}

func isPublicIP(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast())
}

func validateListingURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid listing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported listing URL scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("listing URL has no host")
	}
	return nil
}

// Fetch downloads a listing page and returns its identifying text
func (f *ListingFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	text, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.health.recordFailure(rawURL, err)
		return "", err
	}
	f.health.recordSuccess()
	return text, nil
}

// Health returns a snapshot of fetch outcomes so far
func (f *ListingFetcher) Health() FetchHealthStatus {
	return f.health.status()
}

func (f *ListingFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	if err := validateListingURL(rawURL); err != nil {
		return "", err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ExtractListingText(io.LimitReader(resp.Body, maxListingBytes))
}

// Close releases idle connections
func (f *ListingFetcher) Close() {
	f.httpClient.CloseIdleConnections()
}
