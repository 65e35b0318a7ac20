package shared

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// BrowserUserAgent is sent on every upstream request. The listing site and
// the quote API both reject obviously non-browser clients.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPClientFactory creates HTTP clients with standardized transport
// configuration, cached per timeout.
type HTTPClientFactory struct {
	defaultTimeout time.Duration
	mutex          sync.RWMutex
	clients        map[string]*http.Client
}

// NewHTTPClientFactory creates a new HTTP client factory.
func NewHTTPClientFactory(defaultTimeout time.Duration) *HTTPClientFactory {
	return &HTTPClientFactory{
		defaultTimeout: defaultTimeout,
		clients:        make(map[string]*http.Client),
	}
}

// Client returns a pooled HTTP client with the given total-request timeout.
func (f *HTTPClientFactory) Client(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = f.defaultTimeout
	}

	clientKey := fmt.Sprintf("timeout_%d", timeout.Milliseconds())

	f.mutex.RLock()
	if client, exists := f.clients[clientKey]; exists {
		f.mutex.RUnlock()
		return client
	}
	f.mutex.RUnlock()

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,

			DisableKeepAlives: false,

			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,

			DisableCompression: false,
		},
	}

	f.mutex.Lock()
	f.clients[clientKey] = client
	f.mutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"component":  "HTTPClientFactory",
		"timeout":    timeout,
		"client_key": clientKey,
	}).Debug("Created new HTTP client")

	return client
}

// SetBrowserLikeHeaders configures request headers to mimic browser behavior.
// Referer is optional; the quote API checks it, the open-data API does not.
func SetBrowserLikeHeaders(request *http.Request, acceptHeader, referer string) {
	request.Header.Set("User-Agent", BrowserUserAgent)
	request.Header.Set("Accept", acceptHeader)
	request.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8")
	request.Header.Set("Connection", "keep-alive")
	if referer != "" {
		request.Header.Set("Referer", referer)
	}
}

// CleanupAllClients closes idle connections on every cached client.
func (f *HTTPClientFactory) CleanupAllClients() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for key, client := range f.clients {
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
		delete(f.clients, key)
	}

	logrus.WithField("component", "HTTPClientFactory").Debug("Cleaned up all cached HTTP clients")
}
