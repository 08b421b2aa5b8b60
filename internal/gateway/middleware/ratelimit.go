package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const DefaultMaxTrackedIPs = 10000

// RateLimit applies a per-client-IP token bucket to POST requests. GETs only
// render initial frames and pass through. The least recently seen IPs are
// dropped once maxIPs are tracked. rps <= 0 disables the limit.
func RateLimit(rps float64, burst, maxIPs int) (func(http.Handler) http.Handler, error) {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	if burst <= 0 {
		burst = 1
	}
	if maxIPs <= 0 {
		maxIPs = DefaultMaxTrackedIPs
	}
	limiters, err := lru.New[string, *rate.Limiter](maxIPs)
	if err != nil {
		return nil, err
	}
	var mu sync.Mutex
	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if lim, ok := limiters.Get(ip); ok {
			return lim
		}
		lim := rate.NewLimiter(rate.Limit(rps), burst)
		limiters.Add(ip, lim)
		return lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if !limiterFor(ClientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// ClientIP trusts X-Forwarded-For and X-Real-IP only from loopback or
// private peers. Forwarded hops are read right to left and the first
// address that is not itself a trusted proxy wins, since only the entries
// appended by our own proxies are reliable.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer := net.ParseIP(host)
	if peer == nil {
		return host
	}
	if !trustedProxy(peer) {
		return peer.String()
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		last := peer
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				break
			}
			if !trustedProxy(ip) {
				return ip.String()
			}
			last = ip
		}
		return last.String()
	}
	if xri := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); xri != nil {
		return xri.String()
	}
	return peer.String()
}

func trustedProxy(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate()
}
