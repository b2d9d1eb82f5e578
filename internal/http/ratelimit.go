package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// writeLimiter caps mutating requests per client in fixed one-minute
// windows. Reads are never limited.
type writeLimiter struct {
	mu        sync.Mutex
	perMinute int
	now       func() time.Time
	clients   map[string]*window
	lastSweep time.Time
}

type window struct {
	start time.Time
	count int
}

const (
	defaultWritesPerMinute = 120
	staleAfter             = 10 * time.Minute
)

func newWriteLimiter(perMinute int) *writeLimiter {
	return &writeLimiter{
		perMinute: perMinute,
		now:       time.Now,
		clients:   make(map[string]*window),
	}
}

// allow records one request from client and reports whether it fits the
// current window, plus the time left until the window resets.
func (l *writeLimiter) allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > staleAfter {
		for k, w := range l.clients {
			if now.Sub(w.start) > staleAfter {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.clients[client] = &window{start: now, count: 1}
		return true, 0
	}
	w.count++
	if w.count > l.perMinute {
		return false, time.Minute - now.Sub(w.start)
	}
	return true, 0
}

func (l *writeLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		ok, retry := l.allow(clientKey(r))
		if !ok {
			secs := int(retry.Seconds())
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
				Kind:    "rate_limited",
				Message: "Muitas requisições, tente novamente em instantes",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the remote host. RealIP runs earlier and has already applied
// any forwarding headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
