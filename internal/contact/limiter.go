package contact

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles submissions per client key
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	idle     time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter allows perMinute submissions per key with a small burst.
// perMinute <= 0 disables limiting.
func NewLimiter(perMinute int) *Limiter {
	l := &Limiter{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Inf,
		burst:    1,
		idle:     10 * time.Minute,
	}
	if perMinute > 0 {
		l.rps = rate.Limit(float64(perMinute) / 60.0)
		l.burst = perMinute
	}
	return l
}

// Allow reports whether key may submit now
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cl, ok := l.limiters[key]
	if !ok {
		l.sweep(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}

// sweep drops limiters that have been idle; caller holds mu
func (l *Limiter) sweep(now time.Time) {
	for key, cl := range l.limiters {
		if now.Sub(cl.lastSeen) > l.idle {
			delete(l.limiters, key)
		}
	}
}
