package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limit describes a bucket as requests per window plus burst. A non-positive
// Requests disables the bucket.
type Limit struct {
	Requests      int
	WindowSeconds int
	Burst         int
}

func (l Limit) limiter() *rate.Limiter {
	window := l.WindowSeconds
	if window <= 0 {
		window = 60
	}
	burst := l.Burst
	if burst < l.Requests {
		burst = l.Requests
	}
	return rate.NewLimiter(rate.Limit(float64(l.Requests)/float64(window)), burst)
}

// RateLimitManager keeps per-IP limiters for general traffic and uploads and
// drops the ones that have gone quiet.
type RateLimitManager struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	uploads  map[string]*visitor
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewRateLimitManager(ctx context.Context) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)

	m := &RateLimitManager{
		visitors: make(map[string]*visitor),
		uploads:  make(map[string]*visitor),
		ctx:      managerCtx,
		cancel:   cancel,
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// Visitor returns the general limiter for ip, or nil when limiting is off.
func (m *RateLimitManager) Visitor(ip string, limit Limit) *rate.Limiter {
	return m.get(m.visitors, ip, limit)
}

// UploadLimiter returns the upload limiter for ip, or nil when limiting is off.
func (m *RateLimitManager) UploadLimiter(ip string, limit Limit) *rate.Limiter {
	return m.get(m.uploads, ip, limit)
}

func (m *RateLimitManager) get(visitors map[string]*visitor, ip string, limit Limit) *rate.Limiter {
	if limit.Requests <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		v = &visitor{limiter: limit.limiter()}
		visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (m *RateLimitManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.cleanup(now)
		}
	}
}

func (m *RateLimitManager) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ip, v := range m.visitors {
		if now.Sub(v.lastSeen) > 3*time.Minute {
			delete(m.visitors, ip)
		}
	}
	for ip, v := range m.uploads {
		if now.Sub(v.lastSeen) > 10*time.Minute {
			delete(m.uploads, ip)
		}
	}
}

// Shutdown stops the cleanup goroutine and waits for it to finish.
func (m *RateLimitManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}
