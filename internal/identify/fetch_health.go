package identify

import (
	"strings"
	"sync"
	"time"
)

const (
	maxRecentFailures    = 20
	failureRateThreshold = 0.2
	consecutiveThreshold = 5
)

// FetchFailure is a single failed listing fetch
type FetchFailure struct {
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
	Error     string    `json:"error"`
}

// FetchHealthStatus is a snapshot of listing fetch outcomes
type FetchHealthStatus struct {
	IsHealthy           bool           `json:"is_healthy"`
	TotalRequests       int64          `json:"total_requests"`
	FailedRequests      int64          `json:"failed_requests"`
	SuccessRate         float64        `json:"success_rate"`
	ConsecutiveFailures int64          `json:"consecutive_failures"`
	LastSuccessTime     *time.Time     `json:"last_success_time,omitempty"`
	RecentFailures      []FetchFailure `json:"recent_failures"`
	HealthIssues        []string       `json:"health_issues"`
}

// fetchHealth tracks listing fetch success and failure rates
type fetchHealth struct {
	mu                  sync.RWMutex
	total               int64
	failed              int64
	consecutiveFailures int64
	lastSuccess         time.Time
	recent              []FetchFailure
}

func (h *fetchHealth) recordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.total++
	h.consecutiveFailures = 0
	h.lastSuccess = time.Now()
}

func (h *fetchHealth) recordFailure(url string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.total++
	h.failed++
	h.consecutiveFailures++
	h.recent = append(h.recent, FetchFailure{Timestamp: time.Now(), URL: url, Error: err.Error()})
	if len(h.recent) > maxRecentFailures {
		h.recent = h.recent[1:]
	}
}

func (h *fetchHealth) status() FetchHealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := FetchHealthStatus{
		IsHealthy:           true,
		TotalRequests:       h.total,
		FailedRequests:      h.failed,
		SuccessRate:         1.0,
		ConsecutiveFailures: h.consecutiveFailures,
		RecentFailures:      append([]FetchFailure{}, h.recent...),
		HealthIssues:        []string{},
	}
	if h.total > 0 {
		status.SuccessRate = float64(h.total-h.failed) / float64(h.total)
	}
	if !h.lastSuccess.IsZero() {
		last := h.lastSuccess
		status.LastSuccessTime = &last
	}

	if h.total >= 10 && status.SuccessRate < 1-failureRateThreshold {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "High listing fetch failure rate (>20%)")
	}
	if h.consecutiveFailures >= consecutiveThreshold {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "Multiple consecutive listing fetch failures")
	}

	// a dominant error category gets its own issue
	if len(h.recent) >= 3 {
		counts := map[string]int{}
		for _, f := range h.recent {
			counts[categorizeFetchError(f.Error)]++
		}
		for category, n := range counts {
			if category == "other" || float64(n)/float64(len(h.recent)) <= 0.5 {
				continue
			}
			status.HealthIssues = append(status.HealthIssues, "Frequent "+category+" errors on listing fetches")
		}
	}
	return status
}

func categorizeFetchError(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "429"):
		return "rate_limit"
	case strings.Contains(msg, "403") || strings.Contains(msg, "401") || strings.Contains(msg, "non-public"):
		return "blocked"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host"):
		return "network"
	default:
		return "other"
	}
}
