package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/internal/metrics"
	"github.com/ajharbinger/lotpilot/internal/models"
	"github.com/ajharbinger/lotpilot/internal/repository"
)

// ReanalysisPipeline re-analyzes every active vehicle, either on demand or
// on a fixed interval, and stores a fresh report for each
type ReanalysisPipeline struct {
	repos    *repository.Repositories
	analysis AnalysisService
	log      logger.Logger
	workers  int

	mu        sync.RWMutex
	isRunning bool
	interval  time.Duration
	inCycle   bool
	lastRun   *RunStats
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewReanalysisPipeline creates a pipeline analyzing up to workers vehicles at once
func NewReanalysisPipeline(repos *repository.Repositories, analysisSvc AnalysisService, log logger.Logger, workers int) *ReanalysisPipeline {
	if workers < 1 {
		workers = 1
	}
	return &ReanalysisPipeline{
		repos:    repos,
		analysis: analysisSvc,
		log:      log,
		workers:  workers,
	}
}

// RunStats describes one reanalysis cycle
type RunStats struct {
	StartTime        time.Time      `json:"start_time"`
	EndTime          time.Time      `json:"end_time"`
	Duration         time.Duration  `json:"duration"`
	VehiclesFound    int            `json:"vehicles_found"`
	VehiclesAnalyzed int            `json:"vehicles_analyzed"`
	VehiclesFailed   int            `json:"vehicles_failed"`
	PriceActions     map[string]int `json:"price_actions"`
	ExitPaths        map[string]int `json:"exit_paths"`
}

// Summary renders the stats for logs
func (s *RunStats) Summary() string {
	return fmt.Sprintf("found=%d, analyzed=%d, failed=%d, duration=%v",
		s.VehiclesFound, s.VehiclesAnalyzed, s.VehiclesFailed, s.Duration.Round(time.Millisecond))
}

// PipelineStatus is a point-in-time view of the pipeline
type PipelineStatus struct {
	IsRunning       bool      `json:"is_running"`
	CycleInProgress bool      `json:"cycle_in_progress"`
	Interval        string    `json:"interval,omitempty"`
	Workers         int       `json:"workers"`
	LastRun         *RunStats `json:"last_run"`
	Timestamp       time.Time `json:"timestamp"`
}

// Start begins re-analyzing on the given interval, with one cycle immediately
func (p *ReanalysisPipeline) Start(interval time.Duration) error {
	if interval <= 0 {
		return errors.InvalidInput("reanalysis interval must be positive", nil)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return errors.Conflict("pipeline is already running", nil)
	}
	p.isRunning = true
	p.interval = interval
	p.stopChan = make(chan struct{})

	p.wg.Add(1)
	go p.runPipeline(interval, p.stopChan)

	p.log.Info("reanalysis pipeline started", "interval", interval.String(), "workers", p.workers)
	return nil
}

// Stop gracefully stops the interval loop, waiting for a running cycle
func (p *ReanalysisPipeline) Stop() error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return errors.Conflict("pipeline is not running", nil)
	}
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	p.isRunning = false
	p.interval = 0
	p.mu.Unlock()

	p.log.Info("reanalysis pipeline stopped")
	return nil
}

// IsRunning returns whether the interval loop is active
func (p *ReanalysisPipeline) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// RunOnce executes a single cycle. It fails with CONFLICT while another
// cycle is in progress.
func (p *ReanalysisPipeline) RunOnce(ctx context.Context) (*RunStats, error) {
	return p.executeCycle(ctx)
}

// Status returns a snapshot of the pipeline
func (p *ReanalysisPipeline) Status() PipelineStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := PipelineStatus{
		IsRunning:       p.isRunning,
		CycleInProgress: p.inCycle,
		Workers:         p.workers,
		LastRun:         p.lastRun,
		Timestamp:       time.Now().UTC(),
	}
	if p.interval > 0 {
		status.Interval = p.interval.String()
	}
	return status
}

func (p *ReanalysisPipeline) runPipeline(interval time.Duration, stop <-chan struct{}) {
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logCycle(p.executeCycle(ctx))
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.logCycle(p.executeCycle(ctx))
		}
	}
}

func (p *ReanalysisPipeline) logCycle(stats *RunStats, err error) {
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeConflict {
			p.log.Debug("reanalysis cycle skipped, previous cycle still running")
			return
		}
		p.log.Error("reanalysis cycle failed", err)
		return
	}
	p.log.Info("reanalysis cycle completed", "summary", stats.Summary())
}

func (p *ReanalysisPipeline) beginCycle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inCycle {
		return false
	}
	p.inCycle = true
	return true
}

func (p *ReanalysisPipeline) endCycle(stats *RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inCycle = false
	if stats != nil {
		p.lastRun = stats
	}
}

// executeCycle analyzes every active vehicle with bounded concurrency
func (p *ReanalysisPipeline) executeCycle(ctx context.Context) (*RunStats, error) {
	if !p.beginCycle() {
		metrics.ReanalysisRuns.WithLabelValues("skipped").Inc()
		return nil, errors.Conflict("a reanalysis cycle is already in progress", nil)
	}

	stats := &RunStats{
		StartTime:    time.Now().UTC(),
		PriceActions: map[string]int{},
		ExitPaths:    map[string]int{},
	}

	vehicles, err := p.repos.Vehicle.GetAll(ctx, repository.VehicleFilters{
		Status: []models.VehicleStatus{models.VehicleActive},
	})
	if err != nil {
		p.endCycle(nil)
		metrics.ReanalysisRuns.WithLabelValues("failed").Inc()
		return nil, withOperation(err, "reanalyze_inventory")
	}
	stats.VehiclesFound = len(vehicles)

	semaphore := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := range vehicles {
		wg.Add(1)
		go func(v *models.Vehicle) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				mu.Lock()
				stats.VehiclesFailed++
				mu.Unlock()
				return
			}

			report, err := p.analysis.AnalyzeAndStore(ctx, v)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.log.Warn("reanalysis failed for vehicle", "vehicle_id", v.ID, "error", err)
				stats.VehiclesFailed++
				return
			}
			stats.VehiclesAnalyzed++
			stats.PriceActions[report.PriceAction()]++
			stats.ExitPaths[report.ExitPath()]++
		}(&vehicles[i])
	}
	wg.Wait()

	stats.EndTime = time.Now().UTC()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	p.endCycle(stats)

	result := "success"
	if stats.VehiclesFailed > 0 {
		result = "partial"
	}
	metrics.ReanalysisRuns.WithLabelValues(result).Inc()
	metrics.ReanalysisVehicles.Set(float64(stats.VehiclesAnalyzed))

	return stats, nil
}
