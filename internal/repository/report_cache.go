package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/internal/metrics"
)

const reportKeyPrefix = "lotpilot:report:"

// ReportCache is a Redis read-through cache for stored reports. Reports are
// immutable once written, so entries only leave by TTL or vehicle deletion.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewReportCache creates a cache over an existing client
func NewReportCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, log: log}
}

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Wrap decorates a report repository with the cache
func (c *ReportCache) Wrap(inner ReportRepository) ReportRepository {
	return &cachedReportRepository{inner: inner, cache: c}
}

func reportKey(id uuid.UUID) string {
	return reportKeyPrefix + id.String()
}

func (c *ReportCache) get(ctx context.Context, id uuid.UUID) (*Report, bool) {
	val, err := c.client.Get(ctx, reportKey(id)).Bytes()
	if err == redis.Nil {
		metrics.ReportCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.ReportCacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("report cache read failed", "report_id", id, "error", err)
		return nil, false
	}

	var report Report
	if err := json.Unmarshal(val, &report); err != nil {
		metrics.ReportCacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("report cache entry corrupt", "report_id", id, "error", err)
		return nil, false
	}
	metrics.ReportCacheLookups.WithLabelValues("hit").Inc()
	return &report, true
}

func (c *ReportCache) put(ctx context.Context, report *Report) {
	data, err := json.Marshal(report)
	if err != nil {
		c.log.Warn("report cache encode failed", "report_id", report.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, reportKey(report.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn("report cache write failed", "report_id", report.ID, "error", err)
	}
}

type cachedReportRepository struct {
	inner ReportRepository
	cache *ReportCache
}

func (r *cachedReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	if report, ok := r.cache.get(ctx, id); ok {
		return report, nil
	}
	report, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.put(ctx, report)
	return report, nil
}

func (r *cachedReportRepository) GetAll(ctx context.Context, filters ReportFilters) ([]Report, error) {
	return r.inner.GetAll(ctx, filters)
}

func (r *cachedReportRepository) Create(ctx context.Context, report *Report) error {
	if err := r.inner.Create(ctx, report); err != nil {
		return err
	}
	r.cache.put(ctx, report)
	return nil
}

func (r *cachedReportRepository) DeleteByVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	reports, err := r.inner.GetAll(ctx, ReportFilters{VehicleID: &vehicleID})
	if err != nil {
		return err
	}
	if err := r.inner.DeleteByVehicle(ctx, vehicleID); err != nil {
		return err
	}
	if len(reports) == 0 {
		return nil
	}

	keys := make([]string, len(reports))
	for i := range reports {
		keys[i] = reportKey(reports[i].ID)
	}
	if err := r.cache.client.Del(ctx, keys...).Err(); err != nil {
		r.cache.log.Warn("report cache eviction failed", "vehicle_id", vehicleID, "error", err)
	}
	return nil
}
