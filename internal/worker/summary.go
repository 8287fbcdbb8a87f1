package worker

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/review"
)

// SummaryJob recomputes materialized review summaries.
type SummaryJob struct {
	config SummaryConfig
	repo   review.Repository
	logger zerolog.Logger

	metrics *SummaryMetrics
}

// SummaryMetrics tracks summary job statistics.
type SummaryMetrics struct {
	mu sync.RWMutex

	TotalRuns      int64
	ObjectsUpdated int64
	ObjectsFailed  int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// SummaryJobConfig holds configuration for creating a SummaryJob.
type SummaryJobConfig struct {
	Config SummaryConfig
	Repo   review.Repository
	Logger zerolog.Logger
}

// NewSummaryJob creates a new summary job processor.
func NewSummaryJob(cfg SummaryJobConfig) *SummaryJob {
	return &SummaryJob{
		config:  cfg.Config.withDefaults(),
		repo:    cfg.Repo,
		logger:  cfg.Logger,
		metrics: &SummaryMetrics{},
	}
}

// SummaryResult contains the result of a summary run.
type SummaryResult struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalObjects int
	Updated      int
	Failed       int
	Errors       []SummaryError
}

// SummaryError represents a failure to recompute one object.
type SummaryError struct {
	ObjectID string
	Error    string
}

// RefreshObject recomputes and materializes the summary for one object.
func (j *SummaryJob) RefreshObject(ctx context.Context, objectID string) error {
	objCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	summary, err := j.repo.Summarize(objCtx, objectID)
	if err != nil {
		return err
	}

	summary.AvgRating = math.Round(summary.AvgRating*100) / 100

	if err := j.repo.UpsertSummary(objCtx, summary); err != nil {
		return err
	}

	j.logger.Debug().
		Str("object_id", objectID).
		Int("count", summary.Count).
		Float64("avg_rating", summary.AvgRating).
		Msg("summary refreshed")

	return nil
}

// Run recomputes summaries for every object that has reviews.
func (j *SummaryJob) Run(ctx context.Context) *SummaryResult {
	startTime := time.Now()
	result := &SummaryResult{StartTime: startTime}

	objectIDs, err := j.repo.ObjectIDs(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list reviewed objects")
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		return result
	}

	result.TotalObjects = len(objectIDs)

	j.logger.Info().
		Int("total_objects", result.TotalObjects).
		Int("concurrency", j.config.Concurrency).
		Msg("starting summary refresh job")

	objectsChan := make(chan string, len(objectIDs))
	resultsChan := make(chan objectResult, len(objectIDs))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.summaryWorker(ctx, objectsChan, resultsChan)
		}()
	}

	for _, id := range objectIDs {
		objectsChan <- id
	}
	close(objectsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for or := range resultsChan {
		if or.err == nil {
			result.Updated++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, SummaryError{
				ObjectID: or.objectID,
				Error:    or.err.Error(),
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("summary refresh job completed")

	return result
}

type objectResult struct {
	objectID string
	err      error
}

func (j *SummaryJob) summaryWorker(ctx context.Context, objects <-chan string, results chan<- objectResult) {
	for objectID := range objects {
		select {
		case <-ctx.Done():
			results <- objectResult{objectID: objectID, err: ctx.Err()}
		default:
			results <- objectResult{objectID: objectID, err: j.RefreshObject(ctx, objectID)}
		}
	}
}

func (j *SummaryJob) updateMetrics(result *SummaryResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.ObjectsUpdated += int64(result.Updated)
	j.metrics.ObjectsFailed += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *SummaryJob) GetMetrics() SummaryMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return SummaryMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		ObjectsUpdated:  j.metrics.ObjectsUpdated,
		ObjectsFailed:   j.metrics.ObjectsFailed,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *SummaryJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"objects_updated":   m.ObjectsUpdated,
		"objects_failed":    m.ObjectsFailed,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
