package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace = "newsdesk:jobs"

	DefaultMaxRetries = 3
	JobTTL            = 24 * time.Hour

	defaultWorkers      = 3
	defaultRetryDelay   = time.Minute
	defaultStuckAfter   = 10 * time.Minute
	maintenanceInterval = time.Second
	dequeueTimeout      = time.Second
)

// Handler runs one job. A returned error marks the job failed and retries it
// while retries are left.
type Handler func(ctx context.Context, job *Job) error

// queueKeys are the redis keys one queue works on.
type queueKeys struct {
	job        string // prefix, one string key per job
	pending    string // list
	processing string // list
	delayed    string // sorted set scored by due time in ms
	stats      string // hash
}

func keysFor(namespace string) queueKeys {
	return queueKeys{
		job:        namespace + ":job:",
		pending:    namespace + ":pending",
		processing: namespace + ":processing",
		delayed:    namespace + ":delayed",
		stats:      namespace + ":stats",
	}
}

func (k queueKeys) jobKey(id string) string {
	return k.job + id
}

// Queue runs background jobs stored in redis. Failed jobs wait in a delayed
// set so retries survive a restart.
type Queue struct {
	client     *redis.Client
	keys       queueKeys
	workers    int
	retryDelay time.Duration
	stuckAfter time.Duration

	handlersMu sync.RWMutex
	handlers   map[JobType]Handler

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewQueue creates a queue with the given number of workers
func NewQueue(client *redis.Client, workers int) *Queue {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Queue{
		client:     client,
		keys:       keysFor(keyNamespace),
		workers:    workers,
		retryDelay: defaultRetryDelay,
		stuckAfter: defaultStuckAfter,
		handlers:   make(map[JobType]Handler),
	}
}

// Handle registers the handler for jobType, replacing any earlier one.
func (q *Queue) Handle(jobType JobType, h Handler) {
	q.handlersMu.Lock()
	defer q.handlersMu.Unlock()
	q.handlers[jobType] = h
}

func (q *Queue) handler(jobType JobType) (Handler, bool) {
	q.handlersMu.RLock()
	defer q.handlersMu.RUnlock()
	h, ok := q.handlers[jobType]
	return h, ok
}

// Start launches the workers and the maintenance loop
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	log.Infof("[JobQueue] Starting %d workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}

	q.wg.Add(1)
	go q.maintain(ctx, maintenanceInterval)
}

// Stop waits for running jobs to finish. Pending jobs stay in redis.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cancel == nil {
		return
	}

	log.Info("[JobQueue] Stopping workers...")
	q.cancel()
	q.wg.Wait()
	q.cancel = nil
	log.Info("[JobQueue] All workers stopped")
}

// IsRunning reports whether the workers are started
func (q *Queue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cancel != nil
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	log.Debugf("[JobQueue] Worker %d started", id)

	for ctx.Err() == nil {
		job, err := q.dequeueJob(ctx)
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			log.Errorf("[JobQueue] Worker %d: Error dequeuing job: %v", id, err)
			sleep(ctx, time.Second)
			continue
		}

		log.Infof("[JobQueue] Worker %d processing job %s (Type: %s)", id, job.ID, job.Type)
		// a job that has started is allowed to finish during shutdown
		q.processJob(context.WithoutCancel(ctx), job)
	}
	log.Debugf("[JobQueue] Worker %d stopped", id)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// maintain moves due retries back to pending and recovers jobs left in
// processing by a crashed worker.
func (q *Queue) maintain(ctx context.Context, interval time.Duration) {
	defer q.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n, err := q.promoteDue(ctx, now); err != nil {
				log.Errorf("[JobQueue] Promoting delayed jobs failed: %v", err)
			} else if n > 0 {
				log.Debugf("[JobQueue] Promoted %d delayed jobs", n)
			}
			if _, err := q.recoverStuck(ctx, now); err != nil {
				log.Errorf("[JobQueue] Recovering stuck jobs failed: %v", err)
			}
		}
	}
}

// promoteDue pushes every delayed job due at now onto the pending list.
func (q *Queue) promoteDue(ctx context.Context, now time.Time) (int, error) {
	ids, err := q.client.ZRangeByScore(ctx, q.keys.delayed, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, id := range ids {
		// ZRem decides which caller owns the job
		removed, err := q.client.ZRem(ctx, q.keys.delayed, id).Result()
		if err != nil {
			return promoted, err
		}
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, q.keys.pending, id).Err(); err != nil {
			return promoted, err
		}
		promoted++
	}
	return promoted, nil
}

// recoverStuck requeues jobs that have been processing longer than stuckAfter
// and drops processing entries whose job data is gone.
func (q *Queue) recoverStuck(ctx context.Context, now time.Time) (int, error) {
	ids, err := q.client.LRange(ctx, q.keys.processing, 0, -1).Result()
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, id := range ids {
		job, err := q.loadJob(ctx, id)
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Warnf("[JobQueue] Dropping unreadable job %s: %v", id, err)
			}
			q.removeFromProcessing(ctx, id)
			continue
		}
		if job.Status != JobStatusProcessing {
			continue
		}

		age := now.Sub(job.startedAt())
		if age <= q.stuckAfter {
			continue
		}

		log.Warnf("[JobQueue] Recovering stuck job %s (type=%s), age=%s", job.ID, job.Type, age)
		job.Status = JobStatusPending
		job.ErrorMsg = "recovered after worker timeout"
		job.UpdatedAt = now
		q.saveJob(ctx, job)

		_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LRem(ctx, q.keys.processing, 1, id)
			pipe.RPush(ctx, q.keys.pending, id)
			return nil
		})
		if err != nil {
			return recovered, err
		}
		recovered++
	}
	return recovered, nil
}

// EnqueueJob stores a new job and appends it to the pending list
func (q *Queue) EnqueueJob(jobType JobType, payload map[string]interface{}) (*Job, error) {
	ctx := context.Background()

	now := time.Now()
	job := &Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Status:     JobStatusPending,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
		MaxRetries: DefaultMaxRetries,
	}

	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, q.keys.jobKey(job.ID), data, JobTTL)
		pipe.LPush(ctx, q.keys.pending, job.ID)
		pipe.HIncrBy(ctx, q.keys.stats, string(JobStatusPending), 1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Infof("[JobQueue] Enqueued job %s (Type: %s)", job.ID, job.Type)
	return job, nil
}

// dequeueJob blocks up to dequeueTimeout for the next job. redis.Nil means
// the queue stayed empty.
func (q *Queue) dequeueJob(ctx context.Context) (*Job, error) {
	id, err := q.client.BRPopLPush(ctx, q.keys.pending, q.keys.processing, dequeueTimeout).Result()
	if err != nil {
		return nil, err
	}

	job, err := q.loadJob(ctx, id)
	if err != nil {
		q.removeFromProcessing(ctx, id)
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("job data not found for ID %s", id)
		}
		return nil, err
	}
	return job, nil
}

func (q *Queue) processJob(ctx context.Context, job *Job) {
	job.MarkAsProcessing()
	q.saveJob(ctx, job)
	defer q.removeFromProcessing(ctx, job.ID)

	var err error
	if h, ok := q.handler(job.Type); ok {
		err = h(ctx, job)
	} else {
		err = fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err == nil {
		log.Infof("[JobQueue] Job %s completed", job.ID)
		job.MarkAsCompleted()
		q.updateJobStats(ctx, JobStatusCompleted, 1)
		if err := q.client.Del(ctx, q.keys.jobKey(job.ID)).Err(); err != nil {
			log.Errorf("[JobQueue] Failed to remove completed job %s: %v", job.ID, err)
		}
		return
	}

	log.Errorf("[JobQueue] Job %s failed: %v", job.ID, err)
	job.MarkAsFailed(err.Error())
	if !job.IsRetryable() {
		log.Errorf("[JobQueue] Job %s permanently failed after %d attempts", job.ID, job.RetryCount)
		q.saveJob(ctx, job)
		q.updateJobStats(ctx, JobStatusFailed, 1)
		return
	}

	job.MarkAsRetrying()
	q.saveJob(ctx, job)
	due := time.Now().Add(q.retryDelay * time.Duration(job.RetryCount))
	if err := q.client.ZAdd(ctx, q.keys.delayed, redis.Z{Score: float64(due.UnixMilli()), Member: job.ID}).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to schedule retry of job %s: %v", job.ID, err)
		return
	}
	log.Infof("[JobQueue] Job %s retries at %s (attempt %d/%d)", job.ID, due.Format(time.RFC3339), job.RetryCount, job.MaxRetries)
}

func (q *Queue) loadJob(ctx context.Context, id string) (*Job, error) {
	data, err := q.client.Get(ctx, q.keys.jobKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", id, err)
	}
	return &job, nil
}

func (q *Queue) saveJob(ctx context.Context, job *Job) {
	data, err := json.Marshal(job)
	if err != nil {
		log.Errorf("[JobQueue] Failed to marshal job %s: %v", job.ID, err)
		return
	}
	if err := q.client.Set(ctx, q.keys.jobKey(job.ID), data, JobTTL).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to update job %s: %v", job.ID, err)
	}
}

func (q *Queue) removeFromProcessing(ctx context.Context, id string) {
	if err := q.client.LRem(ctx, q.keys.processing, 1, id).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to remove job %s from processing: %v", id, err)
	}
}

func (q *Queue) updateJobStats(ctx context.Context, status JobStatus, delta int64) {
	if err := q.client.HIncrBy(ctx, q.keys.stats, string(status), delta).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to update job stats: %v", err)
	}
}

// Stats reports the queue lengths and the completed and failed totals.
func (q *Queue) Stats(ctx context.Context) (map[string]int64, error) {
	var queued, processing, delayed *redis.IntCmd
	var totals *redis.MapStringStringCmd
	_, err := q.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		queued = pipe.LLen(ctx, q.keys.pending)
		processing = pipe.LLen(ctx, q.keys.processing)
		delayed = pipe.ZCard(ctx, q.keys.delayed)
		totals = pipe.HGetAll(ctx, q.keys.stats)
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := map[string]int64{
		"queued":     queued.Val(),
		"processing": processing.Val(),
		"delayed":    delayed.Val(),
		"completed":  0,
		"failed":     0,
	}
	for _, status := range []JobStatus{JobStatusCompleted, JobStatusFailed} {
		if n, err := strconv.ParseInt(totals.Val()[string(status)], 10, 64); err == nil {
			stats[string(status)] = n
		}
	}
	return stats, nil
}
