package jobqueue

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// CounterFlusher writes buffered counters to the database
type CounterFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// Manager runs the job queue and the periodic background tasks
type Manager struct {
	queue              *Queue
	counters           CounterFlusher
	flushInterval      time.Duration
	counterFlushTicker *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

// NewManager wires a queue and a counter flusher. Either may be nil.
func NewManager(queue *Queue, counters CounterFlusher, flushInterval time.Duration) *Manager {
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	return &Manager{
		queue:         queue,
		counters:      counters,
		flushInterval: flushInterval,
		stopCh:        make(chan struct{}),
	}
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	if m.queue != nil {
		m.queue.Start()
	}

	if m.counters != nil {
		m.counterFlushTicker = time.NewTicker(m.flushInterval)
		m.wg.Add(1)
		go m.counterFlushWorker(m.stopCh, m.counterFlushTicker)
	}

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the background tasks, flushes the counters one last time and
// stops the job queue.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}

	close(m.stopCh)
	m.running = false
	m.wg.Wait()

	if m.counters != nil {
		if err := m.flushCountersOnce(); err != nil {
			log.Errorf("[JobQueue Manager] Final counter flush error: %v", err)
		}
	}

	if m.queue != nil {
		m.queue.Stop()
	}

	log.Info("[JobQueue Manager] Stopped successfully")
}

// counterFlushWorker periodically flushes buffered counters from Redis to DB
func (m *Manager) counterFlushWorker(stopCh <-chan struct{}, ticker *time.Ticker) {
	defer m.wg.Done()
	for {
		select {
		case <-stopCh:
			log.Info("[JobQueue Manager] Counter flush worker stopping")
			return
		case <-ticker.C:
			if err := m.flushCountersOnce(); err != nil {
				log.Errorf("[JobQueue Manager] Counter flush error: %v", err)
			}
		}
	}
}

func (m *Manager) flushCountersOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	n, err := m.counters.Flush(ctx)
	if err == nil && n > 0 {
		log.Debugf("[JobQueue Manager] Flushed view counters of %d articles", n)
	}
	return err
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
