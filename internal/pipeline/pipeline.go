package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"feedpipe/internal/analytics"
	"feedpipe/internal/config"
	"feedpipe/internal/export"
	"feedpipe/internal/generator"
	"feedpipe/internal/logger"
	"feedpipe/internal/metrics"
	"feedpipe/internal/models"
	"feedpipe/internal/queue"
	"feedpipe/internal/transform"
	"feedpipe/internal/validate"
)

// State is the pipeline lifecycle stage.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrAlreadyStarted is returned when Run is called on a used pipeline.
var ErrAlreadyStarted = errors.New("pipeline already started")

// ErrProducerDied indicates the producer loop exited before reaching its
// quota, which is fatal to the run.
var ErrProducerDied = errors.New("producer exited before reaching its quota")

// Pipeline owns the bounded queue and the two concurrent loops that feed
// and drain it, plus a monitor that reports status and reacts to producer
// completion or failure.
type Pipeline struct {
	cfg *config.Config
	gen *generator.Generator
	q   *queue.Queue
	agg *analytics.Aggregator

	state atomic.Int32

	producerRunning atomic.Bool
	consumerRunning atomic.Bool
	stopCh          chan struct{}
	stopOnce        sync.Once

	producerDone chan struct{}
	consumerDone chan struct{}

	processed atomic.Int64
	failed    atomic.Int64

	httpDone func(context.Context) error
}

// Stats is a point-in-time view of pipeline progress.
type Stats struct {
	State       string  `json:"state"`
	Generated   int64   `json:"generated"`
	MaxPosts    int     `json:"max_posts"`
	Processed   int64   `json:"processed"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
	QueueSize   int     `json:"queue_size"`
	QueueCap    int     `json:"queue_capacity"`
}

// New constructs a Pipeline with the given config.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		gen:          generator.New(),
		q:            queue.New(cfg.Pipeline.QueueCapacity),
		agg:          analytics.New(cfg.Consumer.ErrorLogCap),
		stopCh:       make(chan struct{}),
		producerDone: make(chan struct{}),
		consumerDone: make(chan struct{}),
	}
}

// Run starts the consumer, then the producer after a brief readiness delay,
// and blocks monitoring the run until completion, failure, or cancellation.
// On normal completion it drains in-flight work and finalizes analytics.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}

	log := logger.WithComponent("pipeline")
	log.Info().
		Int("max_posts", p.cfg.Producer.MaxPosts).
		Dur("interval", p.cfg.Producer.Interval).
		Int("queue_capacity", p.cfg.Pipeline.QueueCapacity).
		Msg("pipeline starting")

	metrics.QueueCapacity.Set(float64(p.q.Cap()))

	if p.cfg.Pipeline.MetricsAddr != "" {
		p.startHTTPServer(p.cfg.Pipeline.MetricsAddr)
	}

	// Consumer first so it is ready for data.
	p.consumerRunning.Store(true)
	go p.consumerLoop()

	select {
	case <-time.After(p.cfg.Pipeline.ReadinessDelay):
	case <-ctx.Done():
	}

	p.producerRunning.Store(true)
	go p.producerLoop()

	err := p.monitor(ctx)

	p.finalize()
	p.shutdownHTTPServer()
	p.state.Store(int32(StateStopped))
	log.Info().Msg("pipeline stopped")
	return err
}

// monitor watches producer liveness and reports status until the run ends.
func (p *Pipeline) monitor(ctx context.Context) error {
	log := logger.WithComponent("pipeline")
	ticker := time.NewTicker(p.cfg.Pipeline.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("cancellation received, stopping pipeline")
			p.signalStop()
			p.waitFor(p.producerDone, "producer")
			p.drain(context.Background())
			return nil

		case <-p.producerDone:
			if p.stopRequested() {
				log.Info().Msg("stop requested, draining remaining work")
				p.drain(context.Background())
				return nil
			}
			if p.gen.Generated() < int64(p.cfg.Producer.MaxPosts) {
				log.Error().
					Int64("generated", p.gen.Generated()).
					Int("max_posts", p.cfg.Producer.MaxPosts).
					Msg("producer exited unexpectedly")
				p.signalStop()
				p.consumerRunning.Store(false)
				p.waitFor(p.consumerDone, "consumer")
				return fmt.Errorf("%w: %d/%d generated",
					ErrProducerDied, p.gen.Generated(), p.cfg.Producer.MaxPosts)
			}
			log.Info().Msg("producer completed successfully")
			p.drain(ctx)
			return nil

		case <-ticker.C:
			p.logStatus()
		}
	}
}

// drain transitions to Draining, waits for in-flight records, then stops
// the consumer via the sentinel.
func (p *Pipeline) drain(ctx context.Context) {
	log := logger.WithComponent("pipeline")
	p.state.Store(int32(StateDraining))
	log.Info().Int("queue_size", p.q.Len()).Msg("draining queue")

	joinCtx, cancel := context.WithTimeout(ctx, p.cfg.Pipeline.ShutdownTimeout)
	defer cancel()
	if err := p.q.JoinContext(joinCtx); err != nil {
		log.Warn().
			Int("in_flight", p.q.InFlight()).
			Msg("drain timed out with records still in flight")
	}

	if err := p.q.PutSentinel(p.cfg.Producer.PutTimeout); err != nil {
		// Queue jammed; fall back to the cooperative flag.
		log.Warn().Err(err).Msg("failed to enqueue sentinel, stopping consumer via flag")
		p.consumerRunning.Store(false)
	}

	p.waitFor(p.consumerDone, "consumer")
}

// Stop cooperatively stops the pipeline and bounded-waits for both loops.
// The monitor observes the producer's exit, drains in-flight records, and
// releases the consumer via the sentinel. Safe to call more than once and
// from any goroutine.
func (p *Pipeline) Stop() {
	p.signalStop()
	p.waitFor(p.producerDone, "producer")
	p.waitFor(p.consumerDone, "consumer")
}

// signalStop flips the producer's running flag and wakes any pause. It does
// not block.
func (p *Pipeline) signalStop() {
	p.stopOnce.Do(func() {
		p.producerRunning.Store(false)
		close(p.stopCh)
	})
}

func (p *Pipeline) stopRequested() bool {
	select {
	case <-p.stopCh:
		return true
	default:
		return false
	}
}

// waitFor blocks until the loop signals exit or the shutdown bound elapses.
// A loop overrunning the bound is an anomaly, not a failure.
func (p *Pipeline) waitFor(done <-chan struct{}, name string) {
	select {
	case <-done:
	case <-time.After(p.cfg.Pipeline.ShutdownTimeout):
		log := logger.WithComponent("pipeline")
		log.Warn().
			Str("loop", name).
			Dur("timeout", p.cfg.Pipeline.ShutdownTimeout).
			Msg("loop did not exit within shutdown timeout")
	}
}

// producerLoop generates records and pushes them into the queue, backing
// off and retrying the same record when the queue is full.
func (p *Pipeline) producerLoop() {
	defer close(p.producerDone)
	log := logger.WithComponent("producer")

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("producer panic recovered")
			metrics.PanicsRecovered.WithLabelValues("producer").Inc()
		}
	}()

	log.Info().Msg("producer started")
	defer func() {
		log.Info().Int64("generated", p.gen.Generated()).Msg("production completed")
	}()

	interval := p.cfg.Producer.Interval
	backoff := 2 * interval
	if backoff < 50*time.Millisecond {
		backoff = 50 * time.Millisecond
	}

	for p.producerRunning.Load() && p.gen.Generated() < int64(p.cfg.Producer.MaxPosts) {
		post := p.gen.Generate()

		// Retry the same record until it fits; backpressure never drops.
		for p.producerRunning.Load() {
			err := p.q.Put(post, p.cfg.Producer.PutTimeout)
			if err == nil {
				break
			}
			if errors.Is(err, queue.ErrFull) {
				log.Warn().
					Str("post_id", post.ID()).
					Msg("queue is full, backing off before retry")
				metrics.ProducerBackpressureRetries.Inc()
				p.pause(backoff)
				continue
			}
		}

		if n := p.gen.Generated(); n%10 == 0 {
			log.Info().Int64("generated", n).Msg("generation progress")
		}

		p.pause(interval)
	}
}

// consumerLoop pulls records from the queue and runs them through the
// validate/transform/aggregate stages until it sees the sentinel or its
// running flag drops.
func (p *Pipeline) consumerLoop() {
	defer close(p.consumerDone)
	log := logger.WithComponent("consumer")

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("consumer panic recovered")
			metrics.PanicsRecovered.WithLabelValues("consumer").Inc()
		}
	}()

	log.Info().Msg("consumer started")
	defer func() {
		log.Info().
			Int64("processed", p.processed.Load()).
			Int64("failed", p.failed.Load()).
			Msg("consumption completed")
	}()

	for p.consumerRunning.Load() {
		raw, err := p.q.Get(p.cfg.Consumer.PollTimeout)
		if err != nil {
			// Empty queue is normal idling, not an error.
			continue
		}

		if queue.IsSentinel(raw) {
			log.Debug().Msg("sentinel received")
			return
		}

		if p.handleRecord(raw) {
			if n := p.processed.Load(); n%10 == 0 {
				log.Info().Int64("processed", n).Msg("processing progress")
			}
		}
		p.q.MarkDone()
	}
}

// handleRecord runs one record through the processing stages. Per-record
// failures of any kind only fail the record, never the loop.
func (p *Pipeline) handleRecord(raw *models.RawPost) (ok bool) {
	log := logger.WithComponent("consumer")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("post_id", raw.ID()).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("record processing panic recovered")
			metrics.PanicsRecovered.WithLabelValues("consumer").Inc()
			p.recordFailure(raw, []string{fmt.Sprintf("Processing error: %v", r)})
			ok = false
		}
	}()

	valid, reasons := validate.Validate(raw)
	if !valid {
		log.Warn().
			Str("post_id", raw.ID()).
			Strs("errors", reasons).
			Msg("post validation failed")
		p.recordFailure(raw, reasons)
		return false
	}

	post, err := raw.Post()
	if err != nil {
		p.recordFailure(raw, []string{err.Error()})
		return false
	}

	pp := transform.Transform(post)
	latency := time.Since(start)

	p.agg.Update(pp, latency)
	p.processed.Add(1)
	metrics.PostsProcessedTotal.Inc()
	metrics.ProcessingDuration.Observe(latency.Seconds())

	log.Debug().Str("post_id", pp.PostID).Msg("post processed")
	return true
}

func (p *Pipeline) recordFailure(raw *models.RawPost, reasons []string) {
	p.agg.RecordFailure(raw.ID(), reasons)
	p.failed.Add(1)
	metrics.PostsFailedTotal.Inc()
}

// pause sleeps for d but wakes immediately on stop.
func (p *Pipeline) pause(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-p.stopCh:
	}
}

// Stats returns a point-in-time progress snapshot.
func (p *Pipeline) Stats() Stats {
	processed := p.processed.Load()
	failed := p.failed.Load()
	return Stats{
		State:       p.State().String(),
		Generated:   p.gen.Generated(),
		MaxPosts:    p.cfg.Producer.MaxPosts,
		Processed:   processed,
		Failed:      failed,
		SuccessRate: analytics.SuccessRate(int(processed), int(failed)),
		QueueSize:   p.q.Len(),
		QueueCap:    p.q.Cap(),
	}
}

// State returns the current lifecycle stage.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Analytics returns the consumer's analytics snapshot. Only meaningful once
// the pipeline has stopped; the aggregator is single-writer.
func (p *Pipeline) Analytics() analytics.Analytics {
	return p.agg.Snapshot()
}

// ProcessedPosts returns processed records in consumption order. Only valid
// after the pipeline has stopped.
func (p *Pipeline) ProcessedPosts() []*models.ProcessedPost {
	return p.agg.ProcessedPosts()
}

func (p *Pipeline) logStatus() {
	stats := p.Stats()
	metrics.QueueSize.Set(float64(stats.QueueSize))

	log := logger.WithComponent("pipeline")
	log.Info().
		Str("state", stats.State).
		Int64("generated", stats.Generated).
		Int("max_posts", stats.MaxPosts).
		Int64("processed", stats.Processed).
		Int64("failed", stats.Failed).
		Float64("success_rate", stats.SuccessRate).
		Int("queue_size", stats.QueueSize).
		Msg("pipeline status")
}

// finalize logs the final summary and writes the export document.
func (p *Pipeline) finalize() {
	log := logger.WithComponent("pipeline")
	snapshot := p.agg.Snapshot()

	log.Info().
		Int("total_processed", snapshot.Summary.TotalProcessed).
		Int("total_failed", snapshot.Summary.TotalFailed).
		Float64("success_rate", snapshot.Summary.SuccessRate).
		Float64("avg_processing_time_ms", snapshot.Summary.AvgProcessingTimeMS).
		Msg("final results")

	if len(snapshot.PlatformDistribution) > 0 {
		ev := log.Info()
		for platform, count := range snapshot.PlatformDistribution {
			ev = ev.Int(string(platform), count)
		}
		ev.Msg("platform distribution")
	}

	for i, top := range snapshot.TopPerformingPosts {
		if i >= 3 {
			break
		}
		log.Info().
			Int("rank", i+1).
			Str("post_id", top.PostID).
			Float64("popularity_score", top.PopularityScore).
			Msg("top post")
	}

	if p.cfg.Export.Enabled {
		doc := export.Document{
			ProcessedData: p.agg.ProcessedPosts(),
			Analytics:     snapshot,
		}
		if err := export.Write(p.cfg.Export.Path, doc); err != nil {
			// Export is best-effort and does not fail the run.
			log.Error().Err(err).Msg("failed to export results")
		} else {
			log.Info().Str("path", p.cfg.Export.Path).Msg("results exported")
		}
	}
}
