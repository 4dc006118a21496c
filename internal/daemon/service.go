// Package daemon provides the long-running insight service: it rescans the
// repository snapshot on an interval and publishes insight deltas over HTTP.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/snapshot"
)

// Config controls the daemon runtime behavior.
type Config struct {
	RepoPath     string
	DataDir      string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	PeakHours    int
	Location     *time.Location
}

// Summary is a compact insight state for status/event payloads.
type Summary struct {
	At             time.Time `json:"at"`
	Project        string    `json:"project"`
	Commits        int       `json:"commits"`
	Features       int       `json:"features"`
	Prompts        int       `json:"prompts"`
	Couplings      int       `json:"couplings"`
	PeakHours      []int     `json:"peak_hours"`
	AvgGranularity float64   `json:"avg_granularity"`
	CompletionRate float64   `json:"completion_rate"`
	RepromptRate   float64   `json:"reprompt_rate"`
	AssistantPct   float64   `json:"assistant_pct"`
	TopCoupling    string    `json:"top_coupling,omitempty"`
}

// Delta captures summary changes between polls.
type Delta struct {
	Commits        int     `json:"commits"`
	Features       int     `json:"features"`
	Prompts        int     `json:"prompts"`
	Couplings      int     `json:"couplings"`
	CompletionRate float64 `json:"completion_rate"`
	RepromptRate   float64 `json:"reprompt_rate"`
}

// rates are compared at display precision so float noise never emits events.
const rateEpsilon = 1e-4

func (d Delta) isZero() bool {
	return d.Commits == 0 &&
		d.Features == 0 &&
		d.Prompts == 0 &&
		d.Couplings == 0 &&
		math.Abs(d.CompletionRate) < rateEpsilon &&
		math.Abs(d.RepromptRate) < rateEpsilon
}

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventInsightDelta = "insight_delta"
)

// Event is emitted whenever the insight summary changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	RepoPath        string    `json:"repo_path,omitempty"`
	DataDir         string    `json:"data_dir"`
	Summary         Summary   `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Insights is served at /v1/insights.
type Insights struct {
	Summary  Summary                    `json:"summary"`
	Patterns pipeline.Patterns          `json:"patterns"`
	Intent   pipeline.IntentStats       `json:"intent"`
	Changes  []pipeline.ChangeTypeShare `json:"change_types"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	mgr *snapshot.Manager
	log logrus.FieldLogger

	mu         sync.RWMutex
	startedAt  time.Time
	lastPollAt time.Time
	pollCount  int64
	lastError  string
	hasSummary bool
	summary    Summary
	nextEvent  int64
	events     []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config, mgr *snapshot.Manager, log logrus.FieldLogger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.PeakHours <= 0 {
		cfg.PeakHours = pipeline.DefaultPeakHours
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if log == nil {
		log = logrus.New()
	}

	return &Service{
		cfg:       cfg,
		mgr:       mgr,
		log:       log.WithField("component", "daemon"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/insights", s.handleInsights)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.HandleFunc("/v1/refresh", s.handleRefresh)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("listening")

	// Seed the first summary so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	snap, err := s.mgr.Scan(ctx, s.cfg.RepoPath)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("poll failed; keeping previous snapshot")
		return
	}
	s.record(snap, now)
}

// record folds a freshly installed snapshot into the summary and publishes
// an event when something changed.
func (s *Service) record(snap *model.ProjectData, now time.Time) {
	sum := s.summarize(snap, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.summary
	prevExists := s.hasSummary

	s.hasSummary = true
	s.summary = sum
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists || prev.Project != sum.Project {
		s.nextEvent++
		ev = Event{ID: s.nextEvent, Type: EventSnapshot, Timestamp: now, Summary: sum}
		publish = true
	} else if delta := diffSummaries(prev, sum); !delta.isZero() {
		s.nextEvent++
		ev = Event{ID: s.nextEvent, Type: EventInsightDelta, Timestamp: now, Summary: sum, Delta: delta}
		publish = true
	}
	if publish {
		s.publishLocked(ev)
	}
	s.mu.Unlock()

	if publish {
		s.log.WithFields(logrus.Fields{"event": ev.Type, "id": ev.ID}).Debug("published")
	}
}

func (s *Service) summarize(snap *model.ProjectData, at time.Time) Summary {
	memo := s.mgr.Memo()
	patterns := memo.Patterns(snap, s.cfg.PeakHours, s.cfg.Location)

	sum := Summary{
		At:             at,
		Project:        snap.Repository.Path,
		Commits:        len(snap.Commits),
		Features:       len(snap.Features),
		Prompts:        len(snap.PromptSessions),
		Couplings:      len(patterns.Couplings),
		PeakHours:      patterns.PeakHours,
		AvgGranularity: patterns.AvgGranularity,
		CompletionRate: pipeline.IntentCompletion(snap),
		RepromptRate:   memo.Intent(snap).RepromptRate,
		AssistantPct:   snap.Analytics.ClaudeCodeCommitPercentage,
	}
	if len(patterns.Couplings) > 0 {
		top := patterns.Couplings[0]
		sum.TopCoupling = fmt.Sprintf("%s <-> %s (%d)", top.FileA, top.FileB, top.Count)
	}
	return sum
}

func diffSummaries(prev, curr Summary) Delta {
	return Delta{
		Commits:        curr.Commits - prev.Commits,
		Features:       curr.Features - prev.Features,
		Prompts:        curr.Prompts - prev.Prompts,
		Couplings:      curr.Couplings - prev.Couplings,
		CompletionRate: curr.CompletionRate - prev.CompletionRate,
		RepromptRate:   curr.RepromptRate - prev.RepromptRate,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.publishLocked(ev)
	s.mu.Unlock()
}

// publishLocked buffers ev and offers it to subscribers without blocking.
// s.mu must be held so events keep ID order.
func (s *Service) publishLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		RepoPath:        s.cfg.RepoPath,
		DataDir:         s.cfg.DataDir,
		Summary:         s.summary,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.status())
}

func (s *Service) handleInsights(w http.ResponseWriter, _ *http.Request) {
	snap := s.mgr.Active()
	if snap == nil {
		http.Error(w, snapshot.ErrNoProject.Error(), http.StatusServiceUnavailable)
		return
	}
	memo := s.mgr.Memo()
	writeJSON(w, Insights{
		Summary:  s.status().Summary,
		Patterns: memo.Patterns(snap, s.cfg.PeakHours, s.cfg.Location),
		Intent:   memo.Intent(snap),
		Changes:  pipeline.ChangeTypeTotals(pipeline.CountChangeTypes(snap.Commits)),
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

// handleRefresh re-reads prompt sessions for the active project.
func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, err := s.mgr.RefreshSessions(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, snapshot.ErrNoProject) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.record(snap, time.Now())
	writeJSON(w, s.status().Summary)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: EventSnapshot, Timestamp: time.Now(), Summary: s.status().Summary})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
