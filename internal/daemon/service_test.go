package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/snapshot"
)

type fakeCollaborator struct {
	snap     *model.ProjectData
	sessions []model.PromptSession
	err      error
}

func (f *fakeCollaborator) Scan(context.Context, string) (*model.ProjectData, error) {
	return f.snap, f.err
}

func (f *fakeCollaborator) FetchSessions(context.Context, string) ([]model.PromptSession, error) {
	return f.sessions, f.err
}

func (f *fakeCollaborator) DeleteSessions(context.Context, string) (int, error) {
	return 0, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func project(commits int, sessions ...model.PromptSession) *model.ProjectData {
	p := &model.ProjectData{Repository: model.Repository{Path: "/src/app"}}
	for i := 0; i < commits; i++ {
		p.Commits = append(p.Commits, model.Commit{
			Timestamp:    "2025-06-02T09:00:00Z",
			FilesChanged: []model.FileChange{{Path: "a.go"}, {Path: "b.go"}},
		})
	}
	p.PromptSessions = sessions
	return p
}

func newTestService(fake *fakeCollaborator, buffer int) *Service {
	mgr := snapshot.NewManager(fake, quietLogger())
	return New(Config{
		RepoPath:     "/src/app",
		Interval:     10 * time.Second,
		EventsBuffer: buffer,
		Location:     time.UTC,
	}, mgr, quietLogger())
}

func TestDiffSummaries(t *testing.T) {
	prev := Summary{Commits: 10, Features: 2, Prompts: 30, Couplings: 1, CompletionRate: 0.5}
	curr := Summary{Commits: 12, Features: 2, Prompts: 34, Couplings: 3, CompletionRate: 0.6}

	delta := diffSummaries(prev, curr)
	if delta.Commits != 2 || delta.Prompts != 4 || delta.Couplings != 2 || delta.Features != 0 {
		t.Fatalf("delta = %+v", delta)
	}
	if delta.CompletionRate < 0.099 || delta.CompletionRate > 0.101 {
		t.Fatalf("CompletionRate delta = %f, want 0.1", delta.CompletionRate)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSummaries(curr, curr).isZero() {
		t.Fatal("identical summaries should produce a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(&fakeCollaborator{}, 2)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestRecord_ConcurrentEventsKeepIDOrder(t *testing.T) {
	s := newTestService(&fakeCollaborator{}, 500)
	ch := make(chan Event, 500)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	snaps := []*model.ProjectData{project(1), project(2)}
	snaps[1].Repository.Path = "/src/other"

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.record(snaps[i%2], time.Now())
		}(i)
	}
	wg.Wait()

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()
	if len(events) == 0 {
		t.Fatal("no events recorded")
	}
	for i := 1; i < len(events); i++ {
		if events[i].ID != events[i-1].ID+1 {
			t.Fatalf("buffered event %d has ID %d after %d, want %d", i, events[i].ID, events[i-1].ID, events[i-1].ID+1)
		}
	}

	var last int64
	for len(ch) > 0 {
		ev := <-ch
		if ev.ID <= last {
			t.Errorf("subscriber got ID %d after %d", ev.ID, last)
		}
		last = ev.ID
	}
	if last != events[len(events)-1].ID {
		t.Errorf("last delivered ID = %d, want %d", last, events[len(events)-1].ID)
	}
}

func TestPollOnce_EventsAndErrors(t *testing.T) {
	fake := &fakeCollaborator{snap: project(3)}
	s := newTestService(fake, 10)
	ctx := context.Background()

	s.pollOnce(ctx)
	st := s.status()
	if st.EventCount != 1 || st.Summary.Commits != 3 || st.Summary.Couplings != 1 {
		t.Fatalf("after first poll status = %+v", st)
	}
	if st.Summary.TopCoupling != "a.go <-> b.go (3)" {
		t.Errorf("TopCoupling = %q", st.Summary.TopCoupling)
	}

	// Same content: no new event.
	fake.snap = project(3)
	s.pollOnce(ctx)
	if got := s.status().EventCount; got != 1 {
		t.Errorf("unchanged poll produced events: %d", got)
	}

	fake.snap = project(5, model.PromptSession{FilesWritten: []string{"a.go"}})
	s.pollOnce(ctx)
	s.mu.RLock()
	last := s.events[len(s.events)-1]
	s.mu.RUnlock()
	if last.Type != EventInsightDelta || last.Delta.Commits != 2 || last.Delta.Prompts != 1 {
		t.Errorf("delta event = %+v", last)
	}

	fake.err = errors.New("export unreadable")
	s.pollOnce(ctx)
	st = s.status()
	if st.LastError == "" || st.Summary.Commits != 5 {
		t.Errorf("failed poll status = %+v, want error and previous summary", st)
	}
	if st.PollCount != 4 {
		t.Errorf("PollCount = %d, want 4", st.PollCount)
	}
}

func TestHandlers(t *testing.T) {
	fake := &fakeCollaborator{snap: project(3)}
	s := newTestService(fake, 10)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/insights")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("insights before poll = %d, want 503", resp.StatusCode)
	}

	s.pollOnce(context.Background())

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if strings.TrimSpace(string(body)) != "ok" {
		t.Errorf("healthz = %q", body)
	}

	resp, err = http.Get(srv.URL + "/v1/insights")
	if err != nil {
		t.Fatal(err)
	}
	var ins Insights
	if err := json.NewDecoder(resp.Body).Decode(&ins); err != nil {
		t.Fatalf("decoding insights: %v", err)
	}
	_ = resp.Body.Close()
	if ins.Patterns.Hours[9] != 3 || len(ins.Patterns.Couplings) != 1 {
		t.Errorf("insights patterns = %+v", ins.Patterns)
	}

	resp, err = http.Get(srv.URL + "/v1/refresh")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET refresh = %d, want 405", resp.StatusCode)
	}

	fake.sessions = []model.PromptSession{{}, {}}
	resp, err = http.Post(srv.URL+"/v1/refresh", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	var sum Summary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		t.Fatalf("decoding refresh: %v", err)
	}
	_ = resp.Body.Close()
	if sum.Prompts != 2 {
		t.Errorf("prompts after refresh = %d, want 2", sum.Prompts)
	}

	resp, err = http.Get(srv.URL + "/v1/events")
	if err != nil {
		t.Fatal(err)
	}
	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	_ = resp.Body.Close()
	if len(events) != 2 || events[1].Type != EventInsightDelta {
		t.Errorf("events = %+v", events)
	}
}
