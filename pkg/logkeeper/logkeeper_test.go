package logkeeper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"feedback/pkg/api"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	exitCode := m.Run()
	os.Exit(exitCode)
}

type sliceReader struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (r *sliceReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		err := r.err
		r.err = nil
		return kafka.Message{}, err
	}
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

type memIndexer struct {
	mu   sync.Mutex
	docs map[string][]byte
	fail bool
}

func (i *memIndexer) Index(ctx context.Context, docID string, doc []byte) error {
	if i.fail {
		return errors.New("index unavailable")
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs[docID] = doc
	return nil
}

func (i *memIndexer) ids() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	ids := make([]string, 0, len(i.docs))
	for id := range i.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func entryMessage(t *testing.T, service, reqID string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(api.LogEntry{
		Timestamp:      time.Date(2025, 1, 12, 10, 22, 13, 0, time.UTC),
		Service:        service,
		RequestID:      reqID,
		Path:           "/check_feedback",
		StatusCode:     200,
		Classification: "Clean",
	})
	if err != nil {
		t.Fatalf("failed to marshal log entry: %v", err)
	}
	return kafka.Message{Value: b}
}

func TestKeeper_Run(t *testing.T) {
	r := &sliceReader{
		msgs: []kafka.Message{
			entryMessage(t, "feedback", "req-1"),
			{Value: []byte("not json")},
			entryMessage(t, "feedback", "req-2"),
		},
		err: errors.New("transient broker error"),
	}
	idx := &memIndexer{docs: make(map[string][]byte)}

	if err := New(idx, 3).Run(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"feedbackreq-1", "feedbackreq-2"}
	got := idx.ids()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("want indexed ids %v, got %v", want, got)
	}
}

func TestKeeper_RunIndexFailure(t *testing.T) {
	r := &sliceReader{msgs: []kafka.Message{entryMessage(t, "feedback", "req-1")}}
	idx := &memIndexer{docs: make(map[string][]byte), fail: true}

	if err := New(idx, 0).Run(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.ids()) != 0 {
		t.Errorf("want nothing indexed, got %v", idx.ids())
	}
}

type blockingReader struct{}

func (blockingReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func TestKeeper_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	idx := &memIndexer{docs: make(map[string][]byte)}
	if err := New(idx, 2).Run(ctx, blockingReader{}); err != nil {
		t.Errorf("want nil error on cancellation, got %v", err)
	}
}
