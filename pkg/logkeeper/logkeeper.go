// Package logkeeper moves request log entries from Kafka into a search index.
package logkeeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"feedback/pkg/api"
)

// Reader is satisfied by *kafka.Reader.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Indexer interface {
	Index(ctx context.Context, docID string, doc []byte) error
}

// ESIndexer writes documents into one Elasticsearch index.
type ESIndexer struct {
	es    *elasticsearch.Client
	index string
}

func NewESIndexer(nodes []string, index string) (*ESIndexer, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: nodes})
	if err != nil {
		return nil, err
	}

	return &ESIndexer{es: es, index: index}, nil
}

func (i *ESIndexer) Index(ctx context.Context, docID string, doc []byte) error {
	res, err := i.es.Index(
		i.index,
		bytes.NewReader(doc),
		i.es.Index.WithDocumentID(docID),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch responded with %s", res.Status())
	}

	return nil
}

type Keeper struct {
	indexer    Indexer
	numWorkers int
}

func New(indexer Indexer, numWorkers int) *Keeper {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Keeper{indexer: indexer, numWorkers: numWorkers}
}

// Run reads messages until ctx is cancelled or the reader fails for good,
// then waits for the workers to drain the queue.
func (k *Keeper) Run(ctx context.Context, r Reader) error {
	jobs := make(chan kafka.Message, k.numWorkers*5) // buffer is needed to increase throughput
	var wg sync.WaitGroup
	wg.Add(k.numWorkers)
	for workerID := 0; workerID < k.numWorkers; workerID++ {
		go func(id int) {
			defer wg.Done()
			k.worker(ctx, jobs, id)
		}(workerID)
	}

	defer func() {
		close(jobs)
		wg.Wait()
	}()

	log.Info("[logkeeper] accepting logs...")
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				log.Info("[logkeeper] reader closed")
				return nil
			}
			log.Errorf("[logkeeper] failed to read message from Kafka: %v", err)
			continue
		}
		log.Debugf("[logkeeper] received message of %d bytes", len(msg.Value))

		select {
		case jobs <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}

func (k *Keeper) worker(ctx context.Context, jobs <-chan kafka.Message, workerID int) {
	for msg := range jobs {
		var entry api.LogEntry
		if err := json.Unmarshal(msg.Value, &entry); err != nil {
			log.Errorf("[logkeeper][workerID:%d] failed to unmarshal log entry: %v", workerID, err)
			continue
		}

		if err := k.indexer.Index(ctx, entry.Service+entry.RequestID, msg.Value); err != nil {
			log.Errorf("[logkeeper][workerID:%d] failed to index document: %v", workerID, err)
			continue
		}
		log.Infof("[logkeeper][workerID:%d][%s] log entry indexed", workerID, shorten(entry.RequestID))
	}
}

func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
