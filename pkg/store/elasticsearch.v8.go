package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/voidshard/budget/pkg/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const (
	esIndex     = "budget"
	esMetaIndex = "budget-meta"
	esMetaID    = "ledger"
	esFlush     = 2048

	// a personal ledger fits comfortably inside one search page
	esMaxDocs = 10000

	envEsAddr = "ELASTICSEARCH_SERVICE_HOST"
	envEsPort = "ELASTICSEARCH_SERVICE_PORT"
)

// esDocument is a transaction as indexed; position keeps insertion order.
type esDocument struct {
	*domain.Transaction
	Position int `json:"position"`
}

type esMeta struct {
	NextID int64 `json:"next_id"`
}

type ElasticsearchV8 struct {
	addresses []string
	client    *elasticsearch.Client

	// most documents Read will load in one search
	maxDocs int
}

func NewElasticsearchV8(urls ...string) Store {
	if len(urls) == 0 {
		address := os.Getenv(envEsAddr)
		port := os.Getenv(envEsPort)
		if port == "" {
			port = "9200" // default port
		}
		if address == "" {
			address = "localhost" // default address
		}
		urls = []string{fmt.Sprintf("http://%s:%s", address, port)}
	}

	return &ElasticsearchV8{addresses: urls, maxDocs: esMaxDocs}
}

func (e *ElasticsearchV8) connect() (*elasticsearch.Client, error) {
	if e.client != nil {
		return e.client, nil
	}

	retryBackoff := backoff.NewExponentialBackOff()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: e.addresses,

		// Retry on 429 TooManyRequests statuses
		RetryOnStatus: []int{502, 503, 504, 429},

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},

		MaxRetries: 5,
	})
	if err != nil {
		return nil, err
	}

	e.client = es
	return es, nil
}

func (e *ElasticsearchV8) Read() (*domain.Snapshot, error) {
	es, err := e.connect()
	if err != nil {
		return nil, err
	}

	res, err := es.Indices.Exists([]string{esIndex})
	if err != nil {
		return nil, err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		log.Debug().Str("index", esIndex).Msg("no ledger index yet, starting empty")
		return domain.NewSnapshot(), nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("checking index %s: %s", esIndex, res.String())
	}

	res, err = es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex(esIndex),
		es.Search.WithSize(e.maxDocs),
		es.Search.WithSort("position:asc"),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("searching index %s: %s", esIndex, res.String())
	}

	found := struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source esDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&found); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	// a partial snapshot would have the missing documents pruned on the
	// next Write
	if found.Hits.Total.Value > len(found.Hits.Hits) {
		return nil, fmt.Errorf(
			"index %s holds %d transactions, only %d can be loaded",
			esIndex, found.Hits.Total.Value, len(found.Hits.Hits),
		)
	}

	snap := domain.NewSnapshot()
	for _, hit := range found.Hits.Hits {
		if hit.Source.Transaction == nil {
			return nil, fmt.Errorf("%w: empty document in %s", ErrCorrupt, esIndex)
		}
		snap.Transactions = append(snap.Transactions, hit.Source.Transaction)
	}

	meta, err := e.readMeta(es)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		snap.NextID = meta.NextID
	} else {
		snap.NextID = snap.MaxID() + 1
	}

	log.Debug().Int("transactions", len(snap.Transactions)).Msg("read ledger from elasticsearch")
	return snap, nil
}

func (e *ElasticsearchV8) readMeta(es *elasticsearch.Client) (*esMeta, error) {
	res, err := es.Get(esMetaIndex, esMetaID)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("reading %s/%s: %s", esMetaIndex, esMetaID, res.String())
	}

	doc := struct {
		Source esMeta `json:"_source"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &doc.Source, nil
}

// Write indexes every transaction in the snapshot, then deletes documents
// whose ids are no longer present and records the id counter.
func (e *ElasticsearchV8) Write(snap *domain.Snapshot) error {
	es, err := e.connect()
	if err != nil {
		return err
	}

	if err := e.index(es, snap.Transactions); err != nil {
		return err
	}
	if err := e.prune(es, snap.Transactions); err != nil {
		return err
	}

	data, err := json.Marshal(&esMeta{NextID: snap.NextID})
	if err != nil {
		return err
	}
	res, err := es.Index(
		esMetaIndex,
		bytes.NewReader(data),
		es.Index.WithDocumentID(esMetaID),
		es.Index.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("writing %s/%s: %s", esMetaIndex, esMetaID, res.String())
	}
	return nil
}

func (e *ElasticsearchV8) index(es *elasticsearch.Client, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         esIndex,
		FlushBytes:    esFlush,
		Client:        es,
		NumWorkers:    1,
		FlushInterval: 10 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return err
	}

	for i, t := range txns {
		data, err := json.Marshal(&esDocument{Transaction: t, Position: i})
		if err != nil {
			return err
		}

		err = bi.Add(
			context.Background(),
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: strconv.FormatInt(t.ID, 10),
				Body:       bytes.NewReader(data),
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					if err != nil {
						log.Error().Err(err).Str("id", item.DocumentID).Msg("failed to index transaction")
					} else {
						log.Error().Str("id", item.DocumentID).Msgf("failed to index transaction %s: %s", res.Error.Type, res.Error.Reason)
					}
				},
			},
		)
		if err != nil {
			return err
		}
	}

	if err := bi.Close(context.Background()); err != nil {
		return err
	}

	biStats := bi.Stats()
	if biStats.NumFailed > 0 {
		return fmt.Errorf("failed indexing %d docs", int64(biStats.NumFailed))
	}
	log.Debug().Uint64("indexed", biStats.NumFlushed).Msg("indexed transactions")
	return nil
}

// prune removes documents for transactions that have been deleted.
func (e *ElasticsearchV8) prune(es *elasticsearch.Client, txns []*domain.Transaction) error {
	ids := make([]string, 0, len(txns))
	for _, t := range txns {
		ids = append(ids, strconv.FormatInt(t.ID, 10))
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": map[string]interface{}{
					"ids": map[string]interface{}{"values": ids},
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return err
	}

	res, err := es.DeleteByQuery(
		[]string{esIndex},
		bytes.NewReader(body),
		es.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		// index never created: nothing to prune
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("pruning %s: %s", esIndex, res.String())
	}
	return nil
}

func (e *ElasticsearchV8) Close() error {
	return nil
}
