// internal/listing/record-prediction/elasticsearch.go
package recordprediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"listing-predictor/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type ElasticsearchSink struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSink(client *elasticsearch.Client, index string) *ElasticsearchSink {
	return &ElasticsearchSink{client: client, index: index}
}

func (s *ElasticsearchSink) Name() string { return "elasticsearch" }

// Record indexes the record under its prediction ID, so a retry overwrites
// rather than duplicates.
func (s *ElasticsearchSink) Record(ctx context.Context, rec *models.PredictionRecord) error {
	body, err := json.Marshal(toDocument(rec))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: rec.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}
