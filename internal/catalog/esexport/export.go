// Package esexport copies the search catalog into an Elasticsearch index so external
// tooling can query it. The in-process search overlay never reads from the index.
package esexport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"university_portal_backend/internal/catalog"
	platformElasticsearch "university_portal_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// Refresh policies accepted by the bulk API.
var refreshPolicies = map[string]bool{"true": true, "false": true, "wait_for": true}

// Document is the indexed form of a catalog entry.
type Document struct {
	Slug       string    `json:"slug"`
	Kind       string    `json:"kind"`
	GroupLabel string    `json:"group_label"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	TargetLink string    `json:"target_link"`
	Position   int       `json:"position"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntryToDocument converts a stored catalog entry to its Elasticsearch document.
func EntryToDocument(e *catalog.Entry) ([]byte, error) {
	if e == nil {
		return nil, errors.New("catalog entry cannot be nil")
	}
	if e.Slug == "" {
		return nil, fmt.Errorf("catalog entry %q has no slug", e.Title)
	}
	doc := Document{
		Slug:       e.Slug,
		Kind:       string(e.Kind),
		GroupLabel: e.Kind.GroupLabel(),
		Title:      e.Title,
		Subtitle:   e.Subtitle,
		TargetLink: e.TargetLink,
		Position:   e.Position,
		UpdatedAt:  e.UpdatedAt,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshalling catalog document %s: %w", e.Slug, err)
	}
	return raw, nil
}

// BuildBulkBody renders index actions for entries. It returns the NDJSON body, the
// document ids it contains and the number of entries that could not be converted.
func BuildBulkBody(index string, entries []catalog.Entry, logger *zap.Logger) (string, []string, int) {
	var body strings.Builder
	ids := make([]string, 0, len(entries))
	failed := 0

	for i := range entries {
		e := &entries[i]
		docJSON, err := EntryToDocument(e)
		if err != nil {
			logger.Error("Failed to convert catalog entry to Elasticsearch document",
				zap.String("title", e.Title),
				zap.Error(err),
			)
			failed++
			continue
		}
		action, err := json.Marshal(map[string]interface{}{
			"index": map[string]string{"_index": index, "_id": e.Slug},
		})
		if err != nil {
			failed++
			continue
		}
		body.Write(action)
		body.WriteString("\n")
		body.Write(docJSON)
		body.WriteString("\n")
		ids = append(ids, e.Slug)
	}
	return body.String(), ids, failed
}

// Report summarises a sync run.
type Report struct {
	Synced  int
	Failed  int
	Batches int
}

// Options controls a sync run.
type Options struct {
	Index     string
	BatchSize int
	Refresh   string
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string                 `json:"_id"`
			Status int                    `json:"status"`
			Error  map[string]interface{} `json:"error,omitempty"`
		} `json:"index"`
	} `json:"items"`
}

// Sync reads every catalog entry from repo and indexes it in batches.
// A non-nil error is returned when any document failed.
func Sync(ctx context.Context, repo catalog.Repository, client *platformElasticsearch.ESClientWrapper, opts Options, logger *zap.Logger) (Report, error) {
	var report Report
	if client == nil || client.Client == nil {
		return report, errors.New("elasticsearch client is not configured")
	}
	if opts.Index == "" {
		return report, errors.New("index name is required")
	}
	if opts.BatchSize <= 0 {
		return report, fmt.Errorf("batch size must be positive, got %d", opts.BatchSize)
	}
	if opts.Refresh == "" {
		opts.Refresh = "false"
	}
	if !refreshPolicies[opts.Refresh] {
		return report, fmt.Errorf("unsupported refresh policy %q", opts.Refresh)
	}

	log := logger.Named("catalog_sync")
	log.Info("Starting catalog synchronization to Elasticsearch...",
		zap.String("index", opts.Index),
		zap.Int("batchSize", opts.BatchSize),
		zap.String("esRefreshPolicy", opts.Refresh),
	)

	entries, err := repo.FindAllEntries(ctx)
	if err != nil {
		log.Error("Failed to fetch catalog entries", zap.Error(err))
		return report, fmt.Errorf("fetching catalog entries: %w", err)
	}

	for start := 0; start < len(entries); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(entries) {
			end = len(entries)
		}
		report.Batches++
		synced, failed := sendBatch(ctx, client, opts, entries[start:end], report.Batches, log)
		report.Synced += synced
		report.Failed += failed
	}

	log.Info("Catalog synchronization finished.",
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed),
		zap.Int("batches", report.Batches),
	)
	if report.Failed > 0 {
		return report, fmt.Errorf("%d catalog entries failed to sync", report.Failed)
	}
	return report, nil
}

func sendBatch(ctx context.Context, client *platformElasticsearch.ESClientWrapper, opts Options, batch []catalog.Entry, batchNumber int, log *zap.Logger) (int, int) {
	body, ids, failed := BuildBulkBody(opts.Index, batch, log)
	if len(ids) == 0 {
		log.Info("No documents to index in batch", zap.Int("batchNumber", batchNumber))
		return 0, failed
	}

	req := esapi.BulkRequest{
		Body:    strings.NewReader(body),
		Refresh: opts.Refresh,
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Failed to send bulk request to Elasticsearch", zap.Error(err), zap.Int("batchNumber", batchNumber))
		return 0, failed + len(ids)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Error("Elasticsearch bulk request returned an error", zap.String("status", res.Status()), zap.Int("batchNumber", batchNumber))
		return 0, failed + len(ids)
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		log.Error("Failed to parse Elasticsearch bulk response body", zap.Error(err), zap.Int("batchNumber", batchNumber))
		return 0, failed + len(ids)
	}

	synced := 0
	for _, item := range parsed.Items {
		if item.Index.Error != nil {
			log.Error("Failed to index catalog document",
				zap.String("slug", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			failed++
			continue
		}
		synced++
	}
	if missing := len(ids) - len(parsed.Items); missing > 0 {
		failed += missing
	}
	return synced, failed
}
