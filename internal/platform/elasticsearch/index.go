package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// catalogMapping returns the JSON mapping for the catalog index.
func catalogMapping() (string, error) {
	keywordSubfield := map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"slug":        map[string]interface{}{"type": "keyword"},
				"kind":        map[string]interface{}{"type": "keyword"},
				"group_label": map[string]interface{}{"type": "keyword"},
				"title":       map[string]interface{}{"type": "text", "fields": keywordSubfield},
				"subtitle":    map[string]interface{}{"type": "text"},
				"target_link": map[string]interface{}{"type": "keyword", "index": false},
				"position":    map[string]interface{}{"type": "integer"},
				"updated_at":  map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling catalog mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateCatalogIndexIfNotExists creates indexName with the catalog mapping unless it already exists.
func CreateCatalogIndexIfNotExists(ctx context.Context, client *ESClientWrapper, indexName string, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{indexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if catalog index exists", zap.Error(err))
		return fmt.Errorf("error checking if catalog index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Catalog index already exists", zap.String("index_name", indexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Error checking if catalog index exists, unexpected status",
			zap.String("status", res.Status()),
			zap.String("index_name", indexName),
		)
		return fmt.Errorf("error checking if catalog index exists: status %s", res.Status())
	}

	mappingJSON, err := catalogMapping()
	if err != nil {
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating catalog index", zap.Error(err), zap.String("index_name", indexName))
		return fmt.Errorf("error creating catalog index %s: %w", indexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := decodeJSONBody(createRes.Body, &errorBody); err != nil {
			log.Error("Failed to parse catalog index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create catalog index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
				zap.String("index_name", indexName),
			)
		}
		return fmt.Errorf("failed to create catalog index %s: status %s", indexName, createRes.Status())
	}

	log.Info("Catalog index created successfully", zap.String("index_name", indexName))
	return nil
}
