package export

import (
	"encoding/json"
	"fmt"
	"os"

	"feedpipe/internal/analytics"
	"feedpipe/internal/models"
)

// Document is the results artifact written when the pipeline finishes:
// the full ordered processed-record list plus the analytics snapshot.
// Readers must tolerate empty distributions inside analytics.
type Document struct {
	ProcessedData []*models.ProcessedPost `json:"processed_data"`
	Analytics     analytics.Analytics     `json:"analytics"`
}

// Write serializes the document as indented JSON at path. Best-effort:
// callers report a failure but do not treat it as a pipeline failure.
func Write(path string, doc Document) error {
	if doc.ProcessedData == nil {
		doc.ProcessedData = []*models.ProcessedPost{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", path, err)
	}
	return nil
}

// Read loads a results document, for tooling that consumes the export.
func Read(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("failed to read results from %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse results from %s: %w", path, err)
	}
	return doc, nil
}
