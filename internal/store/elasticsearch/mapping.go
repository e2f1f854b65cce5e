package elasticsearch

import (
	"encoding/json"
	"fmt"

	"github.com/shahrukhsaba/duke/core/record"
)

// indexSettings is shared across every matching index: a word-boundary
// tokenizer plus lowercasing, matching the escaping rules
// core/index.EscapeToken assumes on the query side.
const indexSettings = `{
	"settings": {
		"analysis": {
			"analyzer": {
				"duke_analyzer": {
					"type": "custom",
					"tokenizer": "standard",
					"filter": ["lowercase"]
				}
			}
		}
	},
	"mappings": %s
}`

// buildMapping maps identity properties to an unanalyzed keyword field
// (so findById and identity lookups are exact) and every other property
// to a text field analyzed with duke_analyzer.
func buildMapping(cfg record.Config) (string, error) {
	properties := make(map[string]interface{}, len(cfg.Properties))
	for _, p := range cfg.Properties {
		if p.IsIdentity() {
			properties[p.Name] = map[string]interface{}{"type": "keyword"}
			continue
		}
		properties[p.Name] = map[string]interface{}{
			"type":     "text",
			"analyzer": "duke_analyzer",
		}
	}

	mapping, err := json.Marshal(map[string]interface{}{"properties": properties})
	if err != nil {
		return "", fmt.Errorf("build mapping: %w", err)
	}
	return fmt.Sprintf(indexSettings, mapping), nil
}
