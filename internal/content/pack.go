package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"EscapeThePaycheck/internal/model"
)

//go:embed pack.schema.json
var packSchemaJSON string

var packSchema = jsonschema.MustCompileString("pack.schema.json", packSchemaJSON)

// packFile is the on-disk shape of a content pack. Omitted sections keep the
// stock content.
type packFile struct {
	Careers []model.Career `json:"careers"`
	Board   []model.Tile   `json:"board"`
	Pools
}

// Load reads a YAML content pack, validates it against the pack schema and
// overlays it on the stock content. An empty path returns the stock content.
func Load(path string, r Ranges) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content pack: %w", err)
	}
	cat, err := Parse(data, r)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] content pack loaded: %s (%d careers, %d tiles)", path, len(cat.Careers), len(cat.Board))
	return cat, nil
}

// Parse decodes and validates a YAML content pack.
func Parse(data []byte, r Ranges) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse content pack: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	// Round-trip through JSON so the schema sees plain JSON values.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode content pack: %w", err)
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("decode content pack: %w", err)
	}
	if err := packSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var pf packFile
	if err := json.Unmarshal(buf, &pf); err != nil {
		return nil, fmt.Errorf("decode content pack: %w", err)
	}

	cat := Default()
	if len(pf.Careers) > 0 {
		cat.Careers = pf.Careers
	}
	if len(pf.Board) > 0 {
		cat.Board = pf.Board
	}
	if len(pf.SmallDeals) > 0 {
		cat.SmallDeals = pf.SmallDeals
	}
	if len(pf.BigDeals) > 0 {
		cat.BigDeals = pf.BigDeals
	}
	if len(pf.Doodads) > 0 {
		cat.Doodads = pf.Doodads
	}
	if len(pf.Bonuses) > 0 {
		cat.Bonuses = pf.Bonuses
	}
	if len(pf.Charities) > 0 {
		cat.Charities = pf.Charities
	}
	if err := cat.Validate(r); err != nil {
		return nil, err
	}
	return cat, nil
}
