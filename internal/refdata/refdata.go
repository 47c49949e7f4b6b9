package refdata

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"aps-backend/internal/storage"
)

// Tables is the static reference data for one scheduling horizon: the line
// capability list (order matters, it breaks scheduler ties) and the BOM.
type Tables struct {
	Resources []storage.Resource
	BOMs      storage.BOMTable
}

type fileFormat struct {
	Resources []storage.Resource            `yaml:"resources"`
	BOMs      map[string]map[string]float64 `yaml:"boms"`
}

func Load(path string) (*Tables, error) {
	const op = "refdata.Load"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parse %s: %w", op, path, err)
	}

	if len(raw.Resources) == 0 {
		return nil, fmt.Errorf("%s: %s declares no resources", op, path)
	}

	seen := make(map[string]bool, len(raw.Resources))
	for _, r := range raw.Resources {
		if r.ID == "" {
			return nil, fmt.Errorf("%s: resource with empty id in %s", op, path)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%s: duplicate resource id %q in %s", op, r.ID, path)
		}
		seen[r.ID] = true
	}

	boms := make(storage.BOMTable, len(raw.BOMs))
	for product, lines := range raw.BOMs {
		converted := make(map[string]decimal.Decimal, len(lines))
		for matID, perUnit := range lines {
			if perUnit < 0 {
				return nil, fmt.Errorf("%s: negative bom quantity for %s/%s", op, product, matID)
			}
			converted[matID] = decimal.NewFromFloat(perUnit)
		}
		boms[product] = converted
	}

	return &Tables{Resources: raw.Resources, BOMs: boms}, nil
}

// Resource finds a line by id.
func (t *Tables) Resource(id string) (storage.Resource, bool) {
	for _, r := range t.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return storage.Resource{}, false
}
