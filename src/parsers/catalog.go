package parsers

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/username/zeitan/backend/src/models"
	"gopkg.in/yaml.v3"
)

//go:embed exchanges.yaml
var catalogYAML []byte

type catalogFile struct {
	Exchanges []models.ExchangeInfo `yaml:"exchanges"`
}

var (
	catalogOnce sync.Once
	catalog     []models.ExchangeInfo
	catalogErr  error
)

// Catalog returns the supported exchanges in display order. Every entry has a
// registered parser.
func Catalog() ([]models.ExchangeInfo, error) {
	catalogOnce.Do(func() {
		catalog, catalogErr = loadCatalog(catalogYAML)
	})
	if catalogErr != nil {
		return nil, catalogErr
	}
	return append([]models.ExchangeInfo(nil), catalog...), nil
}

func loadCatalog(data []byte) ([]models.ExchangeInfo, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse exchange catalog: %w", err)
	}
	for _, info := range file.Exchanges {
		if _, err := GetParser(info.ID); err != nil {
			return nil, fmt.Errorf("exchange catalog lists %q: %w", info.ID, err)
		}
	}
	return file.Exchanges, nil
}
