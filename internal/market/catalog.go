package market

import (
	"fmt"
	"os"
	"sort"

	"github.com/matka/platform/internal/domain"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of the markets file.
type catalogFile struct {
	Markets []domain.Market `yaml:"markets"`
}

// Catalog is the set of markets the gateway knows about. It is read-only after
// construction.
type Catalog struct {
	markets map[string]domain.Market
}

// NewCatalog builds a catalog from a list of markets.
func NewCatalog(markets []domain.Market) (*Catalog, error) {
	c := &Catalog{markets: make(map[string]domain.Market, len(markets))}
	for _, m := range markets {
		m, err := normalizeMarket(m)
		if err != nil {
			return nil, err
		}
		if _, dup := c.markets[m.ID]; dup {
			return nil, fmt.Errorf("duplicate market id %q", m.ID)
		}
		c.markets[m.ID] = m
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}
	return NewCatalog(f.Markets)
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markets file: %w", err)
	}
	return ParseCatalog(data)
}

// Get returns a market by id.
func (c *Catalog) Get(id string) (domain.Market, bool) {
	m, ok := c.markets[id]
	return m, ok
}

// List returns all markets ordered by closing time, then id.
func (c *Catalog) List() []domain.Market {
	out := make([]domain.Market, 0, len(c.markets))
	for _, m := range c.markets {
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		ti, _ := ParseClosingTime(out[i].ClosingTime)
		tj, _ := ParseClosingTime(out[j].ClosingTime)
		if ti != tj {
			return ti.String() < tj.String()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func normalizeMarket(m domain.Market) (domain.Market, error) {
	if m.ID == "" {
		return m, fmt.Errorf("market id is required")
	}
	families := make([]domain.BetFamily, 0, len(m.Families))
	for _, f := range m.Families {
		parsed, err := domain.ParseBetFamily(string(f))
		if err != nil {
			return m, fmt.Errorf("market %s: %w", m.ID, err)
		}
		families = append(families, parsed)
	}
	m.Families = families
	// closing time is checked lazily so a bad entry fails closed instead of
	// taking the whole catalog down
	return m, nil
}
