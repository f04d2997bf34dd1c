// Package content holds the static tables the game is played with: careers,
// the board and the event pools drawn from when a tile is landed on.
package content

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"EscapeThePaycheck/internal/model"
)

// ErrInvalidCatalog marks content that cannot be played with.
var ErrInvalidCatalog = errors.New("invalid content catalog")

// Pools are the per-tile-type option pools.
type Pools struct {
	SmallDeals []model.Deal    `json:"smallDeals" yaml:"smallDeals"`
	BigDeals   []model.Deal    `json:"bigDeals" yaml:"bigDeals"`
	Doodads    []model.Doodad  `json:"doodads" yaml:"doodads"`
	Bonuses    []model.Bonus   `json:"bonuses" yaml:"bonuses"`
	Charities  []model.Charity `json:"charities" yaml:"charities"`
}

// Deals returns the pool for the given deal kind.
func (p Pools) Deals(kind model.DealKind) []model.Deal {
	if kind == model.DealBig {
		return p.BigDeals
	}
	return p.SmallDeals
}

// Catalog is an immutable set of game content. Careers keep their declared
// order so random selection is reproducible under a seeded source.
type Catalog struct {
	Careers []model.Career
	Board   []model.Tile
	Pools
}

// CostRange bounds deal costs for a pool.
type CostRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether v lies within the range, inclusive.
func (r CostRange) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// Ranges are the allowed deal cost ranges.
type Ranges struct {
	SmallDeal CostRange
	BigDeal   CostRange
}

// DefaultRanges are the small and big deal cost ranges of the stock game.
func DefaultRanges() Ranges {
	return Ranges{
		SmallDeal: CostRange{Min: usd(200), Max: usd(1200)},
		BigDeal:   CostRange{Min: usd(1500), Max: usd(8000)},
	}
}

// Default returns the stock game content.
func Default() *Catalog {
	return &Catalog{
		Careers: defaultCareers(),
		Board:   defaultBoard(),
		Pools:   defaultPools(),
	}
}

// Size is the number of tiles on the board.
func (c *Catalog) Size() int { return len(c.Board) }

// Tile returns the tile at a board position.
func (c *Catalog) Tile(position int) model.Tile { return c.Board[position] }

// Career looks up a career by key.
func (c *Catalog) Career(key string) (model.Career, bool) {
	for _, career := range c.Careers {
		if career.Key == key {
			return career, true
		}
	}
	return model.Career{}, false
}

// Validate checks that every tile can be resolved and pools respect the ranges.
func (c *Catalog) Validate(r Ranges) error {
	if len(c.Careers) == 0 {
		return fmt.Errorf("%w: no careers", ErrInvalidCatalog)
	}
	seen := make(map[string]bool, len(c.Careers))
	for _, career := range c.Careers {
		if career.Key == "" {
			return fmt.Errorf("%w: career without key", ErrInvalidCatalog)
		}
		if seen[career.Key] {
			return fmt.Errorf("%w: duplicate career %q", ErrInvalidCatalog, career.Key)
		}
		seen[career.Key] = true
	}
	if len(c.Board) == 0 {
		return fmt.Errorf("%w: empty board", ErrInvalidCatalog)
	}
	for i, tile := range c.Board {
		if !tile.Type.Valid() {
			return fmt.Errorf("%w: tile %d has unknown type %q", ErrInvalidCatalog, i, tile.Type)
		}
		if err := c.checkPool(tile.Type); err != nil {
			return fmt.Errorf("%w: tile %d: %v", ErrInvalidCatalog, i, err)
		}
	}
	for _, deal := range c.SmallDeals {
		if deal.Financeable() {
			return fmt.Errorf("%w: small deal %q offers financing", ErrInvalidCatalog, deal.Name)
		}
		if !r.SmallDeal.Contains(deal.Cost) {
			return fmt.Errorf("%w: small deal %q cost %s outside range", ErrInvalidCatalog, deal.Name, deal.Cost)
		}
	}
	for _, deal := range c.BigDeals {
		if deal.DebtShare.IsNegative() || deal.DebtShare.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: big deal %q debt share %s outside [0,1)", ErrInvalidCatalog, deal.Name, deal.DebtShare)
		}
		if !r.BigDeal.Contains(deal.Cost) {
			return fmt.Errorf("%w: big deal %q cost %s outside range", ErrInvalidCatalog, deal.Name, deal.Cost)
		}
	}
	return nil
}

func (c *Catalog) checkPool(t model.TileType) error {
	var n int
	switch t {
	case model.TileSmallDeal:
		n = len(c.SmallDeals)
	case model.TileBigDeal:
		n = len(c.BigDeals)
	case model.TileDoodad:
		n = len(c.Doodads)
	case model.TileBonus:
		n = len(c.Bonuses)
	case model.TileCharity:
		n = len(c.Charities)
	default:
		return nil
	}
	if n == 0 {
		return fmt.Errorf("no %s options", t)
	}
	return nil
}
