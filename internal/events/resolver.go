package events

import (
	"EscapeThePaycheck/internal/content"
	"EscapeThePaycheck/internal/dice"
	"EscapeThePaycheck/internal/model"
)

// Resolver dispatches a landed tile to its handler, drawing the event option
// from the matching pool.
type Resolver struct {
	Rules  Rules
	Pools  content.Pools
	Source dice.Source
}

// NewResolver creates a Resolver.
func NewResolver(rules Rules, pools content.Pools, src dice.Source) *Resolver {
	return &Resolver{Rules: rules, Pools: pools, Source: src}
}

// Resolve applies the tile's effect to s. Deal tiles return a pending decision
// instead of mutating state.
func (r *Resolver) Resolve(s *model.GameState, tile model.Tile) Result {
	switch tile.Type {
	case model.TilePaycheck:
		return Paycheck(s)
	case model.TileSmallDeal, model.TileBigDeal:
		kind, _ := tile.Type.DealKind()
		return OfferDeal(tile, kind, dice.Pick(r.Source, r.Pools.Deals(kind)))
	case model.TileDoodad:
		return Doodad(s, tile, dice.Pick(r.Source, r.Pools.Doodads))
	case model.TileCharity:
		return Charity(s, tile, dice.Pick(r.Source, r.Pools.Charities))
	case model.TileDownsized:
		return Downsize(s, tile, r.Rules)
	case model.TileBonus:
		return Bonus(s, tile, dice.Pick(r.Source, r.Pools.Bonuses))
	case model.TileBoost:
		return Boost(s, tile, r.Rules)
	}
	var res Result
	res.note(model.LogNeutral, "Nothing happened on this tile.")
	res.Card = model.EventCard{Title: tile.Label, Description: tile.Description}
	return res
}
