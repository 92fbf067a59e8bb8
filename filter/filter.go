// Package filter narrows bot search results with expr-lang expressions.
//
// Expressions see the bot's fields (Username, Points, MonthlyPoints, Servers,
// Shards, Tags, Certified, Lib, Prefix, Owners, Date) and a few helpers:
//
//	hasTag("music") and Points > 100
//	ownedBy("123") or startsWith(Username, "luca")
//	daysSince(Date) < 30
package filter

import (
	"context"

	"github.com/s0up4200/dblist/dbl"
)

// Apply returns the bots matching f, in their original order. Bots the
// filter cannot be evaluated against are skipped. Apply stops early with the
// context's error once ctx ends.
func (c *Compiler) Apply(ctx context.Context, f *Filter, bots []dbl.Bot) ([]dbl.Bot, error) {
	matched := make([]dbl.Bot, 0, len(bots))

	for _, bot := range bots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := f.Evaluate(bot)
		if err != nil {
			c.logger.Debug().Err(err).Str("bot", bot.ID).Msg("Skipping bot")
			continue
		}
		if ok {
			matched = append(matched, bot)
		}
	}

	return matched, nil
}
