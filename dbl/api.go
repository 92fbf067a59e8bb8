package dbl

import (
	"context"
)

// API defines the interface for Discord Bot List operations
type API interface {
	// BotID returns the bot stats are reported for
	BotID() string

	// SetStats reports the server count of one shard
	SetStats(ctx context.Context, shardID, shardTotal, serverCount int) *Future[struct{}]

	// SetShardStats reports per-shard server counts
	SetShardStats(ctx context.Context, shardServerCounts []int) *Future[struct{}]

	// SetServerCount reports the total server count
	SetServerCount(ctx context.Context, count int) *Future[struct{}]

	// GetStats retrieves the stats of any bot
	GetStats(ctx context.Context, botID string) *Future[BotStats]

	// GetVoters retrieves the users who voted for a bot
	GetVoters(ctx context.Context, botID string) *Future[[]SimpleUser]

	// GetBot retrieves a single bot
	GetBot(ctx context.Context, botID string) *Future[Bot]

	// GetBots searches the bot list
	GetBots(ctx context.Context, q BotQuery) *Future[BotResult]

	// GetUser retrieves a user profile
	GetUser(ctx context.Context, userID string) *Future[User]

	// HasVoted checks whether a user voted for the configured bot
	HasVoted(ctx context.Context, userID string) *Future[bool]
}

var _ API = (*Client)(nil)
