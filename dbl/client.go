package dbl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/s0up4200/dblist/dbl"

// Client is a Discord Bot List API client for a single bot
type Client struct {
	baseURL   *url.URL
	botID     string
	transport Transport
	codec     Codec
	tracer    trace.Tracer
	logger    zerolog.Logger
	closeFn   func(context.Context) error
}

// NewClient creates a client that authenticates with token and reports
// stats for botID
func NewClient(token, botID string, logger zerolog.Logger, optFns ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}
	if botID == "" {
		return nil, fmt.Errorf("%w: bot ID is required", ErrInvalidConfig)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	rawBase := DefaultBaseURL
	if opts.baseURL != "" {
		rawBase = opts.baseURL
	}
	baseURL, err := url.Parse(rawBase)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing base URL: %w", ErrInvalidConfig, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be absolute", ErrInvalidConfig, rawBase)
	}

	client := &Client{
		baseURL: baseURL,
		botID:   botID,
		codec:   jsonCodec{},
		logger:  logger,
		closeFn: func(context.Context) error { return nil },
	}

	if opts.codec != nil {
		client.codec = opts.codec
	}

	tp := opts.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	client.tracer = tp.Tracer(tracerName)

	transport := opts.transport
	if transport == nil {
		ht, err := newHTTPTransport(opts, logger)
		if err != nil {
			return nil, err
		}
		transport = ht
		client.closeFn = ht.Close
	}
	client.transport = authenticate(token, transport)

	return client, nil
}

// BotID returns the bot the client reports stats for
func (c *Client) BotID() string {
	return c.botID
}

// Close stops the default transport. Requests already submitted finish
// first unless ctx ends.
func (c *Client) Close(ctx context.Context) error {
	return c.closeFn(ctx)
}

// SetStats reports the server count of a single shard
func (c *Client) SetStats(ctx context.Context, shardID, shardTotal, serverCount int) *Future[struct{}] {
	if shardID < 0 || shardTotal < 0 || serverCount < 0 {
		return failed[struct{}](fmt.Errorf("%w: stats must not be negative", ErrInvalidArgument))
	}

	return c.postStats(ctx, "set_stats", shardStats{
		ShardID:     shardID,
		ShardTotal:  shardTotal,
		ServerCount: serverCount,
	})
}

// SetShardStats reports per-shard server counts, indexed by shard ID
func (c *Client) SetShardStats(ctx context.Context, shardServerCounts []int) *Future[struct{}] {
	shards := make([]int, 0, len(shardServerCounts))
	for i, n := range shardServerCounts {
		if n < 0 {
			return failed[struct{}](fmt.Errorf("%w: shard %d server count must not be negative", ErrInvalidArgument, i))
		}
		shards = append(shards, n)
	}

	return c.postStats(ctx, "set_shard_stats", shardList{Shards: shards})
}

// SetServerCount reports the total server count
func (c *Client) SetServerCount(ctx context.Context, count int) *Future[struct{}] {
	if count < 0 {
		return failed[struct{}](fmt.Errorf("%w: server count must not be negative", ErrInvalidArgument))
	}

	return c.postStats(ctx, "set_server_count", serverCount{ServerCount: count})
}

func (c *Client) postStats(ctx context.Context, op string, body any) *Future[struct{}] {
	u := endpoint(c.baseURL, nil, "bots", c.botID, "stats")
	return send(ctx, c, op, http.MethodPost, u, body, decodeInto[struct{}](c.codec, op))
}

// GetStats retrieves the stats of any bot
func (c *Client) GetStats(ctx context.Context, botID string) *Future[BotStats] {
	if botID == "" {
		return failed[BotStats](fmt.Errorf("%w: bot ID is required", ErrInvalidArgument))
	}

	u := endpoint(c.baseURL, nil, "bots", botID, "stats")
	return send(ctx, c, "get_stats", http.MethodGet, u, nil, decodeInto[BotStats](c.codec, "get_stats"))
}

// GetVoters retrieves the users who voted for a bot
func (c *Client) GetVoters(ctx context.Context, botID string) *Future[[]SimpleUser] {
	if botID == "" {
		return failed[[]SimpleUser](fmt.Errorf("%w: bot ID is required", ErrInvalidArgument))
	}

	u := endpoint(c.baseURL, nil, "bots", botID, "votes")
	return send(ctx, c, "get_voters", http.MethodGet, u, nil, decodeInto[[]SimpleUser](c.codec, "get_voters"))
}

// GetBot retrieves a single bot
func (c *Client) GetBot(ctx context.Context, botID string) *Future[Bot] {
	if botID == "" {
		return failed[Bot](fmt.Errorf("%w: bot ID is required", ErrInvalidArgument))
	}

	u := endpoint(c.baseURL, nil, "bots", botID)
	return send(ctx, c, "get_bot", http.MethodGet, u, nil, decodeInto[Bot](c.codec, "get_bot"))
}

// GetBots searches the bot list
func (c *Client) GetBots(ctx context.Context, q BotQuery) *Future[BotResult] {
	if q.Limit < 0 || q.Offset < 0 {
		return failed[BotResult](fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidArgument))
	}

	u := endpoint(c.baseURL, q.params(), "bots")
	return send(ctx, c, "get_bots", http.MethodGet, u, nil, decodeInto[BotResult](c.codec, "get_bots"))
}

// GetUser retrieves a user profile
func (c *Client) GetUser(ctx context.Context, userID string) *Future[User] {
	if userID == "" {
		return failed[User](fmt.Errorf("%w: user ID is required", ErrInvalidArgument))
	}

	u := endpoint(c.baseURL, nil, "users", userID)
	return send(ctx, c, "get_user", http.MethodGet, u, nil, decodeInto[User](c.codec, "get_user"))
}

// HasVoted checks whether a user voted for the client's bot
func (c *Client) HasVoted(ctx context.Context, userID string) *Future[bool] {
	if userID == "" {
		return failed[bool](fmt.Errorf("%w: user ID is required", ErrInvalidArgument))
	}

	u := endpoint(c.baseURL, query{}.add("userId", userID), "bots", c.botID, "check")
	return send(ctx, c, "has_voted", http.MethodGet, u, nil, votedTransformer(c.codec, "has_voted"))
}

// send builds the request and hands it to the execution bridge.
func send[T any](ctx context.Context, c *Client, op, method string, u *url.URL, body any, transform Transformer[T]) *Future[T] {
	req, err := c.newRequest(ctx, method, u, body)
	if err != nil {
		return failed[T](err)
	}

	return execute(c, op, req, transform)
}
