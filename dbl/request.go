package dbl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the API root every endpoint is resolved against
const DefaultBaseURL = "https://top.gg/api"

// SearchField is a single "field: value" term of a bot search
type SearchField struct {
	Field string
	Value string
}

// Search is an ordered list of search terms. Order is kept on the wire.
type Search []SearchField

// Add returns s with the term appended
func (s Search) Add(field, value string) Search {
	return append(s, SearchField{Field: field, Value: value})
}

// String flattens the terms into "field1: value1 field2: value2"
func (s Search) String() string {
	terms := make([]string, 0, len(s))
	for _, f := range s {
		terms = append(terms, f.Field+": "+f.Value)
	}
	return strings.Join(terms, " ")
}

// BotQuery describes a bot search
type BotQuery struct {
	Search Search
	Limit  int
	Offset int
	// Sort is left off the request when empty.
	Sort string
	// Fields is left off the request when nil. A non-nil empty slice
	// sends an empty value.
	Fields []string
}

func (q BotQuery) params() query {
	params := query{}.
		add("search", q.Search.String()).
		add("limit", strconv.Itoa(q.Limit)).
		add("offset", strconv.Itoa(q.Offset))

	if q.Sort != "" {
		params = params.add("sort", q.Sort)
	}
	if q.Fields != nil {
		params = params.add("fields", strings.Join(q.Fields, " "))
	}

	return params
}

type queryParam struct {
	key   string
	value string
}

// query keeps parameters in insertion order, unlike url.Values.
type query []queryParam

func (q query) add(key, value string) query {
	return append(q, queryParam{key: key, value: value})
}

func (q query) encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, escapeQuery(p.key)+"="+escapeQuery(p.value))
	}
	return strings.Join(parts, "&")
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// endpoint resolves the escaped path segments and query under base.
func endpoint(base *url.URL, params query, segments ...string) *url.URL {
	u := *base
	plain := strings.TrimRight(base.Path, "/")
	raw := strings.TrimRight(base.EscapedPath(), "/")

	for _, s := range segments {
		plain += "/" + s
		raw += "/" + url.PathEscape(s)
	}

	u.Path = plain
	u.RawPath = raw
	u.RawQuery = params.encode()

	return &u
}

// Stats payloads accepted by POST /bots/{id}/stats.
type shardStats struct {
	ShardID     int `json:"shard_id"`
	ShardTotal  int `json:"shard_total"`
	ServerCount int `json:"server_count"`
}

type shardList struct {
	Shards []int `json:"shards"`
}

type serverCount struct {
	ServerCount int `json:"server_count"`
}

// newRequest builds the request for u, encoding body as JSON when set.
func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, body any) (*http.Request, error) {
	var payload io.Reader
	if body != nil {
		b, err := c.codec.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
