package dbl

import (
	"fmt"
	"time"
)

// BotStats represents the server and shard counts reported for a bot
type BotStats struct {
	ServerCount int   `json:"server_count"`
	Shards      []int `json:"shards"`
	ShardCount  int   `json:"shard_count"`
}

// TotalServers returns the server count, falling back to the sum of the
// per-shard counts when no aggregate was reported
func (s BotStats) TotalServers() int {
	if s.ServerCount > 0 {
		return s.ServerCount
	}

	total := 0
	for _, n := range s.Shards {
		total += n
	}
	return total
}

// SimpleUser is the reduced user shape returned by the votes endpoint
type SimpleUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar,omitempty"`
	DefAvatar     string `json:"defAvatar,omitempty"`
}

// Tag returns the Discord style name#discriminator
func (u SimpleUser) Tag() string {
	return discordTag(u.Username, u.Discriminator)
}

// Bot represents a bot listed on the site
type Bot struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"clientid"`
	Username         string    `json:"username"`
	Discriminator    string    `json:"discriminator"`
	Avatar           string    `json:"avatar,omitempty"`
	DefAvatar        string    `json:"defAvatar,omitempty"`
	Lib              string    `json:"lib"`
	Prefix           string    `json:"prefix"`
	ShortDescription string    `json:"shortdesc"`
	LongDescription  string    `json:"longdesc,omitempty"`
	Tags             []string  `json:"tags"`
	Website          string    `json:"website,omitempty"`
	Support          string    `json:"support,omitempty"`
	GitHub           string    `json:"github,omitempty"`
	Owners           []string  `json:"owners"`
	Guilds           []string  `json:"guilds,omitempty"`
	Invite           string    `json:"invite,omitempty"`
	Date             time.Time `json:"date"`
	Certified        bool      `json:"certifiedBot"`
	Vanity           string    `json:"vanity,omitempty"`
	Points           int       `json:"points"`
	MonthlyPoints    int       `json:"monthlyPoints"`
	DonateBotGuildID string    `json:"donatebotguildid,omitempty"`
	ServerCount      int       `json:"server_count,omitempty"`
	ShardCount       int       `json:"shard_count,omitempty"`
}

// Tag returns the Discord style name#discriminator
func (b Bot) Tag() string {
	return discordTag(b.Username, b.Discriminator)
}

// Social holds the social links a user set on their profile
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Reddit    string `json:"reddit,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

// User represents a user profile
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar,omitempty"`
	DefAvatar     string `json:"defAvatar,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Banner        string `json:"banner,omitempty"`
	Social        Social `json:"social"`
	Color         string `json:"color,omitempty"`
	Supporter     bool   `json:"supporter"`
	CertifiedDev  bool   `json:"certifiedDev"`
	Mod           bool   `json:"mod"`
	WebMod        bool   `json:"webMod"`
	Admin         bool   `json:"admin"`
}

// Tag returns the Discord style name#discriminator
func (u User) Tag() string {
	return discordTag(u.Username, u.Discriminator)
}

// BotResult is a page of bots returned by a search
type BotResult struct {
	Results []Bot `json:"results"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Count   int   `json:"count"`
	Total   int   `json:"total"`
}

// HasMore reports whether results exist past this page
func (r BotResult) HasMore() bool {
	return r.Offset+r.Count < r.Total
}

// NextOffset returns the offset of the following page
func (r BotResult) NextOffset() int {
	return r.Offset + r.Count
}

func discordTag(name, discriminator string) string {
	if discriminator == "" || discriminator == "0" {
		return name
	}
	return fmt.Sprintf("%s#%s", name, discriminator)
}
