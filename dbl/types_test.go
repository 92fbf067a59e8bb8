package dbl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotStats_TotalServers(t *testing.T) {
	assert.Equal(t, 100, BotStats{ServerCount: 100, Shards: []int{1, 2}}.TotalServers())
	assert.Equal(t, 3, BotStats{Shards: []int{1, 2}}.TotalServers())
	assert.Equal(t, 0, BotStats{}.TotalServers())
}

func TestBotResult_Paging(t *testing.T) {
	r := BotResult{Offset: 0, Count: 50, Total: 120}
	assert.True(t, r.HasMore())
	assert.Equal(t, 50, r.NextOffset())

	r = BotResult{Offset: 100, Count: 20, Total: 120}
	assert.False(t, r.HasMore())
}

func TestTag(t *testing.T) {
	assert.Equal(t, "Luca#1375", Bot{Username: "Luca", Discriminator: "1375"}.Tag())
	assert.Equal(t, "luca", SimpleUser{Username: "luca", Discriminator: "0"}.Tag())
	assert.Equal(t, "luca", User{Username: "luca"}.Tag())
}
