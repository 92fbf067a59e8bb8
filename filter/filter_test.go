package filter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/dblist/dbl"
)

func testBots() []dbl.Bot {
	return []dbl.Bot{
		{
			ID:            "1",
			Username:      "Luca",
			Tags:          []string{"Music", "Fun"},
			Owners:        []string{"100"},
			Points:        500,
			MonthlyPoints: 40,
			ServerCount:   1200,
			Certified:     true,
			Lib:           "discordgo",
			Date:          time.Now().AddDate(0, 0, -10),
		},
		{
			ID:            "2",
			Username:      "Modbot",
			Tags:          []string{"Moderation"},
			Owners:        []string{"200", "100"},
			Points:        80,
			MonthlyPoints: 5,
			ServerCount:   40,
			Lib:           "discord.js",
			Date:          time.Now().AddDate(-1, 0, 0),
		},
		{
			ID:          "3",
			Username:    "lucky",
			Tags:        nil,
			Owners:      []string{"300"},
			Points:      10,
			ServerCount: 3,
			Lib:         "discord.py",
			Date:        time.Now().AddDate(0, 0, -2),
		},
	}
}

func TestCompiler_Compile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "tag helper", expression: `hasTag("music")`},
		{name: "fields", expression: `Points > 100 and Certified`},
		{name: "helpers", expression: `startsWith(Username, "lu") and daysSince(Date) < 30`},
		{name: "empty", expression: "   ", wantErr: true, errContains: "empty expression"},
		{name: "syntax", expression: `hasTag("unclosed`, wantErr: true},
		{name: "not boolean", expression: `Points + 1`, wantErr: true},
		{name: "unknown variable", expression: `Rating > 3`, wantErr: true},
	}

	c := NewCompiler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression)

			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestFilter_Evaluate(t *testing.T) {
	bot := testBots()[0]

	tests := []struct {
		expression string
		want       bool
	}{
		{`hasTag("MUSIC")`, true},
		{`hasTag("moderation")`, false},
		{`ownedBy("100")`, true},
		{`Servers >= 1000 and MonthlyPoints > 10`, true},
		{`Lib == "discordgo"`, true},
		{`contains(Username, "UC")`, true},
		{`Date > daysAgo(30)`, true},
		{`lower(Username) == "luca"`, true},
		{`Bot.ID == "1"`, true},
		{`len(Tags) == 3`, false},
	}

	c := NewCompiler()

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := c.Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Evaluate(bot)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompiler_Apply(t *testing.T) {
	c := NewCompiler()

	f, err := c.Compile(`ownedBy("100") or startsWith(Username, "luck")`)
	require.NoError(t, err)

	got, err := c.Apply(context.Background(), f, testBots())
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestCompiler_ApplySkipsEvaluationErrors(t *testing.T) {
	c := NewCompiler()

	// Only the first bot has a second tag.
	f, err := c.Compile(`Tags[1] == "Fun"`)
	require.NoError(t, err)

	_, err = f.Evaluate(testBots()[2])
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "3", evalErr.BotID)

	got, err := c.Apply(context.Background(), f, testBots())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestCompiler_ApplyCancelled(t *testing.T) {
	c := NewCompiler()
	f, err := c.Compile(`Points > 0`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Apply(ctx, f, testBots())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompiler_Cache(t *testing.T) {
	c := NewCompiler(WithCache(2))

	a, err := c.Compile(`Points > 1`)
	require.NoError(t, err)
	again, err := c.Compile(` Points > 1 `)
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = c.Compile(`Points > 2`)
	require.NoError(t, err)
	_, err = c.Compile(`Points > 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	// Oldest entry was evicted.
	evicted, err := c.Compile(`Points > 1`)
	require.NoError(t, err)
	assert.NotSame(t, a, evicted)

	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, 0, NewCompiler().Size())
}
