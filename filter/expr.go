package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/s0up4200/dblist/dbl"
)

// Filter is a compiled bot predicate. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithLogger sets the logger used to report bots skipped on evaluation errors
func WithLogger(logger zerolog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// Compiler turns expressions into Filters
type Compiler struct {
	compileEnv map[string]any
	cache      *lruCache
	logger     zerolog.Logger
}

// NewCompiler creates an expr-based filter compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		compileEnv: newEnvironment(dbl.Bot{}),
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile compiles an expression into a Filter. The expression must
// evaluate to a boolean.
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.compileEnv),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, f)
	}

	return f, nil
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate runs the filter against a bot
func (f *Filter) Evaluate(bot dbl.Bot) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(bot))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			BotID:      bot.ID,
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	// AsBool at compile time guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// newEnvironment exposes bot fields and helpers to expressions. The zero bot
// doubles as the compile-time environment, so both share one shape.
func newEnvironment(bot dbl.Bot) map[string]any {
	env := make(map[string]any, 32)

	env["Bot"] = bot
	env["ID"] = bot.ID
	env["Username"] = bot.Username
	env["Points"] = bot.Points
	env["MonthlyPoints"] = bot.MonthlyPoints
	env["Servers"] = bot.ServerCount
	env["Shards"] = bot.ShardCount
	env["Tags"] = bot.Tags
	env["Certified"] = bot.Certified
	env["Lib"] = bot.Lib
	env["Prefix"] = bot.Prefix
	env["Owners"] = bot.Owners
	env["Date"] = bot.Date

	env["hasTag"] = createHasTagFunc(bot.Tags)
	env["ownedBy"] = createOwnedByFunc(bot.Owners)

	addHelperFunctions(env)

	return env
}

func addHelperFunctions(env map[string]any) {
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["lower"] = strings.ToLower
	env["now"] = time.Now
}

func createHasTagFunc(tags []string) func(string) bool {
	lowerTags := make([]string, len(tags))
	for i, tag := range tags {
		lowerTags[i] = strings.ToLower(tag)
	}
	return func(tag string) bool {
		return slices.Contains(lowerTags, strings.ToLower(tag))
	}
}

func createOwnedByFunc(owners []string) func(string) bool {
	return func(id string) bool {
		return slices.Contains(owners, id)
	}
}
