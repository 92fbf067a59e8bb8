package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dblist/dbl"
	"github.com/s0up4200/dblist/filter"
)

var (
	searchTerms []string
	limit       int
	offset      int
	sortBy      string
	fields      []string
	whereExpr   string
)

var botCmd = &cobra.Command{
	Use:   "bot <bot-id>",
	Short: "Show a bot's listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runBot,
}

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "Work with the bot list",
}

var botsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the bot list",
	Long: `Search the bot list.

Server side terms are given as --search field=value and are sent in the
order given. --where narrows the returned page with an expression, e.g.

  dblist bots search --search lib=discordgo --where 'Points > 100 and hasTag("music")'`,
	Args: cobra.NoArgs,
	RunE: runBotsSearch,
}

func init() {
	rootCmd.AddCommand(botCmd, botsCmd)
	botsCmd.AddCommand(botsSearchCmd)

	botsSearchCmd.Flags().StringArrayVarP(&searchTerms, "search", "s", nil, "search term as field=value (repeatable)")
	botsSearchCmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum number of bots to return")
	botsSearchCmd.Flags().IntVarP(&offset, "offset", "o", 0, "number of bots to skip")
	botsSearchCmd.Flags().StringVar(&sortBy, "sort", "", "field to sort by")
	botsSearchCmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to return, e.g. id,username")
	botsSearchCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "filter expression applied to the results")
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	bot, err := client.GetBot(ctx, args[0]).Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, bot)
	}

	printBot(out, bot, true)
	return nil
}

// parseSearch turns field=value terms into an ordered search
func parseSearch(terms []string) (dbl.Search, error) {
	var s dbl.Search
	for _, term := range terms {
		field, value, ok := strings.Cut(term, "=")
		if !ok || strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("invalid search term %q: expected field=value", term)
		}
		s = s.Add(strings.TrimSpace(field), strings.TrimSpace(value))
	}
	return s, nil
}

func runBotsSearch(cmd *cobra.Command, args []string) error {
	search, err := parseSearch(searchTerms)
	if err != nil {
		return err
	}

	var compiled *filter.Filter
	compiler := filter.NewCompiler(filter.WithLogger(logger))
	if whereExpr != "" {
		compiled, err = compiler.Compile(whereExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	q := dbl.BotQuery{
		Search: search,
		Limit:  limit,
		Offset: offset,
		Sort:   sortBy,
	}
	if cmd.Flags().Changed("fields") {
		q.Fields = fields
	}

	ctx, cancel := waitContext(cmd)
	defer cancel()

	logger.Info().Str("search", search.String()).Int("limit", limit).Int("offset", offset).Msg("Searching bots")

	result, err := client.GetBots(ctx, q).Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to search bots: %w", err)
	}

	bots := result.Results
	if compiled != nil {
		bots, err = compiler.Apply(ctx, compiled, bots)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		result.Results = bots
		return printJSON(out, result)
	}

	if len(bots) == 0 {
		fmt.Fprintln(out, "No bots found matching the search.")
		return nil
	}

	fmt.Fprintf(out, "\nFound %d bots (%d-%d of %d):\n", len(bots), result.Offset+1, result.Offset+result.Count, result.Total)
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, bot := range bots {
		printBot(out, bot, false)
	}

	if result.HasMore() {
		fmt.Fprintf(out, "\nMore results: --offset %d\n", result.NextOffset())
	}

	return nil
}

func printBot(w io.Writer, bot dbl.Bot, details bool) {
	fmt.Fprintf(w, "• %s (%s)", bot.Tag(), bot.ID)
	if bot.Certified {
		fmt.Fprint(w, " [CERTIFIED]")
	}
	fmt.Fprintln(w)

	if bot.ShortDescription != "" {
		fmt.Fprintf(w, "  %s\n", bot.ShortDescription)
	}
	fmt.Fprintf(w, "  Points: %d (monthly %d)\n", bot.Points, bot.MonthlyPoints)

	if !details {
		return
	}

	if len(bot.Tags) > 0 {
		fmt.Fprintf(w, "  Tags: %s\n", strings.Join(bot.Tags, ", "))
	}
	if bot.Lib != "" {
		fmt.Fprintf(w, "  Library: %s\n", bot.Lib)
	}
	if bot.Prefix != "" {
		fmt.Fprintf(w, "  Prefix: %s\n", bot.Prefix)
	}
	if bot.ServerCount > 0 {
		fmt.Fprintf(w, "  Servers: %d\n", bot.ServerCount)
	}
	if len(bot.Owners) > 0 {
		fmt.Fprintf(w, "  Owners: %s\n", strings.Join(bot.Owners, ", "))
	}
	if !bot.Date.IsZero() {
		fmt.Fprintf(w, "  Listed: %s\n", bot.Date.Format("2006-01-02"))
	}
}
