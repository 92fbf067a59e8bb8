package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	serverCount int
	shardID     int
	shardTotal  int
	shardCounts []int
)

// statsCmd groups the stats subcommands
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Read or report bot server counts",
}

var statsGetCmd = &cobra.Command{
	Use:   "get [bot-id]",
	Short: "Show the stats of a bot (defaults to your own)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatsGet,
}

var statsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Report server counts for your bot",
	Long: `Report server counts for your bot.

Pass --server-count alone for a total, together with --shard-id and
--shard-total for a single shard, or --shards with one count per shard.`,
	Args: cobra.NoArgs,
	RunE: runStatsSet,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsGetCmd, statsSetCmd)

	statsSetCmd.Flags().IntVar(&serverCount, "server-count", -1, "total server count")
	statsSetCmd.Flags().IntVar(&shardID, "shard-id", -1, "shard reporting the count")
	statsSetCmd.Flags().IntVar(&shardTotal, "shard-total", 0, "number of shards")
	statsSetCmd.Flags().IntSliceVar(&shardCounts, "shards", nil, "server count per shard, e.g. 10,20,30")
	statsSetCmd.MarkFlagsMutuallyExclusive("shards", "server-count")
	statsSetCmd.MarkFlagsRequiredTogether("shard-id", "shard-total")
}

func runStatsGet(cmd *cobra.Command, args []string) error {
	botID := client.BotID()
	if len(args) == 1 {
		botID = args[0]
	}

	ctx, cancel := waitContext(cmd)
	defer cancel()

	stats, err := client.GetStats(ctx, botID).Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats for %s: %w", botID, err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, stats)
	}

	fmt.Fprintf(out, "Bot:     %s\n", botID)
	fmt.Fprintf(out, "Servers: %d\n", stats.TotalServers())
	if stats.ShardCount > 0 {
		fmt.Fprintf(out, "Shards:  %d\n", stats.ShardCount)
	}
	if len(stats.Shards) > 0 {
		counts := make([]string, len(stats.Shards))
		for i, n := range stats.Shards {
			counts[i] = fmt.Sprintf("#%d=%d", i, n)
		}
		fmt.Fprintf(out, "Per shard: %s\n", strings.Join(counts, " "))
	}

	return nil
}

func runStatsSet(cmd *cobra.Command, args []string) error {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	var (
		what string
		err  error
	)

	switch {
	case cmd.Flags().Changed("shards"):
		what = fmt.Sprintf("%d shard counts", len(shardCounts))
		_, err = client.SetShardStats(ctx, shardCounts).Await(ctx)
	case cmd.Flags().Changed("shard-id"):
		if serverCount < 0 {
			return fmt.Errorf("--server-count is required with --shard-id")
		}
		what = fmt.Sprintf("%d servers on shard %d/%d", serverCount, shardID, shardTotal)
		_, err = client.SetStats(ctx, shardID, shardTotal, serverCount).Await(ctx)
	case serverCount >= 0:
		what = fmt.Sprintf("%d servers", serverCount)
		_, err = client.SetServerCount(ctx, serverCount).Await(ctx)
	default:
		return fmt.Errorf("nothing to report: pass --server-count or --shards")
	}

	if err != nil {
		return fmt.Errorf("failed to report stats: %w", err)
	}

	logger.Info().Str("bot", client.BotID()).Msg("Stats reported")
	fmt.Fprintf(cmd.OutOrStdout(), "Reported %s for %s\n", what, client.BotID())

	return nil
}
