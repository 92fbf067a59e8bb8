package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/dblist/dbl"
)

// maxConcurrentLookups bounds how many requests voters/voted wait on at once
const maxConcurrentLookups = 5

var resolveVoters bool

var userCmd = &cobra.Command{
	Use:   "user <user-id>",
	Short: "Show a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runUser,
}

var votersCmd = &cobra.Command{
	Use:   "voters [bot-id]",
	Short: "List the users who voted for a bot (defaults to your own)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVoters,
}

var votedCmd = &cobra.Command{
	Use:   "voted <user-id>...",
	Short: "Check whether users voted for your bot",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVoted,
}

func init() {
	rootCmd.AddCommand(userCmd, votersCmd, votedCmd)

	votersCmd.Flags().BoolVar(&resolveVoters, "resolve", false, "fetch the full profile of every voter")
}

func runUser(cmd *cobra.Command, args []string) error {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	user, err := client.GetUser(ctx, args[0]).Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to get user %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, user)
	}

	fmt.Fprintf(out, "• %s (%s)\n", user.Tag(), user.ID)
	if user.Bio != "" {
		fmt.Fprintf(out, "  %s\n", user.Bio)
	}

	var roles []string
	for _, r := range []struct {
		set  bool
		name string
	}{
		{user.Admin, "admin"},
		{user.Mod, "mod"},
		{user.WebMod, "web mod"},
		{user.CertifiedDev, "certified dev"},
		{user.Supporter, "supporter"},
	} {
		if r.set {
			roles = append(roles, r.name)
		}
	}
	if len(roles) > 0 {
		fmt.Fprintf(out, "  Roles: %v\n", roles)
	}

	return nil
}

func runVoters(cmd *cobra.Command, args []string) error {
	botID := client.BotID()
	if len(args) == 1 {
		botID = args[0]
	}

	ctx, cancel := waitContext(cmd)
	defer cancel()

	voters, err := client.GetVoters(ctx, botID).Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to get voters for %s: %w", botID, err)
	}

	out := cmd.OutOrStdout()

	if !resolveVoters {
		if jsonOutput {
			return printJSON(out, voters)
		}
		fmt.Fprintf(out, "%d voters for %s:\n", len(voters), botID)
		for _, v := range voters {
			fmt.Fprintf(out, "• %s (%s)\n", v.Tag(), v.ID)
		}
		return nil
	}

	users := make([]dbl.User, len(voters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i, v := range voters {
		g.Go(func() error {
			user, err := client.GetUser(gctx, v.ID).Await(gctx)
			if err != nil {
				return fmt.Errorf("failed to resolve voter %s: %w", v.ID, err)
			}
			users[i] = user
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out, users)
	}

	fmt.Fprintf(out, "%d voters for %s:\n", len(users), botID)
	for _, u := range users {
		fmt.Fprintf(out, "• %s (%s)", u.Tag(), u.ID)
		if u.Supporter {
			fmt.Fprint(out, " [SUPPORTER]")
		}
		fmt.Fprintln(out)
	}

	return nil
}

// voteResult is the outcome of one vote check
type voteResult struct {
	UserID string `json:"user_id"`
	Voted  bool   `json:"voted"`
	Error  string `json:"error,omitempty"`
}

func runVoted(cmd *cobra.Command, args []string) error {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	results := make([]voteResult, len(args))

	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)

	// A failed check is reported per user and does not stop the others.
	for i, userID := range args {
		g.Go(func() error {
			voted, err := client.HasVoted(ctx, userID).Await(ctx)
			results[i] = voteResult{UserID: userID, Voted: voted}
			if err != nil {
				results[i].Error = err.Error()
				logger.Debug().Err(err).Str("user", userID).Msg("Vote check failed")
			}
			return nil
		})
	}

	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			switch {
			case r.Error != "":
				fmt.Fprintf(out, "%s: error: %s\n", r.UserID, r.Error)
			case r.Voted:
				fmt.Fprintf(out, "%s: voted\n", r.UserID)
			default:
				fmt.Fprintf(out, "%s: not voted\n", r.UserID)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d vote checks failed", failed, len(args))
	}

	return nil
}
