package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/llm"
	"github.com/admitflow/admitflow/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded review-notes requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		w := cmd.OutOrStdout()
		shown := 0
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if shown == 0 {
				fmt.Fprintf(w, "%-5s  %-14s  %-10s  %-26s  %7s  %6s  %s\n",
					"ID", "When", "Purpose", "Model", "Tokens", "Ms", "OK")
				fmt.Fprintln(w, strings.Repeat("─", 84))
			}
			shown++
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(w, "%-5d  %-14s  %-10s  %-26s  %7s  %6d  %s\n",
				e.ID, humanize.Time(e.Timestamp), e.Purpose, truncate(e.Model, 26),
				humanize.Comma(int64(e.InputTokens+e.OutputTokens)), e.LatencyMs, ok)
		}
		if shown == 0 {
			fmt.Fprintln(w, "No LLM requests recorded.")
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d: %w", id, store.ErrNotFound)
		}
		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printEvent(w io.Writer, e *store.LLMRequestEventRecord) {
	fmt.Fprintf(w, "Event %d  %s  %s via %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Model, e.Provider)
	fmt.Fprintf(w, "Purpose %s, %d in / %d out tokens, %dms\n", e.Purpose, e.InputTokens, e.OutputTokens, e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Failed: %s\n", e.ErrorMessage)
	}
	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		body := part.body
		if body == "" {
			body = "(empty)"
		}
		fmt.Fprintf(w, "\n── %s %s\n%s\n", part.title, strings.Repeat("─", 50-len(part.title)), strings.TrimRight(body, "\n"))
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		byPurpose, err := st.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(w, "No LLM requests recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-12s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
		for _, u := range byPurpose {
			fmt.Fprintf(w, "%-12s  %6d  %10s  %10s  %8d\n", u.Purpose, u.Calls,
				humanize.Comma(int64(u.InputTokens)), humanize.Comma(int64(u.OutputTokens)), u.AvgLatencyMs)
		}

		byModel, err := st.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		fmt.Fprintln(w)
		printCosts(w, byModel)
		return nil
	},
}

func printCosts(w io.Writer, usage []store.LLMModelUsage) {
	var (
		total   float64
		unknown []string
	)
	fmt.Fprintf(w, "%-30s  %6s  %10s\n", "Model", "Calls", "Cost (USD)")
	for _, u := range usage {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unknown = append(unknown, u.Model)
		}
		fmt.Fprintf(w, "%-30s  %6d  %10s\n", truncate(u.Model, 30), u.Calls, cost)
	}
	label := "Total"
	if len(unknown) > 0 {
		label = "Total (excluding unpriced models)"
	}
	fmt.Fprintf(w, "%s: %s\n", label, formatCost(total))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests with this purpose (e.g. review)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
