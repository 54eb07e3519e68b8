package telegram

import (
	"fmt"
	"strings"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/history"
)

type historyRecord = history.Record

func formatResult(res analysis.Result) string {
	switch res.Kind {
	case analysis.KindOK:
		var b strings.Builder
		fmt.Fprintf(&b, "📊 %s analysis", res.Category)
		if res.Source != "" {
			fmt.Fprintf(&b, " of %s", res.Source)
		}
		if res.FromCache {
			b.WriteString(" (from cache)")
		}
		b.WriteString("\n\n")
		b.WriteString(res.Text)
		if res.TotalTokens > 0 {
			fmt.Fprintf(&b, "\n\n[model=%s, tokens: prompt=%d, completion=%d, total=%d]",
				res.Model, res.PromptTokens, res.CompletionTokens, res.TotalTokens)
		}
		return b.String()
	case analysis.KindRemoteFailure:
		if res.Detail != "" {
			return "❌ " + res.Text + "\n\n" + res.Detail
		}
		return "❌ " + res.Text
	default:
		return "⚠️ " + res.Text
	}
}

func formatHistory(sess *analysis.Session) string {
	records := sess.History.List()
	if len(records) == 0 {
		return "No analysis history yet."
	}
	var b strings.Builder
	b.WriteString("Recent analyses:\n")
	for i, r := range records {
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, r.Timestamp, r.Category, r.ContentPreview)
	}
	b.WriteString("\nUse /show <n> or /delete <n>.")
	return b.String()
}

func formatStatus(sess *analysis.Session, showCache bool) string {
	st := sess.Status()
	var b strings.Builder
	if st.HasAPIKey {
		b.WriteString("API key: configured\n")
	} else {
		b.WriteString("API key: missing, use /key <api key>\n")
	}
	if c := sess.Category(); c != "" {
		fmt.Fprintf(&b, "Analysis type: %s\n", c)
	}
	if showCache {
		fmt.Fprintf(&b, "Cached results: %d\n", st.CacheEntries)
	}
	fmt.Fprintf(&b, "History records: %d", st.HistoryCount)
	return b.String()
}
