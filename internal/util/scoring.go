package util

import (
	"strconv"

	"github.com/sahilm/fuzzy"

	"github.com/mithrel/dossier/pkg/api"
)

// reportSource exposes "id title" strings to fuzzy matching.
type reportSource []api.Report

func (s reportSource) String(i int) string {
	return strconv.FormatInt(s[i].ID, 10) + " " + s[i].Title
}

func (s reportSource) Len() int { return len(s) }

// ReportCompletions returns shell completions ("id\ttitle") for reports
// matching input, best first, at most n (n <= 0 means all).
func ReportCompletions(input string, reports []api.Report, n int) []string {
	ranked := reports
	if input != "" {
		matches := fuzzy.FindFrom(input, reportSource(reports))
		ranked = make([]api.Report, 0, len(matches))
		for _, m := range matches {
			ranked = append(ranked, reports[m.Index])
		}
	}
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, strconv.FormatInt(r.ID, 10)+"\t"+r.Title)
	}
	return out
}
