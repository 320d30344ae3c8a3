package report

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/reviewpulse/reviewpulse/internal/aggregate"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

// Generator renders a markdown digest of the three aggregated views. The
// digest is a convenience surface for the dashboard; the JSON views remain
// the canonical output.
type Generator struct {
	store *store.Store
}

// NewGenerator creates a digest generator over the given store.
func NewGenerator(st *store.Store) *Generator {
	return &Generator{store: st}
}

// Run loads the current Stats and TopIssues views from disk and writes the
// digest. Missing views are tolerated; the digest covers whatever exists.
func (g *Generator) Run() error {
	var stats *aggregate.StatsView
	if data, err := g.store.ReadView(aggregate.StatsFile); err == nil {
		var v aggregate.StatsView
		if err := json.Unmarshal(data, &v); err == nil {
			stats = &v
		}
	}

	var issues *aggregate.TopIssuesView
	if data, err := g.store.ReadView(aggregate.TopIssuesFile); err == nil {
		var v aggregate.TopIssuesView
		if err := json.Unmarshal(data, &v); err == nil {
			issues = &v
		}
	}

	return g.Generate(stats, issues)
}

// Generate builds the digest from the supplied views and writes digest.md
// next to them.
func (g *Generator) Generate(stats *aggregate.StatsView, issues *aggregate.TopIssuesView) error {
	digest := BuildDigest(stats, issues)
	if err := g.store.WriteDigest(digest); err != nil {
		return err
	}
	log.Println("Digest written")
	return nil
}

// BuildDigest assembles the markdown digest body.
func BuildDigest(stats *aggregate.StatsView, issues *aggregate.TopIssuesView) string {
	var sections []string

	if stats != nil {
		sections = append(sections, statsSection(stats))
	}
	if issues != nil {
		if s := issuesSection("Top Negative Issues", issues.Target.NegativeIssues); s != "" {
			sections = append(sections, s)
		}
		if s := issuesSection("Positive Highlights", issues.Target.PositiveHighlights); s != "" {
			sections = append(sections, s)
		}
		if s := churnSection(issues.Target.ChurnAlerts); s != "" {
			sections = append(sections, s)
		}
		if s := competitorSection(issues.Target.CompetitorComparisons); s != "" {
			sections = append(sections, s)
		}
	}

	if len(sections) == 0 {
		return "## Feedback Digest\n\nNo aggregated data available.\n"
	}
	return strings.Join(sections, "\n\n---\n\n") + "\n"
}

func statsSection(stats *aggregate.StatsView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Overview\n\n")
	fmt.Fprintf(&b, "- Total reviews: %d\n", stats.Total.Reviews)
	fmt.Fprintf(&b, "- Target reviews: %d (avg rating %.2f)\n", stats.Target.Total, stats.Target.AverageRating)
	fmt.Fprintf(&b, "- Churn signal rate: %.0f%%\n", stats.Target.ChurnSignalRate*100)

	if len(stats.Competitors) > 0 {
		names := make([]string, 0, len(stats.Competitors))
		for name := range stats.Competitors {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n**Competitors:**\n")
		for _, name := range names {
			comp := stats.Competitors[name]
			if comp.AverageRating != nil {
				fmt.Fprintf(&b, "- %s: %d reviews, avg rating %.2f\n", name, comp.Total, *comp.AverageRating)
			} else {
				fmt.Fprintf(&b, "- %s: %d reviews\n", name, comp.Total)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func issuesSection(title string, issues []aggregate.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	for _, issue := range issues {
		line := fmt.Sprintf("- **%s** (%d)", issue.ProblemType, issue.Count)
		if issue.Severity != "" {
			line += fmt.Sprintf(" [%s]", issue.Severity)
		}
		if len(issue.Keywords) > 0 {
			line += ": " + strings.Join(issue.Keywords, ", ")
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func churnSection(alerts []aggregate.ChurnAlert) string {
	if len(alerts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Churn Alerts\n\n")
	for _, alert := range alerts {
		fmt.Fprintf(&b, "- **%s** mentioned in %d churning reviews\n", alert.Keyword, alert.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

func competitorSection(comparisons []aggregate.CompetitorComparison) string {
	if len(comparisons) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Competitor Mentions\n\n")
	for _, comp := range comparisons {
		fmt.Fprintf(&b, "- %s: %d mentions\n", comp.Competitor, comp.MentionCount)
	}
	return strings.TrimRight(b.String(), "\n")
}
