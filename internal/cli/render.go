package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/fanplan/internal/cache"
	"github.com/Veraticus/fanplan/internal/metrics"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return BoldStyle.Padding(0, 1)
			}
			return TableCellStyle.PaddingLeft(1)
		})
}

func contentIcon(t model.ContentType) string {
	switch t {
	case model.ContentAlbum:
		return AlbumIcon
	case model.ContentMerchandise:
		return MerchIcon
	case model.ContentExperience:
		return TicketIcon
	case model.ContentDigital:
		return DigitalIcon
	default:
		return ""
	}
}

// RenderEntityRecommendations writes the "new entities to follow" table.
func RenderEntityRecommendations(w io.Writer, recs []model.EntityRecommendation) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Entities you might like")); err != nil {
		return err
	}
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No new entities to recommend right now."))
		return err
	}

	t := newTable("#", "Entity", "Match", "Why")
	for i, r := range recs {
		name := r.EntityName
		if r.Boosted {
			name = BoostedStyle.Render(name + " " + BoostIcon)
		}
		t.Row(strconv.Itoa(i+1), name, r.ScoreText(), r.Justification)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderContentRecommendations writes the content suggestions table.
func RenderContentRecommendations(w io.Writer, recs []model.ContentRecommendation) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Worth spending on")); err != nil {
		return err
	}
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("Nothing to suggest for the entities you follow."))
		return err
	}

	t := newTable("", "Title", "Est. price", "Why")
	for _, r := range recs {
		t.Row(contentIcon(r.ContentType), r.Title, fmt.Sprintf("$%.2f", r.EstimatedPrice), r.Justification)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderSnapshot writes a previously cached recommendation run.
func RenderSnapshot(w io.Writer, snap *cache.Snapshot, now time.Time) error {
	if snap == nil {
		_, err := fmt.Fprintln(w, FormatWarning("No cached recommendations. Run `fanplan recommend` first."))
		return err
	}

	age := now.Sub(snap.GeneratedAt).Round(time.Minute)
	header := fmt.Sprintf("Cached %s (%s ago)", snap.GeneratedAt.Local().Format("Jan 2, 2006 15:04"), age)
	if _, err := fmt.Fprintln(w, FormatInfo(header)); err != nil {
		return err
	}
	if err := RenderEntityRecommendations(w, snap.Entities); err != nil {
		return err
	}
	return RenderContentRecommendations(w, snap.Content)
}

// RenderProfile writes a user's budget summary and followed entities.
func RenderProfile(w io.Writer, p *model.UserProfile) error {
	summary := fmt.Sprintf("Budget:    $%.2f\n", p.TotalBudget) +
		fmt.Sprintf("Spent:     $%.2f\n", p.TotalSpent) +
		fmt.Sprintf("Available: $%.2f\n", p.AvailableBudget()) +
		fmt.Sprintf("ID:        %s", p.ID)
	if _, err := fmt.Fprintln(w, RenderBox(FanIcon+" "+p.DisplayName, summary)); err != nil {
		return err
	}
	return RenderFollowed(w, p.Followed)
}

// RenderFollowed writes the followed entities in rank order.
func RenderFollowed(w io.Writer, followed []model.FollowedEntity) error {
	if len(followed) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("Not following anyone yet."))
		return err
	}

	t := newTable("Rank", "Entity", "Allocated", "Spent", "Used")
	for _, f := range model.SortByRank(followed) {
		used := fmt.Sprintf("%.0f%%", f.SpentPercentage())
		if f.Allocated > 0 && f.Spent > f.Allocated {
			used = WarningStyle.Render(used)
		}
		t.Row(strconv.Itoa(f.Rank), f.Name, fmt.Sprintf("$%.2f", f.Allocated), fmt.Sprintf("$%.2f", f.Spent), used)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderPurchases writes purchases newest first, as given.
func RenderPurchases(w io.Writer, purchases []model.PurchaseRecord) error {
	if len(purchases) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No purchases recorded."))
		return err
	}

	t := newTable("Date", "Entity", "Category", "Amount", "Notes")
	for _, p := range purchases {
		t.Row(p.PurchasedAt.Format("2006-01-02"), p.EntityName, p.Category.DisplayName(), fmt.Sprintf("$%.2f", p.Amount), p.Notes)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderMetrics writes flattened metric samples.
func RenderMetrics(w io.Writer, samples []metrics.Sample) error {
	if _, err := fmt.Fprintln(w, FormatTitle(ChartIcon+" Metrics")); err != nil {
		return err
	}
	t := newTable("Metric", "Labels", "Value")
	for _, s := range samples {
		t.Row(s.Name, s.Labels, strconv.FormatFloat(s.Value, 'f', -1, 64))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
