package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/ingest"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/query"
)

var (
	listCategory string
	listSearch   string
	listGrades   []string
	listMajors   []string
	listSort     string

	homePageSize int

	recMajor string
	recGrade string
	recCerts []string
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print this machine's student id",
	// Identity is local; no backend needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), studentID())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scholarships and competitions",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one scholarship in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "New arrivals and deadlines in the next 7 days",
	RunE:  runHome,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend scholarships for a student profile",
	RunE:  runRecommend,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "all", "all, scholarship or competition")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Search term (matched by the backend)")
	listCmd.Flags().StringSliceVar(&listGrades, "grade", nil, "Grade filter, repeatable")
	listCmd.Flags().StringSliceVar(&listMajors, "major", nil, "Major filter, repeatable")
	listCmd.Flags().StringVar(&listSort, "sort", "recent", "recent, deadline or popular")

	homeCmd.Flags().IntVar(&homePageSize, "page-size", 0, "Entries per section (default from config)")

	recommendCmd.Flags().StringVar(&recMajor, "major", "", "Major (required)")
	recommendCmd.Flags().StringVar(&recGrade, "grade", "", "Grade (required)")
	recommendCmd.Flags().StringArrayVar(&recCerts, "cert", nil, "Certificate, repeatable")
}

func runList(cmd *cobra.Command, args []string) error {
	st := query.State{
		Search:   listSearch,
		Category: query.ParseCategory(listCategory),
		Grades:   listGrades,
		Majors:   listMajors,
		Sort:     query.ParseSortMode(listSort),
	}

	items, err := service.List(cmd.Context(), st.ListParams())
	if err != nil {
		logger.Error("failed to list scholarships", zap.Error(err))
		items = nil
	}
	items = query.Apply(items, st)

	out := cmd.OutOrStdout()
	renderScholarships(out, items)
	counts := query.CategoryCounts(items)
	fmt.Fprintf(out, "Total: %d (scholarship %d, competition %d)\n",
		len(items), counts[models.CategoryScholarship], counts[models.CategoryCompetition])
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	d, err := service.Detail(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendRows([]table.Row{
		{"ID", d.ID},
		{"Title", d.Title},
		{"Category", d.Category},
		{"Organization", d.Organization},
		{"Amount", d.Amount},
		{"Starts", d.StartAt},
		{"Deadline", displayDeadline(d.Deadline)},
		{"Grade", strings.Join(d.Conditions.Grade, ", ")},
		{"Major", strings.Join(d.Conditions.Major, ", ")},
		{"Certificates", strings.Join(d.Conditions.Certificates, ", ")},
		{"Apply", d.ApplicationLink},
	})
	t.Render()

	if d.ContentText != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, d.ContentText)
	}
	if d.Etc != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, d.Etc)
	}
	return nil
}

func runHome(cmd *cobra.Command, args []string) error {
	pageSize := cfg.Query.PageSize
	if homePageSize > 0 {
		pageSize = homePageSize
	}

	items, err := service.List(cmd.Context(), query.State{Category: models.CategoryAll}.ListParams())
	if err != nil {
		logger.Error("failed to list scholarships", zap.Error(err))
		items = nil
	}
	view := query.Dashboard(items, time.Now(), pageSize)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Student: %s\n\n", studentID())
	fmt.Fprintf(out, "New (%d)\n", view.NewCount)
	renderScholarships(out, view.NewItems)
	fmt.Fprintf(out, "\nDeadline within 7 days (%d)\n", view.DeadlineSoonCount)
	renderScholarships(out, view.DeadlineSoon)
	return nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	items, err := service.Recommend(cmd.Context(), recMajor, recGrade, recCerts)
	if errors.Is(err, catalog.ErrInvalidRequest) {
		return err
	}
	if err != nil {
		logger.Error("failed to fetch recommendations", zap.Error(err))
		items = nil
	}

	out := cmd.OutOrStdout()
	renderScholarships(out, items)
	fmt.Fprintf(out, "%d recommended, total amount %s원\n", len(items), formatWon(query.TotalAmount(items)))
	return nil
}

func renderScholarships(w io.Writer, items []models.Scholarship) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Category", "Title", "Organization", "Amount", "Deadline", "New"})
	for _, s := range items {
		isNew := ""
		if s.IsNew {
			isNew = "NEW"
		}
		t.AppendRow(table.Row{
			s.ID,
			s.Category,
			ingest.TruncateText(s.Title, 40),
			s.Organization,
			s.Amount,
			displayDeadline(s.Deadline),
			isNew,
		})
	}
	t.Render()
}

func displayDeadline(d string) string {
	if d == "" {
		return "-"
	}
	return d
}

// formatWon groups digits by thousands.
func formatWon(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
