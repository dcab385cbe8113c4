package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/config"
	"github.com/astroprint/astrodeck/internal/paging"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var headerCaser = cases.Title(language.English)

// listFlags select one page of a filtered list and how to print it.
type listFlags struct {
	filter   string
	page     int
	pageSize int
	output   string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filter, "filter", "", "show only names containing this text (case-sensitive)")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "items per page (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputTable, "output format: table, json or yaml")
}

func (f *listFlags) validate() error {
	switch f.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", f.output)
	}
	if f.page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", f.page)
	}
	return nil
}

// listing is one page of a list as printed by json and yaml output.
type listing[R any] struct {
	Query      string `json:"query,omitempty" yaml:"query,omitempty"`
	Page       int    `json:"page" yaml:"page"`
	TotalPages int    `json:"total_pages" yaml:"total_pages"`
	Window     []int  `json:"window" yaml:"window"`
	Matched    int    `json:"matched" yaml:"matched"`
	Total      int    `json:"total" yaml:"total"`
	Items      []R    `json:"items" yaml:"items"`
}

// paginate runs items through a Paginator the same way the TUI pages them.
func paginate[T paging.Named, R any](items []T, f listFlags, cfg config.Config, row func(T) R) (listing[R], error) {
	size := f.pageSize
	if size <= 0 {
		size = cfg.PageSize
	}
	p := paging.New[T](size)
	p.SetItems(items)
	p.SetQuery(f.filter)

	total := p.TotalPages()
	if total > 0 && f.page > total {
		return listing[R]{}, fmt.Errorf("page %d out of range (1-%d)", f.page, total)
	}
	p.GoTo(f.page)

	page := p.Items()
	rows := make([]R, 0, len(page))
	for _, item := range page {
		rows = append(rows, row(item))
	}
	return listing[R]{
		Query:      f.filter,
		Page:       p.Page() + 1,
		TotalPages: total,
		Window:     p.Window(cfg.PageWindow),
		Matched:    len(p.Filtered()),
		Total:      len(items),
		Items:      rows,
	}, nil
}

type designRow struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	PrintFiles    int    `json:"print_files" yaml:"print_files"`
	AllowDownload bool   `json:"allow_download" yaml:"allow_download"`
}

func toDesignRow(d astroprint.Design) designRow {
	return designRow{ID: d.ID, Name: d.Name, PrintFiles: d.PrintFileCount, AllowDownload: d.AllowDownload}
}

type printFileRow struct {
	ID        string `json:"id" yaml:"id"`
	Filename  string `json:"filename" yaml:"filename"`
	Created   string `json:"created" yaml:"created"`
	Printer   string `json:"printer" yaml:"printer"`
	Material  string `json:"material" yaml:"material"`
	Quality   string `json:"quality" yaml:"quality"`
	PrintTime string `json:"print_time" yaml:"print_time"`
	Size      string `json:"size" yaml:"size"`
}

func toPrintFileRow(p astroprint.PrintFile) printFileRow {
	return printFileRow{
		ID:        p.ID,
		Filename:  p.Filename,
		Created:   astroprint.FormatCreated(p.CreatedAt()),
		Printer:   p.Printer.Name,
		Material:  p.Material.Name,
		Quality:   p.Quality,
		PrintTime: astroprint.FormatPrintTime(p.Info.PrintTime),
		Size:      astroprint.FormatDimensions(p.Info.Size),
	}
}

func newDesignsCmd(global *globalFlags) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "designs",
		Short: "List the linked account's designs",
		Example: `  astrodeck designs --filter Benchy
  astrodeck designs --page 2 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			env, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			designs, err := env.Client.Designs(cmd.Context())
			if err != nil {
				return fmt.Errorf("list designs: %w", err)
			}
			page, err := paginate(designs, flags, env.Config, toDesignRow)
			if err != nil {
				return err
			}
			return writeListing(cmd.OutOrStdout(), flags.output, page,
				[]string{"id", "name", "print files", "download"},
				func(r designRow) []string {
					return []string{r.ID, r.Name, strconv.Itoa(r.PrintFiles), yesNo(r.AllowDownload)}
				})
		},
	}
	flags.register(cmd)
	return cmd
}

func newPrintFilesCmd(global *globalFlags) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "printfiles [design-id]",
		Short: "List print files, optionally of one design",
		Example: `  astrodeck printfiles
  astrodeck printfiles 5f1c2 --filter mk4 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			env, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			var designID string
			if len(args) == 1 {
				designID = args[0]
			}
			files, err := env.Client.PrintFiles(cmd.Context(), designID)
			if err != nil {
				return fmt.Errorf("list print files: %w", err)
			}
			page, err := paginate(files, flags, env.Config, toPrintFileRow)
			if err != nil {
				return err
			}
			return writeListing(cmd.OutOrStdout(), flags.output, page,
				[]string{"id", "filename", "created", "printer", "material", "quality", "print time", "size"},
				func(r printFileRow) []string {
					return []string{r.ID, r.Filename, r.Created, r.Printer, r.Material, r.Quality, r.PrintTime, r.Size}
				})
		},
	}
	flags.register(cmd)
	return cmd
}

func writeListing[R any](w io.Writer, output string, page listing[R], headers []string, cells func(R) []string) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(page); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(page.Items) == 0 {
		if page.Query != "" {
			fmt.Fprintf(w, "No matches for %q.\n", page.Query)
		} else {
			fmt.Fprintln(w, "Nothing to show.")
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	titled := make([]string, len(headers))
	for i, h := range headers {
		titled[i] = headerCaser.String(h)
	}
	fmt.Fprintln(tw, strings.Join(titled, "\t"))
	for _, r := range page.Items {
		fmt.Fprintln(tw, strings.Join(cells(r), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPage %d of %d · %d of %d items · pages %s\n",
		page.Page, page.TotalPages, page.Matched, page.Total, formatWindow(page.Window, page.Page))
	return nil
}

func formatWindow(window []int, current int) string {
	parts := make([]string, len(window))
	for i, n := range window {
		if n == current {
			parts[i] = "[" + strconv.Itoa(n) + "]"
		} else {
			parts[i] = strconv.Itoa(n)
		}
	}
	return strings.Join(parts, " ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
