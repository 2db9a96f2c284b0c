// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Query and manage catalog records (list, get, search, facets, create, export)",
	Long: `Research operates on the migrated catalog. Use subcommands to list
records, fetch one by slug, run a keyword search, inspect filter facets,
create a record, or export the catalog.`,
}

// --- list subcommand ---

var researchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog records, most recent first",
	RunE:  runResearchList,
}

func runResearchList(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}
	printRecordTable(records)
	return nil
}

// --- get subcommand ---

var researchGetCmd = &cobra.Command{
	Use:   "get <slug>",
	Short: "Fetch one catalog record by slug",
	Args:  cobra.ExactArgs(1),
	RunE:  runResearchGet,
}

func runResearchGet(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.GetBySlug(context.Background(), args[0])
	if err != nil {
		return err
	}
	return writeJSON(rec)
}

// --- search subcommand ---

var researchSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Keyword search over titles, abstracts, tags, and authors",
	RunE:  runResearchSearch,
}

func runResearchSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Search(context.Background(), query)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	printRecordTable(records)
	fmt.Printf("\n%d results\n", len(records))
	return nil
}

// --- facets subcommand ---

var researchFacetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show distinct years, authors, keywords, and domains",
	RunE:  runResearchFacets,
}

func runResearchFacets(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	years, err := st.DistinctYears(ctx)
	if err != nil {
		return err
	}
	authors, err := st.DistinctAuthors(ctx)
	if err != nil {
		return err
	}
	keywords, err := st.DistinctTags(ctx)
	if err != nil {
		return err
	}
	domains, err := st.DistinctCategories(ctx)
	if err != nil {
		return err
	}

	return writeJSON(map[string][]string{
		"years":    years,
		"authors":  authors,
		"keywords": keywords,
		"domains":  domains,
	})
}

// --- create subcommand ---

var researchCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a catalog record from flags",
	Long: `Create inserts a new catalog record. Title, authors, and abstract are
required; the slug is derived from the title and collisions are rejected.`,
	RunE: runResearchCreate,
}

func runResearchCreate(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	authors, _ := cmd.Flags().GetStringSlice("author")
	abstract, _ := cmd.Flags().GetString("abstract")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	category, _ := cmd.Flags().GetString("category")
	year, _ := cmd.Flags().GetInt("year")
	doi, _ := cmd.Flags().GetString("doi")
	description, _ := cmd.Flags().GetString("description")
	sourceName, _ := cmd.Flags().GetString("source-name")
	sourceURL, _ := cmd.Flags().GetString("source-url")

	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.CreateResearch(context.Background(), store.NewResearch{
		Title:       title,
		Authors:     authors,
		Abstract:    abstract,
		Tags:        tags,
		Category:    category,
		Year:        year,
		DOI:         doi,
		Description: description,
		SourceName:  sourceName,
		SourceURL:   sourceURL,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", rec.Slug)
	return nil
}

// --- export subcommand ---

var researchExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (records and categories) to
<data-dir>/index/export.yaml or export.json.`,
	RunE: runResearchExport,
}

func runResearchExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	switch format {
	case "yaml", "":
		if err := st.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.yaml\n", dataDir(cmd))
	case "json":
		if err := st.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.json\n", dataDir(cmd))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecordTable(records []*types.ResearchRecord) {
	fmt.Fprintf(os.Stdout, "%-35s  %-45s  %-12s  %-6s\n", "Slug", "Title", "Category", "Year")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))

	for _, rec := range records {
		title := rec.Title
		if len(title) > 45 {
			title = title[:42] + "..."
		}
		year := ""
		if rec.Year != 0 {
			year = fmt.Sprintf("%d", rec.Year)
		}
		fmt.Fprintf(os.Stdout, "%-35s  %-45s  %-12s  %-6s\n", rec.Slug, title, rec.CategoryName, year)
	}
}

func init() {
	researchListCmd.Flags().Bool("json", false, "output records as JSON")
	researchSearchCmd.Flags().Bool("json", false, "output results as JSON")

	researchCreateCmd.Flags().String("title", "", "record title (required)")
	researchCreateCmd.Flags().StringSlice("author", nil, "author name (repeatable, required)")
	researchCreateCmd.Flags().String("abstract", "", "record abstract (required)")
	researchCreateCmd.Flags().StringSlice("tag", nil, "tag (repeatable, at most five kept)")
	researchCreateCmd.Flags().String("category", "", "category name (default: Biology)")
	researchCreateCmd.Flags().Int("year", 0, "publication year (default: current year)")
	researchCreateCmd.Flags().String("doi", "", "DOI")
	researchCreateCmd.Flags().String("description", "", "description (default: abstract)")
	researchCreateCmd.Flags().String("source-name", "", "source name")
	researchCreateCmd.Flags().String("source-url", "", "source URL")

	researchExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	researchCmd.AddCommand(researchListCmd)
	researchCmd.AddCommand(researchGetCmd)
	researchCmd.AddCommand(researchSearchCmd)
	researchCmd.AddCommand(researchFacetsCmd)
	researchCmd.AddCommand(researchCreateCmd)
	researchCmd.AddCommand(researchExportCmd)

	rootCmd.AddCommand(researchCmd)
}
