package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/music-library/internal/audit"
	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/config"
	"github.com/mrlokans/music-library/internal/database"
	"github.com/mrlokans/music-library/internal/database/music"
)

// ArtistCreator creates an artist together with its nested albums and songs.
type ArtistCreator interface {
	CreateArtist(ctx context.Context, in catalog.ArtistInput) (catalog.ArtistDetail, error)
}

// CatalogImportCommand loads a JSON list of artists into the catalog,
// running every entry through the same pipeline as POST /artists.
type CatalogImportCommand struct {
	FilePath      string
	DatabasePath  string
	ArchiveDir    string
	Transactional bool
	Verbose       bool
	DryRun        bool

	// Database settings other than the path come from the environment.
	Database config.Database
	Catalog  config.Catalog

	Out io.Writer
}

// ImportReport is archived after every non-dry run.
type ImportReport struct {
	File      string        `json:"file"`
	StartedAt time.Time     `json:"started_at"`
	Total     int           `json:"total"`
	Imported  []ImportedRow `json:"imported"`
	Failed    []FailedRow   `json:"failed"`
}

type ImportedRow struct {
	ArtistID uint   `json:"artist_id"`
	Name     string `json:"name"`
	Albums   int    `json:"albums"`
	Songs    int    `json:"songs"`
}

type FailedRow struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

func NewCatalogImportCommand(cfg *config.Config) *CatalogImportCommand {
	return &CatalogImportCommand{
		Database: cfg.Database,
		Catalog:  cfg.Catalog,
		Out:      os.Stdout,
	}
}

func (cmd *CatalogImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("catalog-import", flag.ExitOnError)

	defaultDB := cmd.Database.Path
	if defaultDB == "" {
		defaultDB = config.DefaultDatabasePath
	}

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON file with a list of artists (required)")
	fs.StringVar(&cmd.DatabasePath, "db", defaultDB, "Path to the SQLite catalog database (ignored for mysql)")
	fs.StringVar(&cmd.ArchiveDir, "archive", "", "Directory to save the import report to")
	fs.BoolVar(&cmd.Transactional, "transactional", cmd.Catalog.TransactionalWrites, "Roll back an artist entirely when any of its children fails")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s catalog-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import artists with their albums and songs from a JSON file.\n\n")
		fmt.Fprintf(os.Stderr, "The file holds the same objects POST /artists accepts:\n")
		fmt.Fprintf(os.Stderr, "  [{\"name\": \"Radiohead\", \"albums\": [{\"name\": \"OK Computer\"}],\n")
		fmt.Fprintf(os.Stderr, "    \"songs\": [{\"name\": \"Airbag\", \"album\": \"OK Computer\"}]}]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

// ReadArtists decodes the import file. Both a bare list and an object
// with an "artists" list are accepted.
func ReadArtists(r io.Reader) ([]catalog.ArtistInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var list []catalog.ArtistInput
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Artists []catalog.ArtistInput `json:"artists"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if wrapped.Artists == nil {
		return nil, fmt.Errorf("failed to parse import file: expected a list of artists")
	}
	return wrapped.Artists, nil
}

func (cmd *CatalogImportCommand) Run() error {
	fmt.Fprintln(cmd.Out, "Catalog Import")
	fmt.Fprintln(cmd.Out, "==============")

	if cmd.DryRun {
		fmt.Fprintln(cmd.Out, "DRY RUN MODE - No changes will be made")
		fmt.Fprintln(cmd.Out)
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	artists, err := ReadArtists(file)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "Found %d artists in %s\n", len(artists), cmd.FilePath)

	if cmd.Verbose || cmd.DryRun {
		for i, in := range artists {
			fmt.Fprintf(cmd.Out, "%d. %s (%d albums, %d songs)\n", i+1, displayName(in.Name), len(in.Albums), len(in.Songs))
		}
	}

	if cmd.DryRun {
		fmt.Fprintln(cmd.Out, "\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	dbCfg := cmd.Database
	if dbCfg.Driver == "" || dbCfg.Driver == config.DatabaseDriverSQLite {
		absDBPath, err := filepath.Abs(cmd.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for database: %w", err)
		}
		dbCfg.Path = absDBPath
		fmt.Fprintf(cmd.Out, "\nSaving to database: %s\n", dbCfg.Path)
	}

	db, err := database.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	service := catalog.NewService(music.NewRepository(db.DB), catalog.Options{
		MaxConcurrency: cmd.Catalog.MaxConcurrency,
		Transactional:  cmd.Transactional,
	})

	report := cmd.Import(context.Background(), service, artists)
	cmd.printSummary(report)

	if cmd.ArchiveDir != "" {
		if _, err := audit.NewArchive(cmd.ArchiveDir).SaveJSON("catalog-import", report); err != nil {
			fmt.Fprintf(cmd.Out, "Warning: failed to archive import report: %v\n", err)
		}
	}

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d artists failed to import", len(report.Failed), report.Total)
	}
	fmt.Fprintln(cmd.Out, "\nImport complete!")
	return nil
}

// Import creates the artists one at a time. A failed artist is recorded
// and the import moves on.
func (cmd *CatalogImportCommand) Import(ctx context.Context, creator ArtistCreator, artists []catalog.ArtistInput) ImportReport {
	report := ImportReport{
		File:      cmd.FilePath,
		StartedAt: time.Now(),
		Total:     len(artists),
		Imported:  []ImportedRow{},
		Failed:    []FailedRow{},
	}

	for i, in := range artists {
		detail, err := creator.CreateArtist(ctx, in)
		if err != nil {
			report.Failed = append(report.Failed, FailedRow{Index: i, Name: displayName(in.Name), Error: err.Error()})
			if cmd.Verbose {
				fmt.Fprintf(cmd.Out, "  [ERROR] %s: %v\n", displayName(in.Name), err)
			}
			continue
		}

		report.Imported = append(report.Imported, ImportedRow{
			ArtistID: detail.ID,
			Name:     detail.Name,
			Albums:   len(detail.Albums),
			Songs:    len(detail.Songs),
		})
		if cmd.Verbose {
			fmt.Fprintf(cmd.Out, "  [OK] %s (id %d)\n", detail.Name, detail.ID)
		}
	}

	return report
}

func (cmd *CatalogImportCommand) printSummary(report ImportReport) {
	var albums, songs int
	for _, row := range report.Imported {
		albums += row.Albums
		songs += row.Songs
	}

	fmt.Fprintln(cmd.Out, "\n=== Import Summary ===")
	fmt.Fprintf(cmd.Out, "Artists saved: %d/%d\n", len(report.Imported), report.Total)
	fmt.Fprintf(cmd.Out, "Albums linked: %d\n", albums)
	fmt.Fprintf(cmd.Out, "Songs linked: %d\n", songs)

	if len(report.Failed) > 0 {
		fmt.Fprintf(cmd.Out, "\n%d errors occurred:\n", len(report.Failed))
		for _, row := range report.Failed {
			fmt.Fprintf(cmd.Out, "  [ERROR] #%d %s: %s\n", row.Index+1, row.Name, row.Error)
		}
	}
}

func displayName(name *string) string {
	if name == nil || *name == "" {
		return "(no name)"
	}
	return *name
}
