package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/mvicenzino/kidzart/cmd/devtools/internal/toolserver"
	"github.com/mvicenzino/kidzart/pkg/database"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/spf13/cobra"
)

var (
	Version string = "development"

	root     string
	logLevel string
	dbDriver string
	dsn      string

	parentName     string
	parentEmail    string
	parentPasscode string

	catalogAgeGroup  string
	catalogMedium    string
	catalogTheme     string
	catalogHighlight bool
)

var rootCmd = &cobra.Command{
	Use:   "devtools",
	Short: "Developer tools for Kidzart",
	Long: `Developer tools for working on Kidzart.

The serve command runs a Model Context Protocol server on stdio so an
editor or assistant can check the build, read sources and look up the
art taxonomy. Logs go to stderr.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tool server over stdio",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

var parentCmd = &cobra.Command{
	Use:   "parent",
	Short: "Manage parent accounts",
}

var parentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a parent account that signs in with a passcode",
	Long: `Creates a parent account in the website database.

Example:
  devtools parent add --name "Jordan" --email jordan@example.com --passcode sunflower`,
	Args: cobra.NoArgs,
	RunE: addParent,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the shared artwork catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List artwork published to the shared catalog",
	Long: `Lists artwork that was published to the shared catalog, newest first.
Filters take taxonomy ids; "all" or an empty value matches everything.

Example:
  devtools catalog list --medium crayon --highlights`,
	Args: cobra.NoArgs,
	RunE: listCatalog,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "info", "Log level: debug, info, warn or error")

	serveCmd.Flags().StringVar(&root, "root", ".", "Repository root the tools operate on")

	parentCmd.PersistentFlags().StringVar(&dbDriver, "dbdriver", database.DriverSqlite, "Database driver: sqlite or postgres")
	parentCmd.PersistentFlags().StringVar(&dsn, "dsn", "file:./data/kidzart.db", "Data source name")

	parentAddCmd.Flags().StringVar(&parentName, "name", "", "Display name")
	parentAddCmd.Flags().StringVar(&parentEmail, "email", "", "Email address for order and portfolio mail")
	parentAddCmd.Flags().StringVar(&parentPasscode, "passcode", "", "Sign-in passcode")
	_ = parentAddCmd.MarkFlagRequired("name")
	_ = parentAddCmd.MarkFlagRequired("passcode")

	catalogCmd.PersistentFlags().StringVar(&dbDriver, "dbdriver", database.DriverSqlite, "Database driver: sqlite or postgres")
	catalogCmd.PersistentFlags().StringVar(&dsn, "dsn", "file:./data/kidzart.db", "Data source name")

	catalogListCmd.Flags().StringVar(&catalogAgeGroup, "age-group", "all", "Age group id")
	catalogListCmd.Flags().StringVar(&catalogMedium, "medium", "all", "Medium id")
	catalogListCmd.Flags().StringVar(&catalogTheme, "theme", "all", "Theme id")
	catalogListCmd.Flags().BoolVar(&catalogHighlight, "highlights", false, "Only highlighted artwork")

	parentCmd.AddCommand(parentAddCmd)
	catalogCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(serveCmd, parentCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(logLevel))

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("app", "kidzart-devtools"))
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := toolserver.NewServer(toolserver.ServerConfig{
		Logger:  slog.Default(),
		Root:    root,
		Version: Version,
	})

	slog.Info("tool server running on stdio", "root", root, "version", Version)

	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && err != context.Canceled {
		return fmt.Errorf("tool server stopped: %w", err)
	}

	return nil
}

func addParent(cmd *cobra.Command, args []string) error {
	db, err := database.Connect(dbDriver, dsn)

	if err != nil {
		return err
	}

	if err = database.Migrate(db, dbDriver); err != nil {
		return err
	}

	parentService := services.NewParentService(services.ParentServiceConfig{DB: db})
	parent, err := parentService.Create(parentName, parentEmail, parentPasscode)

	if err != nil {
		return fmt.Errorf("error creating parent: %w", err)
	}

	slog.Info("parent created", "parentID", parent.ID, "name", parent.Name)
	return nil
}

func listCatalog(cmd *cobra.Command, args []string) error {
	db, err := database.Connect(dbDriver, dsn)

	if err != nil {
		return err
	}

	if err = database.Migrate(db, dbDriver); err != nil {
		return err
	}

	filters := services.CatalogFilters{
		AgeGroup: catalogAgeGroup,
		Medium:   catalogMedium,
		Theme:    catalogTheme,
	}

	if catalogHighlight {
		filters.IsHighlight = &catalogHighlight
	}

	catalog := services.NewRemoteCatalogService(services.RemoteCatalogServiceConfig{DB: db})
	artworks, err := catalog.ListArtworks(filters)

	if err != nil {
		return fmt.Errorf("error listing catalog: %w", err)
	}

	printCatalog(cmd.OutOrStdout(), artworks)
	return nil
}

func printCatalog(w io.Writer, artworks []models.Artwork) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTIST\tAGE GROUP\tMEDIUM\tTHEME\tLIKES")

	for _, a := range artworks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n", a.ID, a.Title, a.Artist, a.AgeGroup, a.Medium, a.Theme, a.Likes)
	}

	_ = tw.Flush()
}
