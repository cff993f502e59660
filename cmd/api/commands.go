package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yigit/coursehub/internal/bootstrap"
	"github.com/yigit/coursehub/internal/seed"
	"github.com/yigit/coursehub/internal/server"
)

var (
	configPath    string
	seedCourses   int
	seedStudents  int
	seedPerCourse int
)

// NewRootCmd builds the CLI. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "courses-api",
		Short:         "Courses REST API",
		Long:          "HTTP API for managing courses and their enrolled students, backed by PostgreSQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", bootstrap.DefaultConfigPath, "Path to the YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE:  serveCmd,
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  migrateCmd,
	}

	seedCommand := &cobra.Command{
		Use:   "seed",
		Short: "Create random courses and students",
		RunE:  seedCmd,
	}
	seedCommand.Flags().IntVar(&seedCourses, "courses", 10, "Number of courses to create")
	seedCommand.Flags().IntVar(&seedStudents, "students", 0, "Number of students to create and enroll")
	seedCommand.Flags().IntVar(&seedPerCourse, "per-course", 0, "Maximum students per course (0 uses courses.max_students)")

	rootCmd.AddCommand(serve, migrate, seedCommand)
	return rootCmd
}

func serveCmd(_ *cobra.Command, _ []string) error {
	srv, err := server.NewServer(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	return srv.Run()
}

func migrateCmd(cmd *cobra.Command, _ []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	pool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	if err := bootstrap.RunMigrations(ctx, cfg, pool, lgr); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Migrations applied")
	return nil
}

func seedCmd(cmd *cobra.Command, _ []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	deps, err := bootstrap.BuildDependencies(cfg, pool, nil, lgr)
	if err != nil {
		return err
	}

	perCourse := seedPerCourse
	if perCourse == 0 {
		perCourse = cfg.Courses.MaxStudents
	}

	res, err := seed.Run(cmd.Context(), deps.Factory, seed.Options{
		Courses:      seedCourses,
		Students:     seedStudents,
		MaxPerCourse: perCourse,
	}, lgr)
	if err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Seeding failed: %v\n", err)
		return err
	}

	printSeedResult(cmd.OutOrStdout(), res)
	return nil
}

func printSeedResult(w io.Writer, res *seed.Result) {
	header := color.New(color.FgCyan, color.Bold)
	id := color.New(color.FgYellow)

	header.Fprintf(w, "Created %d students\n", len(res.Students))
	for _, s := range res.Students {
		fmt.Fprintf(w, "  %s %s\n", id.Sprintf("#%d", s.ID), s.Name)
	}

	header.Fprintf(w, "Created %d courses\n", len(res.Courses))
	for _, c := range res.Courses {
		fmt.Fprintf(w, "  %s %s students=%v\n", id.Sprintf("#%d", c.ID), c.Name, c.Students)
	}
}
