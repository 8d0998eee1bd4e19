// -----------------------------------------------------------------------
// StudyForge - Turn technical documents into structured courses
// -----------------------------------------------------------------------

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/common"
	"github.com/studyforge/studyforge/internal/interfaces"
	"github.com/studyforge/studyforge/internal/models"
	"github.com/studyforge/studyforge/internal/services/course"
	"github.com/studyforge/studyforge/internal/services/export"
	"github.com/studyforge/studyforge/internal/services/extract"
	"github.com/studyforge/studyforge/internal/services/llm"
	"github.com/studyforge/studyforge/internal/services/maintenance"
	"github.com/studyforge/studyforge/internal/services/preprocess"
	"github.com/studyforge/studyforge/internal/storage/badger"
)

var (
	configPath  = flag.String("config", "", "Configuration file path (TOML)")
	inputURL    = flag.String("url", "", "Process a web page instead of a file")
	inputText   = flag.String("text", "", "Process a plain text file without format detection")
	textTitle   = flag.String("title", "", "Title for -text input")
	userID      = flag.String("user", "local", "User ID to associate with generated courses")
	pdfOut      = flag.String("pdf", "", "Also export the course as a PDF to this path")
	listCourses = flag.Bool("list", false, "List cached courses for the user and exit")
	prune       = flag.Bool("prune", false, "Prune cached courses past retention and exit")
	maintain    = flag.Bool("maintain", false, "Run the retention scheduler in the foreground")
	showVersion = flag.Bool("version", false, "Print version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("StudyForge version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if *configPath == "" {
		if _, err := os.Stat("studyforge.toml"); err == nil {
			*configPath = "studyforge.toml"
		}
	}

	config, err := common.LoadConfig(*configPath)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	if err := run(config, logger); err != nil {
		logger.Fatal().Err(err).Msg("StudyForge failed")
		os.Exit(1)
	}
}

func run(config *common.Config, logger arbor.ILogger) error {
	storage, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	switch {
	case *prune:
		maintenance.NewScheduler(storage.CourseStorage(), config.Maintenance.RetentionDays, logger).PruneOnce()
		return nil
	case *maintain:
		return runMaintainer(storage, config, logger)
	case *listCourses:
		return printCourseList(storage.CourseStorage())
	}

	generator := llm.NewService(config, storage.KeyValueStorage(), logger)
	defer generator.Close()

	pipeline := course.NewService(
		extract.NewService(logger),
		preprocess.NewService(logger),
		generator,
		storage.CourseStorage(),
		logger,
		config.Pipeline.ModuleConcurrency,
	)

	result, err := processInput(context.Background(), pipeline, config)
	if err != nil {
		return err
	}

	if *pdfOut != "" {
		data, err := export.NewService(logger).ExportPDF(result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pdfOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		logger.Info().Str("path", *pdfOut).Msg("Course PDF written")
	}

	return printJSON(result)
}

// processInput dispatches on the input flags: -url, -text, or a positional
// document path.
func processInput(ctx context.Context, pipeline interfaces.CoursePipeline, config *common.Config) (*models.Course, error) {
	switch {
	case *inputURL != "":
		return pipeline.ProcessURL(ctx, *inputURL, *userID)

	case *inputText != "":
		data, err := os.ReadFile(*inputText)
		if err != nil {
			return nil, fmt.Errorf("failed to read text input: %w", err)
		}
		title := *textTitle
		if title == "" {
			title = filepath.Base(*inputText)
		}
		return pipeline.ProcessText(ctx, string(data), title, *userID)

	default:
		if flag.NArg() != 1 {
			return nil, fmt.Errorf("expected a document path, -url, or -text (see -help)")
		}
		// The pipeline deletes its input when done, so the original file is
		// first staged into a per-request upload directory.
		staged, err := stageUpload(flag.Arg(0), config.Pipeline.UploadDir)
		if err != nil {
			return nil, err
		}
		return pipeline.ProcessDocument(ctx, staged, *userID)
	}
}

// stageUpload copies the document into its own directory under uploadDir and
// returns the staged path.
func stageUpload(path, uploadDir string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	dir, err := os.MkdirTemp(uploadDir, "upload-")
	if err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer src.Close()

	staged := filepath.Join(dir, filepath.Base(path))
	dst, err := os.Create(staged)
	if err != nil {
		return "", fmt.Errorf("failed to stage document: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to stage document: %w", err)
	}
	return staged, nil
}

// runMaintainer starts the retention scheduler and blocks until interrupted
func runMaintainer(storage interfaces.StorageManager, config *common.Config, logger arbor.ILogger) error {
	scheduler := maintenance.NewScheduler(storage.CourseStorage(), config.Maintenance.RetentionDays, logger)
	if err := scheduler.Start(config.Maintenance.Schedule); err != nil {
		return fmt.Errorf("failed to start maintenance scheduler: %w", err)
	}
	defer scheduler.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	return nil
}

func printCourseList(storage interfaces.CourseStorage) error {
	records, err := storage.ListRecords(*userID, 0)
	if err != nil {
		return err
	}
	for _, record := range records {
		title := record.OriginalFilename
		if record.Course != nil {
			title = record.Course.Title
		}
		fmt.Printf("%s  %s  %s\n", record.CreatedAt.Format("2006-01-02 15:04"), record.DocumentHash[:12], title)
	}
	return nil
}

func printJSON(course *models.Course) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(course)
}
