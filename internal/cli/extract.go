package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/cdoc/internal/config"
	"github.com/example/cdoc/internal/extractor"
	"github.com/example/cdoc/internal/logging"
	"github.com/example/cdoc/internal/render"
)

func newExtractCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract doc-blocks and print them",
		Long: `Extract doc-blocks from files, directories, doublestar patterns
or standard input ("-", the default) and print them as text, JSON or YAML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, configPath)
			if err != nil {
				return err
			}
			files, err := extract(cmd.Context(), cmd, cfg, log, args)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), files, cfg, defaultFileSystem)
		},
	}

	addSourceFlags(cmd.Flags(), &configPath)
	def := config.Default()
	cmd.Flags().StringP("format", "f", def.Format, "Output format: text, json or yaml")
	cmd.Flags().StringP("output", "o", def.Output, "Path to output file or '-' for stdout")

	return cmd
}

// addSourceFlags registers the flags shared by the commands that read sources.
func addSourceFlags(fs *pflag.FlagSet, configPath *string) {
	def := config.Default()
	fs.StringVar(configPath, "config", "", "Path to config file (default .cdoc.yml in the working directory)")
	fs.StringSlice("include", def.Include, "Doublestar patterns selecting files inside directories")
	fs.StringSlice("exclude", nil, "Doublestar patterns of files and directories to skip")
	fs.IntP("workers", "j", def.Workers, "Files parsed at once (0 = one per CPU)")
	fs.String("log-level", def.LogLevel, "Log level: trace, debug, info, warn, error or disabled (off)")
}

// setup loads the configuration and builds the logger for cmd.
func setup(cmd *cobra.Command, configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func extract(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log zerolog.Logger, paths []string) ([]extractor.File, error) {
	if len(paths) == 0 {
		paths = []string{extractor.StdinPath}
	}
	e := extractor.New(
		extractor.WithLogger(log),
		extractor.WithWorkers(cfg.Workers),
		extractor.WithInclude(cfg.Include...),
		extractor.WithExclude(cfg.Exclude...),
		extractor.WithStdin(cmd.InOrStdin()),
	)
	files, err := e.Extract(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	records := 0
	for _, f := range files {
		records += len(f.Records)
	}
	log.Info().Int("files", len(files)).Int("records", records).Msg("extraction complete")
	return files, nil
}

// fileSystem allows dependency injection for testing.
type fileSystem interface {
	Stat(name string) (os.FileInfo, error)
	Create(name string) (io.WriteCloser, error)
}

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (osFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Clean(name))
}

var defaultFileSystem fileSystem = osFileSystem{}

func writeOutput(stdout io.Writer, files []extractor.File, cfg *config.Config, fs fileSystem) error {
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Output == "-" {
		return render.Write(stdout, format, files)
	}

	outDir := filepath.Dir(cfg.Output)
	if fi, err := fs.Stat(outDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory %s does not exist, please create it first", outDir)
		}
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outDir)
	}

	f, err := fs.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := render.Write(f, format, files); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
