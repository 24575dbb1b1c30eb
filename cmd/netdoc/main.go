// Command netdoc generates per-type documentation records from a compiled .NET
// library and its XML documentation file.
package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"netdoc/internal"
	"netdoc/internal/catalog"
	"netdoc/internal/comments"
	"netdoc/internal/config"
	"netdoc/internal/docid"
	netdocErrors "netdoc/internal/errors"
	"netdoc/internal/generation"
	"netdoc/internal/metadata"
	"netdoc/internal/model"
	"netdoc/internal/signature"
)

type app struct {
	stderr     io.Writer
	configFile string
	verbose    bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stderr io.Writer) int {
	application := &app{stderr: stderr}
	command := application.rootCommand()
	command.SetArgs(args)
	command.SetErr(stderr)

	err := command.Execute()
	adapter := netdocErrors.NewCLIErrorAdapter(application.verbose, newLogger(stderr, application.verbose))
	return adapter.Handle(err, stderr)
}

func (application *app) rootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "netdoc [flags] <library.dll>",
		Short: "Generate documentation records from a .NET library and its XML comments",
		Long: `netdoc reads the public types of a compiled .NET library together with the
XML documentation file next to it, and writes one JSON or YAML document per
type with rendered signatures, comments and a namespace menu.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          application.run,
	}
	application.registerFlags(command.Flags())

	return command
}

func (application *app) registerFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&application.configFile, "config", "c", "", "Config file (default ./netdoc.yaml)")
	flags.StringP(config.KeyOutput, "o", "./output/", "The directory where the documents will be placed")
	flags.StringP(config.KeyFormat, "f", "json", "Output format (json or yaml)")
	flags.String(config.KeyTitle, "", "Documentation title (default: library file name)")
	flags.Bool(config.KeyClean, false, "Remove previously generated documents from the output directory")
	flags.BoolVarP(&application.verbose, config.KeyVerbose, "v", false, "Enable debug logging")
	flags.String(config.KeyExternalDocs, signature.DefaultExternalBase, "Base address of the framework reference documentation")
	flags.String(config.KeyLocalDocs, signature.DefaultLocalBase, "Base address of the generated type pages")
	flags.String(config.KeyPackage, "", "Download the library from this NuGet package instead of reading a local file")
	flags.String(config.KeyPackageVersion, "", "NuGet package version (default: latest stable)")
	flags.String(config.KeyPackageCache, "./packages/", "Directory where downloaded packages are extracted")
}

func (application *app) run(cmd *cobra.Command, args []string) error {
	v := config.New(application.configFile)
	internal.PanicOnError(v.BindPFlags(cmd.Flags()))

	library := ""
	if len(args) > 0 {
		library = args[0]
	}

	cfg, err := config.Load(v, library)
	if err != nil {
		return err
	}
	application.verbose = cfg.Verbose
	logger := newLogger(application.stderr, cfg.Verbose)

	if cfg.Library == "" {
		downloader := metadata.NewDownloader(logger)
		cfg.Library, err = downloader.DownloadPackage(cmd.Context(), cfg.Package, cfg.PackageVersion, cfg.PackageCache)
		if err != nil {
			return netdocErrors.DownloadFailed(cfg.Package, err)
		}
	}

	documentation := config.DocumentationPath(cfg.Library)
	if err := requireFile("library", cfg.Library); err != nil {
		return err
	}
	if err := requireFile("XML documentation", documentation); err != nil {
		return err
	}

	store, err := comments.Load(documentation)
	if err != nil {
		return netdocErrors.UnreadableInput("XML documentation", documentation, err)
	}
	reader, err := metadata.NewReader(cfg.Library, logger)
	if err != nil {
		return netdocErrors.MetadataUnreadable(cfg.Library, err)
	}

	title := cfg.Title
	if title == "" {
		title = config.DefaultTitle(cfg.Library)
	}
	linker := signature.NewLinker(cfg.ExternalDocs, cfg.LocalDocs)
	builder := model.NewBuilder(
		docid.NewResolver(store, logger),
		comments.NewRenderer(linker, logger),
		linker,
		title,
	)

	generator := generation.NewGenerator(cfg.Output, generation.Format(cfg.Format), logger)
	if cfg.Clean {
		if err := generator.ClearDirectoryIfNotEmpty(); err != nil {
			return err
		}
	}

	docs := catalog.Build(reader, builder, logger)
	if err := docs.Emit(generator); err != nil {
		return err
	}

	logger.Info("Generated documentation", "types", docs.Len(), "output", cfg.Output)
	return nil
}

// requireFile fails with a diagnostic when a mandatory input is missing.
func requireFile(what, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return netdocErrors.MissingInput(what, path)
	}
	if err != nil {
		return netdocErrors.UnreadableInput(what, path, err)
	}
	return nil
}

// newLogger writes text records to stderr. Only warnings and errors are shown
// unless verbose, so a successful run prints nothing.
func newLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
