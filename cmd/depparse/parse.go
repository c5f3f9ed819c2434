package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/revelaction/depparse/annotate/spacy"
	"github.com/revelaction/depparse/render"
)

// Option structs for subcommands that have flags
type ParseOptions struct {
	Verbose    bool
	SpacyModel string
	ModelPath  string
	CacheDir   string
	Python     string
	NoTokText  bool
	NoDocText  bool
	NoColor    bool
	Format     string
	Save       string
	Title      string
	Labels     []string
}

type DocOptions struct {
	DocPath string
	Start   int
	Count   int
	Format  string
	NoColor bool
}

type SearchOptions struct {
	DocPath string
	Limit   int
	NoColor bool
}

type ModelOptions struct {
	CacheDir string
}

type MigrateOptions struct {
	From string
	To   string
}

// stringSliceFlag implements flag.Value for multi-value strings
type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ", ")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// enumFlag implements flag.Value for restricted strings
type enumFlag struct {
	allowed []string
	value   *string
}

func (e *enumFlag) String() string {
	if e.value == nil {
		return ""
	}
	return *e.value
}

func (e *enumFlag) Set(value string) error {
	for _, a := range e.allowed {
		if a == value {
			*e.value = value
			return nil
		}
	}
	return fmt.Errorf("allowed values are %s", strings.Join(e.allowed, ", "))
}

func parseMainArgs(args []string, ui UI) (string, []string, error) {
	fs := flag.NewFlagSet("depparse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	setupUsage(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return "", nil, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return "", nil, err
	}

	if fs.NArg() == 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return "", nil, errors.New("no command provided")
	}

	cmd := fs.Arg(0)
	cmdArgs := fs.Args()[1:]
	return cmd, cmdArgs, nil
}

// pipelineFlags registers the flags shared by parse and repl.
func pipelineFlags(fs *flag.FlagSet, opts *ParseOptions) {
	fs.BoolVar(&opts.Verbose, "verbose", false, "Print annotator tokens and CoNLL rows while parsing")
	fs.BoolVar(&opts.Verbose, "v", false, "alias for -verbose")

	fs.StringVar(&opts.SpacyModel, "spacy-model", spacy.DefaultModel, "spaCy model name or path")
	fs.StringVar(&opts.ModelPath, "model", os.Getenv("DEPPARSE_MODEL"), "Path to a BIST .model file (default: cached pretrained artifact)")
	fs.StringVar(&opts.CacheDir, "cache-dir", os.Getenv("DEPPARSE_CACHE_DIR"), "Cache directory for the pretrained artifact")
	fs.StringVar(&opts.Python, "python", "", "Python interpreter for the annotator and model helpers")

	fs.BoolVar(&opts.NoTokText, "no-text", false, "Exclude token text from the output")
	fs.BoolVar(&opts.NoDocText, "no-doc-text", false, "Exclude the document text from the output")

	fs.BoolVar(&opts.NoColor, "no-color", false, "Show sentences without formatting (color)")
	fs.BoolVar(&opts.NoColor, "c", false, "alias for -no-color")
}

func parseParseArgs(args []string, ui UI) (ParseOptions, string, error) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ParseOptions
	pipelineFlags(fs, &opts)

	opts.Format = "json"
	formatFlag := &enumFlag{allowed: render.SupportedFormats(), value: &opts.Format}
	fs.Var(formatFlag, "format", "Output format: aligned token rows (table), sentence text (text) or document JSON (json)")
	fs.Var(formatFlag, "f", "alias for -format")

	fs.StringVar(&opts.Save, "save", "", "Store the parsed doc in this docs directory or SQLite file")
	fs.StringVar(&opts.Title, "title", "", "Title of the stored doc (default: input file name)")

	labels := (*stringSliceFlag)(&opts.Labels)
	fs.Var(labels, "label", "Label for the stored doc (repeatable)")
	fs.Var(labels, "l", "alias for -label")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s parse [options] <text|file_path>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Dependency-parse raw text or the contents of a file.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, "", err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, "", err
	}

	if fs.NArg() != 1 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, "", errors.New("parse command needs exactly one argument: <text|file_path>")
	}

	return opts, fs.Arg(0), nil
}

func parseReplArgs(args []string, ui UI) (ParseOptions, error) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ParseOptions
	pipelineFlags(fs, &opts)

	opts.Format = render.Defaultformat
	formatFlag := &enumFlag{allowed: render.SupportedFormats(), value: &opts.Format}
	fs.Var(formatFlag, "format", "Initial output format, cycle with Ctrl+F")
	fs.Var(formatFlag, "f", "alias for -format")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s repl [options]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Enter interactive parse mode.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, err
	}

	return opts, nil
}

func parseDocArgs(args []string, ui UI) (DocOptions, string, error) {
	fs := flag.NewFlagSet("doc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts DocOptions
	fs.IntVar(&opts.Start, "start", 0, "Index of the first sentence to show")
	fs.IntVar(&opts.Count, "n", -1, "Number of sentences to show (-1 for all)")
	fs.StringVar(&opts.DocPath, "doc-path", os.Getenv("DEPPARSE_DOC_PATH"), "Path to docs directory or SQLite file")
	fs.StringVar(&opts.DocPath, "d", os.Getenv("DEPPARSE_DOC_PATH"), "alias for -doc-path")

	fs.BoolVar(&opts.NoColor, "no-color", false, "Show sentences without formatting (color)")
	fs.BoolVar(&opts.NoColor, "c", false, "alias for -no-color")

	opts.Format = "text"
	formatFlag := &enumFlag{allowed: render.SupportedFormats(), value: &opts.Format}
	fs.Var(formatFlag, "format", "Output format: aligned token rows (table), sentence text (text) or document JSON (json)")
	fs.Var(formatFlag, "f", "alias for -format")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s doc [options] [docId]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  List stored docs or show the contents of one doc.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, "", err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, "", err
	}

	if fs.NArg() > 1 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, "", errors.New("doc command accepts at most one argument")
	}

	if opts.DocPath == "" {
		return opts, "", errors.New("Doc path must be specified via -d or DEPPARSE_DOC_PATH")
	}

	arg := fs.Arg(0)
	if arg != "" {
		digitRegex := regexp.MustCompile(`^\d+$`)
		if !digitRegex.MatchString(arg) {
			return opts, "", fmt.Errorf("not a valid doc ID: %s", arg)
		}
	}

	return opts, arg, nil
}

func parseSentenceArgs(args []string, ui UI) (DocOptions, int, int, error) {
	fs := flag.NewFlagSet("sentence", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts DocOptions
	fs.StringVar(&opts.DocPath, "doc-path", os.Getenv("DEPPARSE_DOC_PATH"), "Path to docs directory or SQLite file")
	fs.StringVar(&opts.DocPath, "d", os.Getenv("DEPPARSE_DOC_PATH"), "alias for -doc-path")

	fs.BoolVar(&opts.NoColor, "no-color", false, "Show sentences without formatting (color)")
	fs.BoolVar(&opts.NoColor, "c", false, "alias for -no-color")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s sentence [options] <docId> <sentenceId>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Show the dependency details of a specific sentence.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, 0, 0, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, 0, 0, err
	}

	if fs.NArg() != 2 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, 0, 0, errors.New("sentence command needs exactly two arguments: <docId> <sentenceId>")
	}

	if opts.DocPath == "" {
		return opts, 0, 0, errors.New("Doc path must be specified via -d or DEPPARSE_DOC_PATH")
	}

	docId, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return opts, 0, 0, fmt.Errorf("invalid docId: %v", err)
	}

	sentId, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return opts, 0, 0, fmt.Errorf("invalid sentenceId: %v", err)
	}

	return opts, docId, sentId, nil
}

func parseSearchArgs(args []string, ui UI) (SearchOptions, []string, error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts SearchOptions
	fs.StringVar(&opts.DocPath, "doc-path", os.Getenv("DEPPARSE_DOC_PATH"), "Path to docs directory or SQLite file")
	fs.StringVar(&opts.DocPath, "d", os.Getenv("DEPPARSE_DOC_PATH"), "alias for -doc-path")

	fs.IntVar(&opts.Limit, "nmatches", 100, "Maximum number of matched sentences to show")
	fs.IntVar(&opts.Limit, "n", 100, "alias for -nmatches")

	fs.BoolVar(&opts.NoColor, "no-color", false, "Show matched sentences without formatting (color)")
	fs.BoolVar(&opts.NoColor, "c", false, "alias for -no-color")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s search [options] <lemma> [lemma...]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Show stored sentences that contain all given lemmas.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, nil, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, nil, err
	}

	if fs.NArg() == 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, nil, errors.New("search command needs at least one lemma argument")
	}

	if opts.DocPath == "" {
		return opts, nil, errors.New("Doc path must be specified via -d or DEPPARSE_DOC_PATH")
	}

	return opts, fs.Args(), nil
}

func parseStatArgs(args []string, ui UI) (DocOptions, *int, error) {
	fs := flag.NewFlagSet("stat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts DocOptions
	fs.StringVar(&opts.DocPath, "doc-path", os.Getenv("DEPPARSE_DOC_PATH"), "Path to docs directory or SQLite file")
	fs.StringVar(&opts.DocPath, "d", os.Getenv("DEPPARSE_DOC_PATH"), "alias for -doc-path")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s stat [options] [docId]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Show statistics for one doc or the whole repository.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, nil, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, nil, err
	}

	if opts.DocPath == "" {
		return opts, nil, errors.New("Doc path must be specified via -d or DEPPARSE_DOC_PATH")
	}

	var docId *int
	if fs.NArg() > 0 {
		v, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return opts, nil, fmt.Errorf("invalid docId: %v", err)
		}
		docId = &v
	}

	return opts, docId, nil
}

func parseModelArgs(args []string, ui UI) (ModelOptions, error) {
	fs := flag.NewFlagSet("model", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ModelOptions
	fs.StringVar(&opts.CacheDir, "cache-dir", os.Getenv("DEPPARSE_CACHE_DIR"), "Cache directory for the pretrained artifact")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s model [options]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Download the pretrained BIST model if absent and print its path.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, err
	}

	return opts, nil
}

func parseMigrateArgs(args []string, ui UI) (MigrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts MigrateOptions
	fs.StringVar(&opts.From, "from", "", "Source docs directory or SQLite file")
	fs.StringVar(&opts.To, "to", "", "Target docs directory or SQLite file")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s migrate -from <path> -to <path>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Copy all stored docs between repositories (directory or SQLite).\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, err
	}

	if opts.From == "" || opts.To == "" {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, errors.New("migrate command needs both -from and -to")
	}

	return opts, nil
}

func parseBashArgs(args []string, ui UI) error {
	fs := flag.NewFlagSet("bash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s bash\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Output bash completion script.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return err
	}
	return nil
}

func parseCompleteArgs(args []string, ui UI) ([]string, error) {
	fs := flag.NewFlagSet("complete", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return fs.Args(), nil
}

func parseDocId(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid docId: %v", err)
	}
	return id, nil
}

func setupUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: %s command [command options] [arguments...]\n", os.Args[0])
		_, _ = fmt.Fprintf(output, "\nDescription:\n")
		_, _ = fmt.Fprintf(output, "  Dependency parser pipeline (spaCy annotator + BIST model)\n")
		_, _ = fmt.Fprintf(output, "\nCommands:\n")
		_, _ = fmt.Fprintf(output, "  parse     Dependency-parse raw text or a file.\n")
		_, _ = fmt.Fprintf(output, "  repl      Enter interactive parse mode.\n")
		_, _ = fmt.Fprintf(output, "  doc       List stored docs or show one doc.\n")
		_, _ = fmt.Fprintf(output, "  sentence  Show a specific sentence details.\n")
		_, _ = fmt.Fprintf(output, "  search    Find stored sentences by lemmas.\n")
		_, _ = fmt.Fprintf(output, "  stat      Show statistics for stored docs.\n")
		_, _ = fmt.Fprintf(output, "  model     Download the pretrained BIST model.\n")
		_, _ = fmt.Fprintf(output, "  migrate   Copy stored docs between repositories.\n")
		_, _ = fmt.Fprintf(output, "  bash      Output bash completion script.\n")
		_, _ = fmt.Fprintf(output, "  version   Show version information.\n")
		_, _ = fmt.Fprintf(output, "  help      Show this help or the help of a command.\n")
	}
}
