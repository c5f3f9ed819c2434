package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/depparse/annotate/spacy"
	"github.com/revelaction/depparse/model/bist"
	"github.com/revelaction/depparse/pipeline"
	"github.com/revelaction/depparse/render"
	"github.com/revelaction/depparse/repl"
	sent "github.com/revelaction/depparse/sentence"
	"github.com/revelaction/depparse/stat"
	"github.com/revelaction/depparse/storage"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	cmd, args, err := parseMainArgs(os.Args[1:], ui)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := runCommand(cmd, args, ui); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "depparse: %v\n", err)
}

func runCommand(cmd string, args []string, ui UI) error {
	switch cmd {
	case "help":
		if len(args) > 0 {
			return runCommand(args[0], []string{"--help"}, ui)
		}
		fs := flag.NewFlagSet("depparse", flag.ContinueOnError)
		fs.SetOutput(ui.Out)
		setupUsage(fs)
		fs.Usage()
		return nil

	case "parse":
		opts, first, err := parseParseArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return parseCommand(opts, first, ui)

	case "repl":
		opts, err := parseReplArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return replCommand(opts, ui)

	case "doc":
		opts, first, err := parseDocArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return docCommand(opts, first, ui)

	case "sentence":
		opts, docId, sentId, err := parseSentenceArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return sentenceCommand(opts, docId, sentId, ui)

	case "search":
		opts, lemmas, err := parseSearchArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return searchCommand(opts, lemmas, ui)

	case "stat":
		opts, docId, err := parseStatArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return statCommand(opts, docId, ui)

	case "model":
		opts, err := parseModelArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return modelCommand(opts, ui)

	case "migrate":
		opts, err := parseMigrateArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return migrateCommand(opts, ui)

	case "version":
		return versionCommand(ui)

	case "bash":
		if err := parseBashArgs(args, ui); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return bashCommand(ui)

	case "complete":
		completeArgs, err := parseCompleteArgs(args, ui)
		if err != nil {
			return err
		}
		return completeCommand(completeArgs, ui)
	}

	return fmt.Errorf("unknown command: %s", cmd)
}

// buildParser wires the annotator and the model into a pipeline parser.
// Without an explicit model path the pretrained artifact is used,
// downloading it into the cache dir on first use.
func buildParser(opts ParseOptions, ui UI) (*pipeline.Parser, error) {
	annotator := spacy.New(opts.SpacyModel)
	annotator.Python = opts.Python

	modelPath := opts.ModelPath
	if modelPath == "" {
		fmt.Fprintln(ui.Err, "Using pre-trained BIST model.")

		dir := opts.CacheDir
		if dir == "" {
			var err error
			dir, err = bist.DefaultCacheDir()
			if err != nil {
				return nil, err
			}
		}

		var err error
		modelPath, err = bist.EnsurePretrained(dir, ui.Err)
		if err != nil {
			return nil, err
		}
	}

	predictor, err := bist.New(modelPath)
	if err != nil {
		return nil, err
	}
	predictor.Python = opts.Python

	return pipeline.New(pipeline.Config{
		Verbose:   opts.Verbose,
		UI:        ui.Err,
		Annotator: annotator,
		Predictor: predictor,
	})
}

// parseCommand parses raw text or the contents of a file and renders or
// stores the result.
func parseCommand(opts ParseOptions, first string, ui UI) error {
	text := first
	title := opts.Title

	if info, err := os.Stat(first); err == nil && !info.IsDir() {
		data, err := os.ReadFile(first)
		if err != nil {
			return err
		}
		text = string(data)
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(first), filepath.Ext(first))
		}
	}

	parser, err := buildParser(opts, ui)
	if err != nil {
		return err
	}

	doc, err := parser.Parse(text, !opts.NoTokText, !opts.NoDocText)
	if err != nil {
		return err
	}

	if opts.Save != "" {
		if title == "" {
			title = "doc"
		}
		doc.Title = title
		doc.Labels = opts.Labels

		pool := &Pool{}
		defer pool.Close()

		repo, err := NewDocRepository(pool, opts.Save, true)
		if err != nil {
			return err
		}
		if err := repo.Write(doc); err != nil {
			return err
		}
		fmt.Fprintf(ui.Err, "Saved doc %q to %s\n", title, opts.Save)
	}

	return newDocRenderer(opts.Format, opts.NoColor, ui).Render(doc)
}

func replCommand(opts ParseOptions, ui UI) error {
	parser, err := buildParser(opts, ui)
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.HasColor = !opts.NoColor
	r.Format = opts.Format

	hdl := repl.NewHandler(parser, r)
	hdl.ShowTok = !opts.NoTokText
	hdl.ShowDoc = !opts.NoDocText
	return hdl.Run()
}

func docCommand(opts DocOptions, first string, ui UI) error {
	pool := &Pool{}
	defer pool.Close()

	repo, err := NewDocRepository(pool, opts.DocPath, false)
	if err != nil {
		return err
	}

	if first == "" {
		docs, err := repo.List()
		if err != nil {
			return err
		}

		for _, doc := range docs {
			fmt.Fprintf(ui.Out, "📖 %d %s %s\n", doc.Id, doc.Title, strings.Join(doc.Labels, ","))
		}

		return nil
	}

	id, err := parseDocId(first)
	if err != nil {
		return err
	}

	doc, err := repo.Read(id)
	if err != nil {
		return err
	}

	if opts.Start > 0 || opts.Count >= 0 {
		doc.Sentences = sliceSentences(doc.Sentences, opts.Start, opts.Count)
	}

	return newDocRenderer(opts.Format, opts.NoColor, ui).Render(doc)
}

func sliceSentences(sents [][]sent.Token, start, count int) [][]sent.Token {
	if start < 0 {
		start = 0
	}
	if start >= len(sents) {
		return nil
	}
	sents = sents[start:]
	if count >= 0 && count < len(sents) {
		sents = sents[:count]
	}
	return sents
}

func sentenceCommand(opts DocOptions, docId, sentId int, ui UI) error {
	pool := &Pool{}
	defer pool.Close()

	repo, err := NewDocRepository(pool, opts.DocPath, false)
	if err != nil {
		return err
	}

	doc, err := repo.Read(docId)
	if err != nil {
		return err
	}

	if sentId < 0 || sentId >= len(doc.Sentences) {
		return fmt.Errorf("sentence id out of range: %d (doc has %d sentences)", sentId, len(doc.Sentences))
	}

	s := doc.Sentences[sentId]

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !opts.NoColor

	prefix := fmt.Sprintf("✍  %d-%d ", docId, sentId)
	r.Sentence(s, prefix)
	fmt.Fprintln(ui.Out)
	r.Table(s)

	return nil
}

func searchCommand(opts SearchOptions, lemmas []string, ui UI) error {
	pool := &Pool{}
	defer pool.Close()

	repo, err := NewDocRepository(pool, opts.DocPath, false)
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !opts.NoColor

	shown := 0
	cursor := storage.Cursor(0)
	for shown < opts.Limit {
		batch := 0
		next, err := repo.FindCandidates(lemmas, cursor, 500, func(res storage.SentenceResult) error {
			batch++
			if shown >= opts.Limit {
				return nil
			}
			shown++
			prefix := fmt.Sprintf("[%20s %5d:%2d] ✍  ", res.DocTitle, res.DocID, res.SentID)
			r.Sentence(res.Tokens, prefix)
			return nil
		})
		if err != nil {
			return err
		}
		if batch == 0 || next == cursor {
			break
		}
		cursor = next
	}

	if shown == 0 {
		fmt.Fprintf(ui.Err, "no sentences with lemmas %s\n", strings.Join(lemmas, ", "))
	}

	return nil
}

func statCommand(opts DocOptions, docId *int, ui UI) error {
	pool := &Pool{}
	defer pool.Close()

	repo, err := NewDocRepository(pool, opts.DocPath, false)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()

	if docId != nil {
		doc, err := repo.Read(*docId)
		if err != nil {
			return err
		}
		hdl.Aggregate(doc)
	} else {
		docs, err := repo.List()
		if err != nil {
			return err
		}
		for _, meta := range docs {
			doc, err := repo.Read(meta.Id)
			if err != nil {
				return err
			}
			hdl.Aggregate(doc)
		}
	}

	stats := hdl.Get()
	fmt.Fprintf(ui.Out, "Num sentences %d, num tokens %d, tokens per sentence %d\n",
		stats.NumSentences, stats.NumTokens, stats.TokensPerSentenceMean)

	for _, rel := range []string{"conj", "conj_and", "conj_or"} {
		if n := stats.RelDis[rel]; n > 0 {
			fmt.Fprintf(ui.Out, "%-10s %d\n", rel, n)
		}
	}

	return nil
}

func modelCommand(opts ModelOptions, ui UI) error {
	dir := opts.CacheDir
	if dir == "" {
		var err error
		dir, err = bist.DefaultCacheDir()
		if err != nil {
			return err
		}
	}

	path, err := bist.EnsurePretrained(dir, ui.Err)
	if err != nil {
		return err
	}

	fmt.Fprintln(ui.Out, path)
	return nil
}

func newDocRenderer(format string, noColor bool, ui UI) render.DocRenderer {
	if format == "json" {
		return render.NewJSONRenderer(ui.Out)
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !noColor
	r.Format = format
	return r
}
