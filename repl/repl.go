// Package repl provides an interactive parse prompt: every entered line is
// run through the pipeline and rendered.
package repl

import (
	"fmt"
	"strings"

	"github.com/revelaction/depparse/pipeline"
	"github.com/revelaction/depparse/render"

	"github.com/c-bata/go-prompt"
)

var suggestions = []prompt.Suggest{
	{Text: "quit", Description: "Exit the prompt"},
}

type Handler struct {
	Parser   *pipeline.Parser
	Renderer *render.Renderer

	// ShowTok and ShowDoc are passed to every parse.
	ShowTok bool
	ShowDoc bool
}

func NewHandler(p *pipeline.Parser, r *render.Renderer) *Handler {
	return &Handler{
		Parser:   p,
		Renderer: r,
		ShowTok:  true,
		ShowDoc:  true,
	}
}

func (h *Handler) Run() error {

	fmt.Println("🔑 Ctrl+F: next Format, type quit to exit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      📝 ", completer,
			prompt.OptionTitle("depparse"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(4),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Println("Format set to: " + h.Renderer.Format)
				}}),
		)

		if in == "quit" {
			return nil
		}

		if strings.TrimSpace(in) == "" {
			continue
		}

		history = append(history, in)

		doc, err := h.Parser.Parse(in, h.ShowTok, h.ShowDoc)
		if err != nil {
			fmt.Printf("❌ %s\n", err)
			continue
		}

		if err := h.Renderer.Render(doc); err != nil {
			fmt.Printf("❌ %s\n", err)
		}
	}
}

func completer(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if word == "" {
		return nil
	}
	return prompt.FilterHasPrefix(suggestions, word, true)
}
