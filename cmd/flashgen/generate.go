package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"flash-gen/internal/config"
	"flash-gen/internal/models"
	"flash-gen/internal/services"
	"flash-gen/internal/source"
)

// inputFlags are the generation flags shared by generate and study.
type inputFlags struct {
	text     string
	numCards int
	language string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "text to generate from when no file is given")
	cmd.Flags().IntVarP(&f.numCards, "cards", "n", 0, "number of flashcards, 1-20 (default: $DEFAULT_CARDS)")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", `output language, or "auto" to keep the input language (default: $DEFAULT_LANGUAGE)`)
}

func (f *inputFlags) withDefaults(cfg *config.Config) inputFlags {
	out := *f
	if out.numCards == 0 {
		out.numCards = cfg.DefaultCards
	}
	if out.language == "" {
		out.language = cfg.DefaultLanguage
	}
	return out
}

// loadUpload opens the optional file argument.
func loadUpload(args []string) (*source.Upload, error) {
	if len(args) == 0 {
		return nil, nil
	}
	return source.Open(args[0])
}

func generateCmd() *cobra.Command {
	var flags inputFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate flashcards from a PDF, a text file or --text and print them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := loadUpload(args)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), appOptions{provider: true, quiet: asJSON})
			if err != nil {
				return err
			}
			defer a.close()

			in := flags.withDefaults(a.cfg)
			progress := func(step, message string) {
				if !asJSON {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", step, message)
				}
			}

			flashcards, err := a.generator.GenerateFromSource(cmd.Context(), upload, in.text, in.numCards, in.language, progress)
			if errors.Is(err, services.ErrNoSourceText) {
				fmt.Fprintln(cmd.ErrOrStderr(), "⚠️", services.WarningNoText)
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), flashcards)
			}
			if len(flashcards) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "⚠️", services.WarningUnstructured)
				return nil
			}
			printCards(cmd.OutOrStdout(), flashcards)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the flashcards as a JSON array")
	return cmd
}

func printJSON(w io.Writer, flashcards []models.Flashcard) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(flashcards)
}

func printCards(w io.Writer, flashcards []models.Flashcard) {
	for i, card := range flashcards {
		fmt.Fprintf(w, "Q%d: %s\n", i+1, card.Question)
		fmt.Fprintf(w, "A%d: %s\n", i+1, card.Answer)
		fmt.Fprintln(w, "---")
	}
}
