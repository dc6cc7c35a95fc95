package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"flash-gen/internal/session"
	"flash-gen/internal/source"
	"flash-gen/internal/tui"
)

func studyCmd() *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "study [file]",
		Short: "Generate flashcards and study them in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := loadUpload(args)
			if err != nil {
				return err
			}
			text, err := source.Resolve(upload, flags.text)
			if err != nil {
				return fmt.Errorf("resolve source text: %w", err)
			}

			a, err := newApp(cmd.Context(), appOptions{provider: true, quiet: true})
			if err != nil {
				return err
			}
			defer a.close()

			in := flags.withDefaults(a.cfg)
			return tui.Run(session.New(uuid.NewString()), a.generator, tui.Request{
				Text:     text,
				NumCards: in.numCards,
				Language: in.language,
			})
		},
	}
	flags.register(cmd)
	return cmd
}
