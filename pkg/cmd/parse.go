package cmd

import (
	"fmt"

	"github.com/kvpairs"
	"github.com/kvpairs/pkg/render"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// reads and parses a single file. Errors carry the message shown to the user.
func (a *app) parseFile(p kvpairs.Parser, fpath string) (string, kvpairs.Pairs, error) {
	content, err := afero.ReadFile(a.fs, fpath)
	if err != nil {
		return "", nil, errors.Wrapf(err, "Error reading file '%s'", fpath)
	}

	text := string(content)
	pairs, err := p.ParseString(fpath, text)
	if err != nil {
		return text, nil, errors.Wrap(err, "Error parsing data")
	}
	return text, pairs, nil
}

func (a *app) parser() kvpairs.Parser {
	s := a.conf.Settings
	return kvpairs.NewCachingParser(kvpairs.NewParser(), s.CacheSize, s.CacheTTL.Duration)
}

func parseCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse file...",
		Short: "Parse documents and print their contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				output = a.conf.Settings.Output
			}
			enc, err := render.Get(output)
			if err != nil {
				return err
			}

			p := a.parser()
			for _, fpath := range args {
				fmt.Fprintf(a.stdout, "Reading file: %s\n", fpath)
				_, pairs, err := a.parseFile(p, fpath)
				if err != nil {
					return err
				}
				log.Debug().Str("file", fpath).Int("keys", len(pairs)).Msg("parsed document")

				fmt.Fprint(a.stdout, "\nSuccessfully parsed data:\n")
				if err := enc(a.stdout, pairs); err != nil {
					return errors.Wrap(err, "failed to render data")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", fmt.Sprintf("Output encoding %v", render.Names()))
	return cmd
}

func checkCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check file...",
		Short: "Validate documents without printing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.parser()

			failed := 0
			for _, fpath := range args {
				if _, _, err := a.parseFile(p, fpath); err != nil {
					failed++
					fmt.Fprintf(a.stderr, "%s: %v\n", fpath, err)
					continue
				}
				fmt.Fprintf(a.stdout, "%s: ok\n", fpath)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(args))
			}
			return nil
		},
	}
}

func formatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "format file",
		Short: "Print a document in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pairs, err := a.parseFile(kvpairs.NewParser(), args[0])
			if err != nil {
				return err
			}
			return kvpairs.Format(a.stdout, pairs)
		},
	}
}
