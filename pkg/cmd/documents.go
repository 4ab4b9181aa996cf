package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kvpairs"
	"github.com/kvpairs/pkg/render"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type operatorCmds struct {
	app  *app
	repo *kvpairs.DocumentRepo
	// name of the command
	name string
	// Operations
	add    func(*operatorCmds, []string) error
	remove func(*operatorCmds, []string) error
	list   func(*operatorCmds, []string) error
	show   func(*operatorCmds, []string) error
}

func (o *operatorCmds) makeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add file...",
		Short: "Parse documents and store them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.add(o, args)
		},
	}
}

func (o *operatorCmds) makeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove name...",
		Short: "Remove stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.remove(o, args)
		},
	}
}

func (o *operatorCmds) makeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [name]...",
		Short: "List stored documents, optionally filtered by glob",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.list(o, args)
		},
	}
}

func (o *operatorCmds) makeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show name...",
		Short: "Print stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.show(o, args)
		},
	}
}

func (o *operatorCmds) open() error {
	if err := kvpairs.InitConfiguration(o.app.conf); err != nil {
		return err
	}
	o.repo = kvpairs.NewDocumentRepo(o.app.conf.Database())
	return nil
}

func (o *operatorCmds) close() {
	if o.repo == nil {
		return
	}
	if err := o.repo.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close document store")
	}
}

func (o *operatorCmds) makeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   o.name,
		Short: "Manage the document store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra only runs the closest pre-run
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return o.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			o.close()
		},
	}

	cmd.AddCommand(
		o.makeAddCommand(),
		o.makeListCommand(),
		o.makeShowCommand(),
		o.makeRemoveCommand(),
	)
	return cmd
}

// name under which a file is stored
func documentName(fpath string) string {
	name := filepath.Base(fpath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func documentCommands(a *app) []*cobra.Command {
	o := &operatorCmds{app: a, name: "documents"}

	o.add = func(oc *operatorCmds, args []string) error {
		p := oc.app.parser()
		for _, fpath := range args {
			text, pairs, err := oc.app.parseFile(p, fpath)
			if err != nil {
				return err
			}

			name := documentName(fpath)
			doc, err := oc.repo.Save(name, fpath, text, pairs)
			if err != nil {
				return errors.Wrapf(err, "failed to store %s", fpath)
			}
			fmt.Fprintf(oc.app.stdout, "%s stored as %q (%s)\n", fpath, doc.Name, doc.Serial)
		}
		return nil
	}

	o.list = func(oc *operatorCmds, args []string) error {
		docs, err := oc.repo.List(args...)
		if err != nil {
			return err
		}

		fmt.Fprintf(oc.app.stdout, "%-20s | %-5s | %-50s\n", "Name", "Keys", "Source")
		for _, d := range docs {
			fmt.Fprintf(oc.app.stdout, "%-20s | %-5d | %-50s\n", d.Name, len(d.Entries), d.Source)
		}
		return nil
	}

	o.show = func(oc *operatorCmds, args []string) error {
		enc, err := render.Get(oc.app.conf.Settings.Output)
		if err != nil {
			return err
		}

		for _, name := range args {
			doc, err := oc.repo.Find(name)
			if err != nil {
				return err
			}
			pairs, err := doc.Pairs()
			if err != nil {
				return err
			}
			fmt.Fprintf(oc.app.stdout, "# %s (%s)\n", doc.Name, doc.Source)
			if err := enc(oc.app.stdout, pairs); err != nil {
				return errors.Wrap(err, "failed to render data")
			}
		}
		return nil
	}

	o.remove = func(oc *operatorCmds, args []string) error {
		n, err := oc.repo.Remove(args...)
		if err != nil {
			return err
		}
		fmt.Fprintf(oc.app.stdout, "removed %d document(s)\n", n)
		return nil
	}

	return []*cobra.Command{o.makeCommand()}
}
