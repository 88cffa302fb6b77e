package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/localstore"
)

var watch bool

// importCmd loads markdown files into the SQLite store.
var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import markdown posts into the local SQLite store",
	Long: `Upserts every *.md file in <dir> into the SQLite database used by
--store sqlite. Each file may start with YAML front matter (title, author,
date, views, tags, slug); the slug defaults to the file name.

With --watch, files are re-imported as they change until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&watch, "watch", false, "Keep running and re-import files as they change")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	dir := args[0]
	s, err := localstore.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	imported, err := s.ImportDir(ctx, dir)
	fmt.Fprintf(out, "Imported %d post(s) into %s\n", len(imported), s.Path())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		if !watch {
			return errors.New("some files could not be imported")
		}
	}
	if !watch {
		return nil
	}
	return watchDir(ctx, s, dir, imported, out)
}

// watchDir re-imports markdown files under dir as they are written and
// deletes posts whose file is removed. imported seeds the file to slug
// mapping so files loaded before the watch map back to their posts.
func watchDir(ctx context.Context, s *localstore.Store, dir string, imported []localstore.Imported, out io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	fmt.Fprintf(out, "Watching %s (ctrl+c to stop)\n", dir)

	files := newFileSlugs(imported)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			files.apply(ctx, s, ev, out)
		}
	}
}

// fileSlugs remembers which slug each markdown file was stored under, so
// removals delete the right post even when front matter renamed it.
type fileSlugs map[string]string

func newFileSlugs(imported []localstore.Imported) fileSlugs {
	f := fileSlugs{}
	for _, im := range imported {
		f[filepath.Clean(im.File)] = im.Slug
	}
	return f
}

func (f fileSlugs) apply(ctx context.Context, s *localstore.Store, ev fsnotify.Event, out io.Writer) {
	if !localstore.IsMarkdown(ev.Name) {
		return
	}
	name := filepath.Clean(ev.Name)
	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		slug, err := s.ImportFile(ctx, name)
		if err != nil {
			fmt.Fprintf(out, "skip %s: %v\n", filepath.Base(name), err)
			return
		}
		if old, ok := f[name]; ok && old != slug {
			if err := s.Delete(ctx, old); err != nil {
				logger.Warn("delete renamed post", zap.String("slug", old), zap.Error(err))
			}
		}
		f[name] = slug
		fmt.Fprintf(out, "updated %s\n", slug)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		slug, ok := f[name]
		if !ok {
			slug = slugFromFile(name)
		}
		if err := s.Delete(ctx, slug); err != nil {
			logger.Warn("delete post", zap.String("slug", slug), zap.Error(err))
			return
		}
		delete(f, name)
		fmt.Fprintf(out, "removed %s\n", slug)
	}
}

func slugFromFile(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
