package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/jnicall/config"
)

var genLog = commonlog.GetLogger("jnicall.generate")

// Generator expands every marked file under a set of paths.
type Generator struct {
	Config   *config.Config
	Registry *config.PackageRegistry

	// DryRun renders without writing. Check additionally reports
	// generated files that are missing or out of date.
	DryRun bool
	Check  bool
}

type Output struct {
	Source      string
	Target      string
	Data        []byte
	Stale       bool
	Diagnostics []Diagnostic
}

// Run scans paths (files or directories, walked recursively), configures
// the package registry from every file's directives and then expands all
// files in parallel. Diagnostics are reported per Output; the returned
// error covers I/O and Go syntax failures only.
func (g *Generator) Run(paths []string) ([]*Output, error) {
	files, err := g.collect(paths)
	if err != nil {
		return nil, err
	}

	reg := g.Registry
	if reg == nil {
		reg = &config.PackageRegistry{}
	}
	if g.Config.Package != "" {
		if err := reg.Set(g.Config.Package); err != nil {
			return nil, err
		}
	}

	var scanned []*File
	outs := map[*File]*Output{}
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		f, err := Scan(name, src, g.Config)
		if err != nil {
			return nil, err
		}
		if !f.Tagged {
			continue
		}
		scanned = append(scanned, f)
		outs[f] = &Output{
			Source:      name,
			Target:      Target(name, g.Config.Suffix),
			Diagnostics: Configure(f, reg),
		}
	}
	genLog.Infof("scanned %d files, %d to expand", len(files), len(scanned))

	var eg errgroup.Group
	for _, f := range scanned {
		f := f
		out := outs[f]
		eg.Go(func() error {
			res := Expand(f, Options{Config: g.Config, Registry: reg})
			out.Diagnostics = append(out.Diagnostics, res.Diagnostics...)
			if len(out.Diagnostics) > 0 {
				return nil
			}
			out.Data = res.Source
			return g.emit(out, len(res.Expansions))
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := make([]*Output, 0, len(scanned))
	for _, f := range scanned {
		result = append(result, outs[f])
	}
	return result, nil
}

func (g *Generator) emit(out *Output, expansions int) error {
	existing, err := os.ReadFile(out.Target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	out.Stale = err != nil || !bytes.Equal(existing, out.Data)
	if g.DryRun || g.Check || !out.Stale {
		return nil
	}
	if err := os.WriteFile(out.Target, out.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out.Target, err)
	}
	genLog.Infof("wrote %s (%d expansions)", out.Target, expansions)
	return nil
}

func (g *Generator) collect(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if p != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, g.Config.Suffix) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
