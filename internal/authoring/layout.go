// Package authoring is the authoring-time tooling around a database: it loads
// HCL layouts describing records and default archetypes, fetches remote
// layouts and builds databases from them.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gameframework/pkg/domain"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoLayouts is returned when the given paths hold no .hcl files.
var ErrNoLayouts = errors.New("no layout files found")

const layoutExt = ".hcl"

// Layout is the authored content of one database.
type Layout struct {
	Database string
	Records  []RecordSpec
	Defaults []DefaultsSpec
	// Files lists the files that contributed blocks, in load order.
	Files []string
}

// RecordSpec is one authored record.
type RecordSpec struct {
	Kind string
	Name string
	Data domain.RecordData
}

// DefaultsSpec is the default archetype declaration for one slot.
type DefaultsSpec struct {
	Slot        string
	OnlyIfEmpty bool
	Archetypes  []domain.Archetype
}

// Declaration returns a copy of the block as a domain declaration.
func (d DefaultsSpec) Declaration() domain.DefaultArchetypes {
	return domain.DefaultArchetypes{Values: d.Archetypes, OnlyOnEmptyLists: d.OnlyIfEmpty}.Clone()
}

type hclLayoutFile struct {
	Databases []*hclDatabase `hcl:"database,block"`
}

type hclDatabase struct {
	Name     string         `hcl:"name,label"`
	Records  []*hclRecord   `hcl:"record,block"`
	Defaults []*hclDefaults `hcl:"defaults,block"`
}

type hclRecord struct {
	Kind string   `hcl:"kind,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclDefaults struct {
	Slot        string          `hcl:"slot,label"`
	OnlyIfEmpty *bool           `hcl:"only_if_empty,optional"`
	Archetypes  []*hclArchetype `hcl:"archetype,block"`
}

type hclArchetype struct {
	Name       string    `hcl:"name,label"`
	Attributes cty.Value `hcl:"attributes,optional"`
}

// LoadLayouts parses every .hcl file under paths. Files are read in path
// order; blocks for the same database are merged in that order.
func LoadLayouts(ctx context.Context, paths ...string) ([]Layout, error) {
	logger := loggerFrom(ctx)
	var files []string
	for _, p := range paths {
		found, err := findLayoutFiles(p)
		if err != nil {
			return nil, fmt.Errorf("find layouts in %s: %w", p, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLayouts, strings.Join(paths, ", "))
	}

	parser := hclparse.NewParser()
	var layouts []Layout
	index := make(map[string]int)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dbs, err := parseLayoutFile(parser, file)
		if err != nil {
			return nil, err
		}
		for _, db := range dbs {
			i, ok := index[db.Database]
			if !ok {
				index[db.Database] = len(layouts)
				layouts = append(layouts, db)
				continue
			}
			merged := &layouts[i]
			merged.Records = append(merged.Records, db.Records...)
			merged.Defaults = append(merged.Defaults, db.Defaults...)
			merged.Files = append(merged.Files, file)
		}
		logger.Debug("layout file loaded", "file", file, "databases", len(dbs))
	}
	return layouts, nil
}

// Find returns the layout named database.
func Find(layouts []Layout, database string) (Layout, bool) {
	for _, l := range layouts {
		if l.Database == database {
			return l, true
		}
	}
	return Layout{}, false
}

func parseLayoutFile(parser *hclparse.Parser, file string) ([]Layout, error) {
	f, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse layout %s: %w", file, diags)
	}
	var parsed hclLayoutFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decode layout %s: %w", file, diags)
	}
	out := make([]Layout, 0, len(parsed.Databases))
	for _, db := range parsed.Databases {
		layout := Layout{Database: db.Name, Files: []string{file}}
		for _, rec := range db.Records {
			rs, err := decodeRecord(rec)
			if err != nil {
				return nil, fmt.Errorf("%s: database %q: %w", file, db.Name, err)
			}
			layout.Records = append(layout.Records, rs)
		}
		for _, def := range db.Defaults {
			ds, err := decodeDefaults(def)
			if err != nil {
				return nil, fmt.Errorf("%s: database %q: %w", file, db.Name, err)
			}
			layout.Defaults = append(layout.Defaults, ds)
		}
		out = append(out, layout)
	}
	return out, nil
}

func decodeRecord(rec *hclRecord) (RecordSpec, error) {
	attrs, diags := rec.Body.JustAttributes()
	if diags.HasErrors() {
		return RecordSpec{}, fmt.Errorf("record %q: %w", rec.Name, diags)
	}
	data := domain.NewRecordData(rec.Kind, 0)
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return RecordSpec{}, fmt.Errorf("record %q attribute %s: %w", rec.Name, name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return RecordSpec{}, fmt.Errorf("record %q attribute %s: %w", rec.Name, name, err)
		}
		data.Set(name, native)
	}
	return RecordSpec{Kind: rec.Kind, Name: rec.Name, Data: data}, nil
}

func decodeDefaults(def *hclDefaults) (DefaultsSpec, error) {
	out := DefaultsSpec{Slot: def.Slot}
	if def.OnlyIfEmpty != nil {
		out.OnlyIfEmpty = *def.OnlyIfEmpty
	}
	for _, a := range def.Archetypes {
		arch := domain.Archetype{Name: a.Name}
		if !a.Attributes.IsNull() {
			native, err := ctyToNative(a.Attributes)
			if err != nil {
				return DefaultsSpec{}, fmt.Errorf("archetype %q: %w", a.Name, err)
			}
			attrs, ok := native.(map[string]any)
			if !ok {
				return DefaultsSpec{}, fmt.Errorf("archetype %q: attributes must be an object", a.Name)
			}
			arch.Attributes = attrs
		}
		out.Archetypes = append(out.Archetypes, arch)
	}
	return out, nil
}

// findLayoutFiles returns path itself for a file, or the sorted .hcl files
// below a directory. Symlinked roots are resolved first.
func findLayoutFiles(path string) ([]string, error) {
	root, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), layoutExt) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
