package recorded

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ohler55/ojg/oj"

	"github.com/raceview/raceplay/log"
	"github.com/raceview/raceplay/pkg/provider"
)

// Provider reads a recorded session from a directory:
//
//	<dir>/session.json            {"name": ..., "colors": {...}}
//	<dir>/entities/<id>.json      one provider.EntityData per entity
//
// Entities are read in lexical filename order so a fetch is deterministic.
type Provider struct {
	dir string
	l   *log.Logger
}

type sessionInfo struct {
	Name   string            `json:"name"`
	Colors map[string]string `json:"colors"`
}

func NewProvider(dir string) *Provider {
	return &Provider{dir: dir, l: log.Default().Named("recorded")}
}

func (p *Provider) Fetch(ctx context.Context) (*provider.SessionData, error) {
	info, err := p.readSessionInfo()
	if err != nil {
		return nil, err
	}
	entityDir := filepath.Join(p.dir, "entities")
	names, err := os.ReadDir(entityDir)
	if err != nil {
		return nil, fmt.Errorf("reading entity dir: %w", err)
	}
	files := make([]string, 0, len(names))
	for _, e := range names {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	ret := &provider.SessionData{
		Name:     info.Name,
		Colors:   info.Colors,
		Entities: make([]provider.EntityData, 0, len(files)),
	}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var entity provider.EntityData
		if err := p.readJSON(filepath.Join(entityDir, name), &entity); err != nil {
			return nil, err
		}
		p.l.Debug("read entity file",
			log.String("file", name),
			log.String("entity", entity.EntityID),
			log.Int("samples", len(entity.Samples)))
		ret.Entities = append(ret.Entities, entity)
	}
	return ret, nil
}

func (p *Provider) readSessionInfo() (*sessionInfo, error) {
	info := &sessionInfo{}
	fname := filepath.Join(p.dir, "session.json")
	if _, err := os.Stat(fname); os.IsNotExist(err) {
		// session.json is optional, the directory name serves as session name
		info.Name = filepath.Base(p.dir)
		return info, nil
	}
	if err := p.readJSON(fname, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (p *Provider) readJSON(fname string, target any) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("reading %s: %w", fname, err)
	}
	if err := oj.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding %s: %w", fname, err)
	}
	return nil
}
