// Package registry provides a file-backed SpecProvider that loads a bundle
// of spec sections from a YAML file and hot-reloads it when the file
// changes on disk. It is not a reimplementation of any live spec content
// store — it serves whatever bundle the operator points it at, typically a
// small curated export for offline or air-gapped use.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"

	"github.com/webspec-lens/webspec-lens/internal/provider"
	"github.com/webspec-lens/webspec-lens/internal/scanner"
)

// bundle is the on-disk YAML shape.
type bundle struct {
	Specs []struct {
		Spec    string `yaml:"spec"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"specs"`
	Sections []struct {
		Spec    string `yaml:"spec"`
		Anchor  string `yaml:"anchor"`
		Title   string `yaml:"title"`
		Type    string `yaml:"type"`
		Content string `yaml:"content"`
	} `yaml:"sections"`
}

// Provider serves spec sections from a YAML bundle file, reloading it on
// write.
type Provider struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	urls     []scanner.SpecRef
	sections map[string]provider.Section

	watcher *fsnotify.Watcher
	closed  chan struct{}
}

// Open loads path and starts watching it for changes. Call Close to stop
// watching.
func Open(path string, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{path: path, logger: logger, closed: make(chan struct{})}

	if err := p.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("registry: creating watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("registry: watching %s: %w", path, err)
	}
	p.watcher = watcher

	go p.watch()
	return p, nil
}

func (p *Provider) watch() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := p.reload(); err != nil {
				p.logger.Error("reloading spec registry", "path", p.path, "error", err)
			} else {
				p.logger.Info("reloaded spec registry", "path", p.path)
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("watching spec registry", "path", p.path, "error", err)
		case <-p.closed:
			return
		}
	}
}

func (p *Provider) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("registry: reading %s: %w", p.path, err)
	}

	var b bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("registry: parsing %s: %w", p.path, err)
	}

	urls := make([]scanner.SpecRef, 0, len(b.Specs))
	for _, s := range b.Specs {
		urls = append(urls, scanner.SpecRef{Spec: s.Spec, BaseURL: s.BaseURL})
	}

	sections := make(map[string]provider.Section, len(b.Sections))
	for _, s := range b.Sections {
		sections[s.Spec+"#"+s.Anchor] = provider.Section{
			Title:   s.Title,
			Type:    s.Type,
			Content: s.Content,
			Spec:    s.Spec,
			Anchor:  s.Anchor,
		}
	}

	p.mu.Lock()
	p.urls = urls
	p.sections = sections
	p.mu.Unlock()
	return nil
}

// Query implements provider.SpecProvider.
func (p *Provider) Query(_ context.Context, spec, anchor string) (provider.Section, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sections[spec+"#"+anchor]
	return s, ok, nil
}

// SpecURLs implements provider.SpecProvider.
func (p *Provider) SpecURLs() []scanner.SpecRef {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]scanner.SpecRef(nil), p.urls...)
}

// Close stops the background watcher.
func (p *Provider) Close() error {
	close(p.closed)
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}
