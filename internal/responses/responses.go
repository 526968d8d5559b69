// Package responses holds the canned replies the bot serves: the direct
// message auto-reply and the named quotes.
package responses

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Quote struct {
	Reply string `json:"reply" yaml:"reply"`
}

type Responses struct {
	PMReply string           `json:"pmReply" yaml:"pmReply"`
	Quotes  map[string]Quote `json:"quotes" yaml:"quotes"`
}

// Load reads the base responses file and, if overlay is set, merges the
// overlay file on top of it. Quotes from the overlay replace quotes with the
// same name; a non-empty overlay pmReply replaces the base one.
func Load(path, overlay string) (*Responses, error) {
	r := &Responses{Quotes: map[string]Quote{}}
	if path != "" {
		base, err := readFile(path)
		if err != nil {
			return nil, err
		}
		r.merge(base)
	}
	if overlay != "" {
		extra, err := readFile(overlay)
		if err != nil {
			return nil, err
		}
		r.merge(extra)
	}
	return r, nil
}

func readFile(path string) (*Responses, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read responses %s: %w", path, err)
	}

	var r Responses
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &r)
	default:
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("parse responses %s: %w", path, err)
	}
	return &r, nil
}

func (r *Responses) merge(other *Responses) {
	if other.PMReply != "" {
		r.PMReply = other.PMReply
	}
	for name, q := range other.Quotes {
		r.Quotes[name] = q
	}
}

// Quote looks a quote up by its exact name.
func (r *Responses) Quote(name string) (Quote, bool) {
	if r == nil {
		return Quote{}, false
	}
	q, ok := r.Quotes[name]
	return q, ok
}

// Names returns the quote names, sorted.
func (r *Responses) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Quotes))
	for name := range r.Quotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
