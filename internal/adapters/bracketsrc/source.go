// Package bracketsrc loads first-round bracket pods from an HTML bracket page
// or a JSON document and turns them into a bracket table.
package bracketsrc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/okian/madness/internal/domain/bracket"
)

// Entrant is one team listed in a pod.
type Entrant struct {
	Name string `json:"name"`
	Seed int    `json:"seed"`
}

// Pod is a first-round game as listed by the source.
type Pod struct {
	Region string    `json:"region"`
	Teams  []Entrant `json:"teams"`
}

// Document is the JSON bracket file.
type Document struct {
	Regions    []bracket.Region `json:"regions"`
	Semifinals [][2]string      `json:"semifinals,omitempty"`
}

// Games builds the bracket table described by the document.
func (d Document) Games() ([]bracket.Game, error) {
	return bracket.Build(d.Regions, d.Semifinals)
}

// Regions groups pods by region in order of first appearance, keeping pod
// order within each region.
func Regions(pods []Pod) ([]bracket.Region, error) {
	var out []bracket.Region
	index := make(map[string]int)
	for i, p := range pods {
		if len(p.Teams) != 2 {
			return nil, fmt.Errorf("%w: pod %d in %q lists %d teams", ErrParse, i, p.Region, len(p.Teams))
		}
		ri, ok := index[p.Region]
		if !ok {
			ri = len(out)
			index[p.Region] = ri
			out = append(out, bracket.Region{Name: p.Region})
		}
		out[ri].Games = append(out[ri].Games, bracket.Matchup{
			Team1Seed: p.Teams[0].Seed,
			Team1Name: p.Teams[0].Name,
			Team2Seed: p.Teams[1].Seed,
			Team2Name: p.Teams[1].Name,
		})
	}
	return out, nil
}

// LoadJSON reads either a Document or a bare list of pods.
func LoadJSON(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var pods []Pod
		if err := json.Unmarshal(raw, &pods); err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		regions, err := Regions(pods)
		if err != nil {
			return Document{}, err
		}
		return Document{Regions: regions}, nil
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(doc.Regions) == 0 {
		return Document{}, fmt.Errorf("%w: no regions", ErrParse)
	}
	return doc, nil
}

// Loader resolves a bracket table from a JSON file or an HTML page. File
// takes precedence over URL.
type Loader struct {
	File       string
	URL        string
	Semifinals [][2]string
	HTTPClient *http.Client
}

// ErrNotConfigured is returned when a Loader has neither a file nor a URL.
var ErrNotConfigured = errors.New("bracketsrc: no bracket file or url configured")

// Bracket loads the source and builds the bracket table. Semifinals set on
// the Loader override those of a JSON document.
func (l Loader) Bracket(ctx context.Context) ([]bracket.Game, error) {
	var doc Document
	switch {
	case l.File != "":
		fh, err := os.Open(l.File) //nolint:gosec // operator-supplied path
		if err != nil {
			return nil, fmt.Errorf("open bracket file: %w", err)
		}
		defer func() { _ = fh.Close() }()
		if doc, err = LoadJSON(fh); err != nil {
			return nil, err
		}
	case l.URL != "":
		pods, err := Fetch(ctx, l.HTTPClient, l.URL)
		if err != nil {
			return nil, err
		}
		regions, err := Regions(pods)
		if err != nil {
			return nil, err
		}
		doc = Document{Regions: regions}
	default:
		return nil, ErrNotConfigured
	}
	if len(l.Semifinals) > 0 {
		doc.Semifinals = l.Semifinals
	}
	return doc.Games()
}
