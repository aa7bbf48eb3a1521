// Command gen regenerates usage/data/usage_tables.yaml from the public
// hidutils/hut Usage Tables source data.
//
// Run it with `go generate ./usage/...`. It downloads the source JSON,
// caches it under .tmp/usage-cache, and rewrites the embedded YAML file
// only when the merged table actually changed, so repeated runs against
// an unchanged upstream produce no diff.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

const (
	cacheDir = "../.tmp/usage-cache"
	outFile  = "data/usage_tables.yaml"
	hutURL   = "https://raw.githubusercontent.com/hidutils/hut/main/data/hut.json"
)

// hutUsage is one usage entry in the hidutils/hut JSON source.
type hutUsage struct {
	ID   uint16 `json:"UsageId"`
	Name string `json:"UsageName"`
}

// hutPage is one usage page entry in the hidutils/hut JSON source.
type hutPage struct {
	ID     uint16     `json:"UsagePageId"`
	Name   string     `json:"UsagePageName"`
	Usages []hutUsage `json:"Usages"`
}

type pageDoc struct {
	ID     uint16     `yaml:"id"`
	Name   string     `yaml:"name"`
	Usages []usageDoc `yaml:"usages"`
}

type usageDoc struct {
	ID   uint16 `yaml:"id"`
	Name string `yaml:"name"`
}

type tableDoc struct {
	Pages []pageDoc `yaml:"pages"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path, err := ensureCached("hut.json", hutURL)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cached source: %w", err)
	}

	var pages []hutPage
	if err := json.Unmarshal(raw, &pages); err != nil {
		return fmt.Errorf("parse hut.json: %w", err)
	}

	doc := toTableDoc(pages)
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal usage table: %w", err)
	}

	if same, err := matchesExisting(out); err != nil {
		return err
	} else if same {
		fmt.Println("usage table unchanged, not rewriting", outFile)
		return nil
	}

	if err := os.WriteFile(outFile, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}
	fmt.Println("wrote", outFile)
	return nil
}

func toTableDoc(pages []hutPage) tableDoc {
	doc := tableDoc{Pages: make([]pageDoc, 0, len(pages))}
	for _, p := range pages {
		pd := pageDoc{ID: p.ID, Name: p.Name, Usages: make([]usageDoc, 0, len(p.Usages))}
		for _, u := range p.Usages {
			pd.Usages = append(pd.Usages, usageDoc{ID: u.ID, Name: u.Name})
		}
		sort.Slice(pd.Usages, func(i, j int) bool { return pd.Usages[i].ID < pd.Usages[j].ID })
		doc.Pages = append(doc.Pages, pd)
	}
	sort.Slice(doc.Pages, func(i, j int) bool { return doc.Pages[i].ID < doc.Pages[j].ID })
	return doc
}

// matchesExisting compares the xxhash digest of the freshly rendered YAML
// against the existing output file, so an unchanged upstream source never
// produces a spurious diff (xxhash is already in the dependency graph for
// this reason, not pulled in solely for this check).
func matchesExisting(rendered []byte) (bool, error) {
	existing, err := os.ReadFile(outFile)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read existing %s: %w", outFile, err)
	}
	return xxhash.Sum64(existing) == xxhash.Sum64(rendered), nil
}

func ensureCached(filename, url string) (string, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	path := filepath.Join(cacheDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("downloading", filename)
		resp, err := http.Get(url)
		if err != nil {
			return "", fmt.Errorf("download %s: %w", filename, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("download %s: status %d", filename, resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response body for %s: %w", filename, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("write cache file %s: %w", filename, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("check cache file %s: %w", filename, err)
	} else {
		fmt.Println("using cached file", filename)
	}
	return path, nil
}
