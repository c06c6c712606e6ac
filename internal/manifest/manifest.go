package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

// FileName is the per-topic index the loader reads.
const FileName = "manifest.json"

// Options controls Generate.
type Options struct {
	Root    string   // content root holding one directory per topic
	Include []string // doublestar patterns on "<topic>/<file>"
	Exclude []string // applied after Include, in addition to DefaultExcludes
	DryRun  bool     // compute manifests without writing them
}

// Result describes the manifest generated for one topic.
type Result struct {
	TopicID string
	Path    string   // manifest path on disk
	Files   []string // listed file names, in reading order
	Skipped []string // file names that do not follow the naming convention
}

// Generate writes <topic>/manifest.json for every topic directory under
// opts.Root. Results are ordered by topic id.
func Generate(opts Options) ([]Result, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve root: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", root, err)
	}

	var results []Result
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || !catalog.ValidTopicID(e.Name()) {
			continue
		}
		res, err := generateTopic(root, e.Name(), opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].TopicID < results[j].TopicID })
	return results, nil
}

func generateTopic(root, topicID string, opts Options) (Result, error) {
	dir := filepath.Join(root, topicID)
	res := Result{TopicID: topicID, Path: filepath.Join(dir, FileName)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return res, fmt.Errorf("manifest: reading topic %s: %w", topicID, err)
	}

	var parsed []catalog.FileEntry
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		rel := path.Join(topicID, e.Name())
		if !MatchesInclude(rel, opts.Include) {
			continue
		}
		if MatchesExclude(rel, DefaultExcludes) || MatchesExclude(rel, opts.Exclude) {
			continue
		}

		entry, err := catalog.ParseFilename(e.Name())
		if err != nil {
			res.Skipped = append(res.Skipped, e.Name())
			continue
		}
		parsed = append(parsed, entry)
	}

	sort.Slice(parsed, func(i, j int) bool {
		if parsed[i].Rank != parsed[j].Rank {
			return parsed[i].Rank < parsed[j].Rank
		}
		return parsed[i].File < parsed[j].File
	})

	res.Files = make([]string, len(parsed))
	for i, p := range parsed {
		res.Files[i] = p.File
	}

	if opts.DryRun {
		return res, nil
	}

	data, err := json.MarshalIndent(res.Files, "", "  ")
	if err != nil {
		return res, fmt.Errorf("manifest: encoding %s: %w", topicID, err)
	}
	if err := os.WriteFile(res.Path, append(data, '\n'), 0644); err != nil {
		return res, fmt.Errorf("manifest: writing %s: %w", res.Path, err)
	}
	return res, nil
}
