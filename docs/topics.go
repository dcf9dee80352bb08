// Package docs holds the achtool documentation topics.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.md
var docs embed.FS

// readme is the topic shown when none is asked for. It is not listed.
const readme = "readme"

// Topic returns the markdown of a documentation topic.
func Topic(name string) (string, error) {
	content, err := fs.ReadFile(docs, name+".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found, try one of %s", name, strings.Join(List(), ", "))
	}
	return string(content), nil
}

// Topics concatenates the given topics. "*" expands to every listed topic
// and no name at all means the readme.
func Topics(names ...string) (string, error) {
	if len(names) == 0 {
		names = []string{readme}
	}
	var expanded []string
	for _, n := range names {
		if n == "*" {
			expanded = append(expanded, List()...)
			continue
		}
		expanded = append(expanded, n)
	}

	var b strings.Builder
	for _, n := range expanded {
		content, err := Topic(n)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// List returns the sorted topic names, readme excluded.
func List() []string {
	entries, _ := fs.ReadDir(docs, ".")
	var topics []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == readme {
			continue
		}
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics
}
