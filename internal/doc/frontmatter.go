package doc

import (
	"strings"

	"github.com/adrg/frontmatter"
)

// Meta is the subset of front matter the editor understands.
type Meta struct {
	Title string   `yaml:"title" toml:"title" json:"title"`
	Tags  []string `yaml:"tags" toml:"tags" json:"tags"`
}

// SplitFrontMatter separates a leading YAML, TOML or JSON front matter block
// from the markdown body. Text without front matter, or with a block that does
// not parse, is returned as the body unchanged.
func SplitFrontMatter(text string) (Meta, string) {
	var meta Meta
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		return Meta{}, text
	}
	return meta, string(rest)
}
