package template

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/petrel-search/petrel/model"
)

// Template declares index settings to apply to indexes whose IDs match one
// of its patterns. Treated as an immutable value keyed by TemplateID.
type Template struct {
	TemplateID      string   `json:"template_id"`
	IndexIDPatterns []string `json:"index_id_patterns"`
	Priority        int      `json:"priority"`
	Description     string   `json:"description,omitempty"`
}

var (
	patternRegexp          = regexp.MustCompile(`^[a-zA-Z\*][a-zA-Z0-9-_\.\*]{0,254}$`)
	exclusionPatternRegexp = regexp.MustCompile(`^-?[a-zA-Z\*][a-zA-Z0-9-_\.\*]{0,254}$`)
)

// ValidatePattern checks an index ID pattern: the index ID charset plus `*`
// wildcards, and, when allowExclusion is set, an optional leading `-`
// marking the pattern as an exclusion.
func ValidatePattern(pattern string, allowExclusion bool) error {
	re := patternRegexp
	if allowExclusion {
		re = exclusionPatternRegexp
	}
	if !re.MatchString(pattern) {
		return fmt.Errorf("invalid index ID pattern %q: patterns must match `%s`", pattern, re.String())
	}
	if strings.Contains(pattern, "**") {
		return fmt.Errorf("invalid index ID pattern %q: patterns must not contain multiple consecutive `*`", pattern)
	}
	return nil
}

// Validate checks the template invariants: a well-formed ID and at least one
// well-formed pattern.
func (t *Template) Validate() error {
	if err := model.ValidateIdentifier("template ID", t.TemplateID); err != nil {
		return err
	}
	if len(t.IndexIDPatterns) == 0 {
		return fmt.Errorf("template %q must declare at least one index ID pattern", t.TemplateID)
	}
	for _, pattern := range t.IndexIDPatterns {
		if err := ValidatePattern(pattern, true); err != nil {
			return fmt.Errorf("template %q: %w", t.TemplateID, err)
		}
	}
	return nil
}

// MatchesIndexID reports whether the template applies to the given index ID.
// Exclusion patterns veto all positive matches.
func (t *Template) MatchesIndexID(indexID string) bool {
	matched := false
	for _, pattern := range t.IndexIDPatterns {
		if exclusion, found := strings.CutPrefix(pattern, "-"); found {
			if matchGlob(exclusion, indexID) {
				return false
			}
			continue
		}
		if matchGlob(pattern, indexID) {
			matched = true
		}
	}
	return matched
}

// FindMatching returns the templates matching the index ID, ordered by
// descending priority with template IDs ascending as tiebreak.
func FindMatching(templates []Template, indexID string) []Template {
	var matches []Template
	for _, t := range templates {
		if t.MatchesIndexID(indexID) {
			matches = append(matches, t)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		return matches[i].TemplateID < matches[j].TemplateID
	})
	return matches
}

// matchGlob matches `*`-only globs. Index IDs contain no path separators and
// no other glob metacharacters survive validation, so path.Match implements
// exactly the wildcard semantics patterns need.
func matchGlob(pattern, indexID string) bool {
	matched, err := path.Match(pattern, indexID)
	return err == nil && matched
}
