package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// Category buckets patterns by the analyzer signal they feed.
type Category string

const (
	CategoryArchetype    Category = "archetype"     // scammer archetype regexes
	CategoryMoneyRequest Category = "money_request" // explicit requests for money
	CategoryInfoHarvest  Category = "info_harvest"  // personal-information harvesting
	CategoryNonNative    Category = "non_native"    // known non-native phrasings
	CategoryScript       Category = "script"        // known script phrases
	CategoryManipulation Category = "manipulation"  // emotional-manipulation phrases
	CategorySympathy     Category = "sympathy"      // sympathy-baiting keywords
	CategoryUrgency      Category = "urgency"       // urgency markers
	CategoryCrisis       Category = "crisis"        // medical/financial crisis words
	CategoryLoveBombing  Category = "love_bombing"  // premature-affection vocabulary
	CategoryGrammarError Category = "grammar_error" // common grammar-error substrings
)

// Pattern is one versioned detection rule. Archetype is only set for
// archetype-category patterns.
type Pattern struct {
	ID        string                   `koanf:"id" json:"id"`
	Archetype verification.ScammerType `koanf:"archetype" json:"archetype,omitempty"`
	Pattern   string                   `koanf:"pattern" json:"pattern"`
	Weight    float64                  `koanf:"weight" json:"weight"`
	Category  Category                 `koanf:"category" json:"category"`
	Severity  verification.Severity    `koanf:"severity" json:"severity"`

	re *regexp.Regexp
}

// MatchCount returns the number of occurrences of the pattern in text.
func (p *Pattern) MatchCount(text string) int {
	if p.re == nil {
		return 0
	}
	return len(p.re.FindAllStringIndex(text, -1))
}

// Matches reports whether the pattern occurs in text at least once.
func (p *Pattern) Matches(text string) bool {
	return p.re != nil && p.re.MatchString(text)
}

// Registry is an immutable, versioned set of compiled detection patterns.
// Analyzers hold a reference and never mutate it; swapping pattern sets means
// constructing a new registry.
type Registry struct {
	version    string
	patterns   []Pattern
	byCategory map[Category][]Pattern
}

// New compiles the given pattern specs into a registry.
func New(version string, specs []Pattern) (*Registry, error) {
	r := &Registry{
		version:    version,
		patterns:   make([]Pattern, 0, len(specs)),
		byCategory: make(map[Category][]Pattern),
	}

	for _, spec := range specs {
		if spec.ID == "" {
			return nil, fmt.Errorf("pattern with empty id in registry version %q", version)
		}
		re, err := regexp.Compile("(?i)" + spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %s: %w", spec.ID, err)
		}
		spec.re = re
		r.patterns = append(r.patterns, spec)
		r.byCategory[spec.Category] = append(r.byCategory[spec.Category], spec)
	}

	return r, nil
}

// Version returns the registry version string.
func (r *Registry) Version() string { return r.version }

// Len returns the total number of patterns.
func (r *Registry) Len() int { return len(r.patterns) }

// Category returns the compiled patterns for one category.
func (r *Registry) Category(c Category) []Pattern {
	return r.byCategory[c]
}

// ArchetypePatterns returns the archetype-category patterns for one scammer
// type.
func (r *Registry) ArchetypePatterns(t verification.ScammerType) []Pattern {
	out := make([]Pattern, 0, 4)
	for _, p := range r.byCategory[CategoryArchetype] {
		if p.Archetype == t {
			out = append(out, p)
		}
	}
	return out
}

// CountMatches returns the number of distinct patterns in the given set that
// occur in text.
func CountMatches(set []Pattern, text string) int {
	n := 0
	for i := range set {
		if set[i].Matches(text) {
			n++
		}
	}
	return n
}

// registryFile mirrors the on-disk pattern registry schema.
type registryFile struct {
	Version  string    `koanf:"version"`
	Patterns []Pattern `koanf:"patterns"`
}

// LoadFile reads a pattern registry from a YAML file. The file fully replaces
// the built-in defaults; partial overlays are intentionally unsupported so a
// registry version always means one exact pattern set.
func LoadFile(path string) (*Registry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading pattern registry %s: %w", path, err)
	}

	var rf registryFile
	if err := k.Unmarshal("", &rf); err != nil {
		return nil, fmt.Errorf("unmarshaling pattern registry %s: %w", path, err)
	}
	if strings.TrimSpace(rf.Version) == "" {
		return nil, fmt.Errorf("pattern registry %s has no version", path)
	}

	return New(rf.Version, rf.Patterns)
}
