// Package normalize holds the pure text-cleanup helpers shared by the
// crawlers and parsers: whitespace/mojibake repair, salary parsing,
// location classification, and tech-stack tokenization. Nothing in this
// package keeps mutable state.
package normalize

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed dictionaries.yaml
var dictionariesYAML []byte

type dictionaries struct {
	Skills          map[string]string   `yaml:"skills"`
	SectionSynonyms map[string][]string `yaml:"section_synonyms"`
	LocationAliases map[string]string   `yaml:"location_aliases"`
}

var dicts dictionaries

// skillTokens is the dictionary key set ordered longest-first so that
// multi-word entries ("machine learning") win over their substrings.
var skillTokens []string

func init() {
	if err := yaml.Unmarshal(dictionariesYAML, &dicts); err != nil {
		panic(fmt.Sprintf("normalize: bad embedded dictionaries: %v", err))
	}
	skillTokens = make([]string, 0, len(dicts.Skills))
	for k := range dicts.Skills {
		skillTokens = append(skillTokens, k)
	}
	sort.Slice(skillTokens, func(i, j int) bool {
		if len(skillTokens[i]) != len(skillTokens[j]) {
			return len(skillTokens[i]) > len(skillTokens[j])
		}
		return skillTokens[i] < skillTokens[j]
	})
}

func lookupLocationAlias(s string) (string, bool) {
	v, ok := dicts.LocationAliases[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// Bullet-group kinds recognized by ClassifyHeading.
const (
	KindRequirements     = "requirements"
	KindResponsibilities = "responsibilities"
	KindBenefits         = "benefits"
)

// headingKinds fixes the lookup order so a heading matching several kinds
// classifies the same way on every run.
var headingKinds = []string{KindRequirements, KindResponsibilities, KindBenefits}

// ClassifyHeading maps a section heading to a bullet-group kind via the
// synonym table ("What you'll do" -> responsibilities). Returns "" when the
// heading matches nothing.
func ClassifyHeading(heading string) string {
	low := strings.ToLower(heading)
	for _, kind := range headingKinds {
		for _, syn := range dicts.SectionSynonyms[kind] {
			if strings.Contains(low, syn) {
				return kind
			}
		}
	}
	return ""
}
