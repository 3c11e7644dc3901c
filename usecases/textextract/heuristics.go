// Package textextract finds candidate person and company names in free text. The
// results are hints to seed a lookup: they are never cached and never trusted.
package textextract

import (
	"regexp"
	"strings"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/hashicorp/go-set/v2"
)

const maxPersonNames = 10

type Extractor interface {
	ExtractPersonNames(text string) []string
	ExtractCompanyName(text string) *string
}

var (
	namePart = `[A-Z][a-z]+(?:[-'][A-Z][a-z]+)?`

	// "my name is Jane Doe", "I'm Jane Doe", "contact: Jane Doe"
	cuedPersonName = regexp.MustCompile(
		`(?i:my name is|i am|i'm|this is|contact|speak to|ask for|from)\s*:?\s+(` + namePart + `\s+` + namePart + `)`)

	capitalizedRun = regexp.MustCompile(`\b` + namePart + `(?:\s+` + namePart + `)+\b`)

	// "Acme Corp", "Globex Inc.", "Initech SAS"
	companyWithSuffix = regexp.MustCompile(
		`\b((?:[A-Z][\w&'-]*\s+){0,3}[A-Z][\w&'-]*)\s+(Inc|Corp|Corporation|LLC|Ltd|Limited|GmbH|SA|SAS|SARL|AG|BV|PLC|Group|Company)\b\.?`)

	// "working at Acme", "I work for Globex"
	cuedCompany = regexp.MustCompile(
		`(?i:work(?:s|ing)? (?:at|for)|employed (?:at|by)|joined)\s+((?:[A-Z][\w&'-]*)(?:\s+[A-Z][\w&'-]*){0,3})`)

	notAName = set.From([]string{
		"The", "This", "That", "These", "Those", "Hello", "Hi", "Dear", "Thanks", "Thank",
		"Best", "Regards", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday",
		"Saturday", "Sunday", "Mr", "Mrs", "Ms", "Dr", "Inc", "Corp", "Ltd", "LLC",
	})
)

type RegexExtractor struct{}

func NewRegexExtractor() RegexExtractor {
	return RegexExtractor{}
}

// ExtractPersonNames returns deduplicated "First Last" candidates, cued names first.
func (RegexExtractor) ExtractPersonNames(text string) []string {
	seen := set.New[string](maxPersonNames)
	names := make([]string, 0)

	add := func(first, last string) {
		if len(names) >= maxPersonNames || notAName.Contains(first) || notAName.Contains(last) {
			return
		}
		name := first + " " + last
		if seen.Insert(models.NormalizeKeyField(name)) {
			names = append(names, name)
		}
	}

	for _, match := range cuedPersonName.FindAllStringSubmatch(text, -1) {
		parts := strings.Fields(match[1])
		add(parts[0], parts[1])
	}
	// runs of capitalized words are split on words that cannot be part of a name
	for _, run := range capitalizedRun.FindAllString(text, -1) {
		var segment []string
		for _, word := range append(strings.Fields(run), "") {
			if word != "" && !notAName.Contains(word) {
				segment = append(segment, word)
				continue
			}
			if len(segment) >= 2 {
				add(segment[0], segment[1])
			}
			segment = nil
		}
	}

	return names
}

// ExtractCompanyName returns the first company-looking name, or nil.
func (RegexExtractor) ExtractCompanyName(text string) *string {
	if match := companyWithSuffix.FindStringSubmatch(text); match != nil {
		name := match[1] + " " + match[2]
		return &name
	}
	if match := cuedCompany.FindStringSubmatch(text); match != nil {
		name := strings.TrimSpace(match[1])
		return &name
	}
	return nil
}

// Extract runs both heuristics.
func Extract(extractor Extractor, text string) models.ExtractedEntities {
	return models.ExtractedEntities{
		PersonNames: extractor.ExtractPersonNames(text),
		CompanyName: extractor.ExtractCompanyName(text),
	}
}
