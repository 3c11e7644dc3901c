package textextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPersonNames(t *testing.T) {
	extractor := NewRegexExtractor()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "cued and bare names",
			text: "Hello, my name is Jane Doe and I work at Acme Corp. Please ask for John Smith.",
			want: []string{"Jane Doe", "John Smith"},
		},
		{
			name: "duplicates are dropped",
			text: "Jane Doe met Jane Doe again",
			want: []string{"Jane Doe"},
		},
		{
			name: "greeting is not part of the name",
			text: "Dear John Smith, thanks for your message",
			want: []string{"John Smith"},
		},
		{
			name: "hyphenated names",
			text: "I'm Anne-Marie Dupont-Roux",
			want: []string{"Anne-Marie Dupont-Roux"},
		},
		{
			name: "nothing to find",
			text: "she is working for Globex these days",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.ExtractPersonNames(tt.text))
		})
	}
}

func TestExtractCompanyName(t *testing.T) {
	extractor := NewRegexExtractor()

	name := extractor.ExtractCompanyName("Hello, I work at Acme Corp. and Globex Inc.")
	require.NotNil(t, name)
	assert.Equal(t, "Acme Corp", *name)

	name = extractor.ExtractCompanyName("she is working for Globex these days")
	require.NotNil(t, name)
	assert.Equal(t, "Globex", *name)

	assert.Nil(t, extractor.ExtractCompanyName("no company in here"))
}

func TestExtract(t *testing.T) {
	entities := Extract(NewRegexExtractor(), "My name is Jane Doe, I joined Initech SAS last year")

	assert.Equal(t, []string{"Jane Doe"}, entities.PersonNames)
	require.NotNil(t, entities.CompanyName)
	assert.Equal(t, "Initech SAS", *entities.CompanyName)
}
