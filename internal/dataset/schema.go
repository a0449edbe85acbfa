package dataset

import (
	"slices"
	"strings"
)

// Header field names as they appear in the dataset.
const (
	colTerm         = "単語"
	colTranslation  = "和訳"
	colDifficulty   = "難易度"
	colPartOfSpeech = "品詞"
	colContext      = "文脈"
	colVideoURL     = "動画URL"
	colVideoTitle   = "動画タイトル"
	colOrganization = "事務所"
	colPresenter    = "キャスト名"
	colTalent       = "タレント名" // older name for the presenter column
)

// Schema identifies one recognized header layout.
type Schema string

const (
	SchemaLegacy6    Schema = "legacy6"
	SchemaOld7       Schema = "old7"
	SchemaNew7       Schema = "new7"
	SchemaOld9       Schema = "old9"
	SchemaOld9Talent Schema = "old9-talent"
	SchemaNew9       Schema = "new9"
)

func (s Schema) String() string { return string(s) }

// field is the semantic slot a column fills.
type field int

const (
	fieldTerm field = iota
	fieldTranslation
	fieldDifficulty
	fieldPartOfSpeech
	fieldContext
	fieldVideoURL
	fieldVideoTitle
	fieldOrganization
	fieldPresenter
)

// layout maps column position to semantic slot for one schema.
type layout struct {
	schema Schema
	header []string
	fields []field
}

// width returns the number of columns of the schema.
func (l layout) width() int { return len(l.fields) }

var (
	oldOrder = []field{fieldTerm, fieldTranslation, fieldDifficulty, fieldPartOfSpeech, fieldContext, fieldVideoURL}
	newOrder = []field{fieldTerm, fieldTranslation, fieldContext, fieldDifficulty, fieldPartOfSpeech, fieldVideoURL}
	title    = []field{fieldVideoTitle}
	cast     = []field{fieldOrganization, fieldPresenter}
)

// layouts is the closed set of recognized headers. Selection is by exact
// match of the trimmed header tuple; values are never probed.
var layouts = []layout{
	{
		schema: SchemaLegacy6,
		header: []string{colTerm, colTranslation, colDifficulty, colPartOfSpeech, colContext, colVideoURL},
		fields: oldOrder,
	},
	{
		schema: SchemaOld7,
		header: []string{colTerm, colTranslation, colDifficulty, colPartOfSpeech, colContext, colVideoURL, colVideoTitle},
		fields: concat(oldOrder, title),
	},
	{
		schema: SchemaNew7,
		header: []string{colTerm, colTranslation, colContext, colDifficulty, colPartOfSpeech, colVideoURL, colVideoTitle},
		fields: concat(newOrder, title),
	},
	{
		schema: SchemaOld9,
		header: []string{colTerm, colTranslation, colDifficulty, colPartOfSpeech, colContext, colVideoURL, colVideoTitle, colOrganization, colPresenter},
		fields: concat(oldOrder, title, cast),
	},
	{
		schema: SchemaOld9Talent,
		header: []string{colTerm, colTranslation, colDifficulty, colPartOfSpeech, colContext, colVideoURL, colVideoTitle, colOrganization, colTalent},
		fields: concat(oldOrder, title, cast),
	},
	{
		schema: SchemaNew9,
		header: []string{colTerm, colTranslation, colContext, colDifficulty, colPartOfSpeech, colVideoURL, colVideoTitle, colOrganization, colPresenter},
		fields: concat(newOrder, title, cast),
	},
}

// lookupLayout returns the layout whose header equals the given tuple.
func lookupLayout(header []string) (layout, bool) {
	for _, l := range layouts {
		if slices.Equal(l.header, header) {
			return l, true
		}
	}
	return layout{}, false
}

// Headers returns the recognized header lines, comma-joined, keyed by schema.
func Headers() map[Schema]string {
	out := make(map[Schema]string, len(layouts))
	for _, l := range layouts {
		out[l.schema] = strings.Join(l.header, ",")
	}
	return out
}

func concat(parts ...[]field) []field {
	var out []field
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
