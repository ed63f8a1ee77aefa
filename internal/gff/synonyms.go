package gff

// Synonyms maps misspelled gene names in the annotation table to their
// corrected form. Applied during parsing, before grouping.
type Synonyms map[string]string

// DefaultSynonyms corrects the known data-entry irregularities in the
// Photinus pyralis OR annotation table. The derived output only matches the
// published tables when these exact remappings are applied.
var DefaultSynonyms = Synonyms{
	"PpyrOR1":     "PpyrOr1",
	"PpyrOr24lik": "PpyrOr24like",
	"Ppyr0r47":    "PpyrOr47",
	"PpyrOr65-2":  "PpyrOr65.2",
	"PpyrOr112A":  "PpyrOr112a",
	"PpyrOrr118":  "PpyrOr118",
}

// Apply returns the corrected gene name, or the input unchanged when no
// correction is registered.
func (s Synonyms) Apply(gene string) string {
	if s == nil {
		return gene
	}
	if fixed, ok := s[gene]; ok {
		return fixed
	}
	return gene
}
