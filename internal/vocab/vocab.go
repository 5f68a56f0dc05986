// Package vocab holds the fixed predicate vocabulary of the citation export
// and the identifier pattern used to derive short ids from URIs.
package vocab

const (
	CitationNS = "http://vivo.brown.edu/ontology/citation#"
	TempNS     = "http://temporary.name.space/"
	RDFSLabel  = "<http://www.w3.org/2000/01/rdf-schema#label>"

	// ContributorPredicate links a citation to one of its authors. It is
	// multi-valued and never mapped to an attribute.
	ContributorPredicate = "<" + CitationNS + "hasContributor>"

	// AdminPositionType marks an administrative appointment in the faculty
	// export's type column.
	AdminPositionType = "http://vivoweb.org/ontology/core#FacultyAdministrativePosition"

	// DefaultIdentifierBase is the URI prefix shared by people and citations.
	DefaultIdentifierBase = "http://vivo.brown.edu/individual/"
)

type mapping struct {
	predicate string
	attribute string
}

func cite(local, attr string) mapping { return mapping{"<" + CitationNS + local + ">", attr} }
func temp(local, attr string) mapping { return mapping{"<" + TempNS + local + ">", attr} }

// table is ordered the way attributes are listed in Attributes.
var table = []mapping{
	{RDFSLabel, "title"},
	cite("authorList", "authors"),
	cite("chapter", "chapter"),
	cite("pageEnd", "page_end"),
	cite("isbn", "isbn"),
	cite("volume", "volume"),
	cite("doi", "doi"),
	cite("patentNumber", "patent_number"),
	cite("pmcid", "pmcid"),
	cite("wokId", "wok_id"),
	cite("pages", "pages"),
	cite("number", "number"),
	cite("pmid", "pmid"),
	cite("issn", "issn"),
	cite("oclc", "oclc"),
	cite("issue", "issue"),
	cite("reviewOf", "review_of"),
	cite("url", "url"),
	cite("conferenceDate", "conference_date"),
	cite("eissn", "eissn"),
	cite("book", "book"),
	cite("date", "date"),
	cite("version", "version"),
	cite("editorList", "editors"),
	cite("pageStart", "page_start"),
	temp("venue", "published_in"),
	temp("publisher", "publisher"),
	temp("location", "location"),
	temp("country", "country"),
	temp("conference", "conference"),
	temp("authority", "authority"),
}

var (
	byPredicate = make(map[string]string, len(table))
	attributes  = make([]string, 0, len(table))
)

func init() {
	for _, m := range table {
		byPredicate[m.predicate] = m.attribute
		attributes = append(attributes, m.attribute)
	}
}

// Lookup maps a bracketed predicate URI to its attribute name.
func Lookup(predicate string) (string, bool) {
	attr, ok := byPredicate[predicate]
	return attr, ok
}

// Attributes returns every attribute name a citation record carries.
func Attributes() []string {
	out := make([]string, len(attributes))
	copy(out, attributes)
	return out
}
