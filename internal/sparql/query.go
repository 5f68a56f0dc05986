package sparql

// Query is a named SPARQL request and the media type it should return.
type Query struct {
	Name   string
	Text   string
	Accept string
}

// TestLimit caps result size in test mode.
const TestLimit = "\nLIMIT 20"

const (
	AcceptNTriples = "text/plain"
	AcceptCSV      = "text/csv"
)

const citationQuery = `
PREFIX rdf:   <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs:  <http://www.w3.org/2000/01/rdf-schema#>
PREFIX bcite: <http://vivo.brown.edu/ontology/citation#>
PREFIX tmp:   <http://temporary.name.space/>
CONSTRUCT {
    ?cite a bcite:Citation .
    ?cite ?p ?o .
    ?cite tmp:venue ?venue .
    ?cite tmp:publisher ?publisher .
    ?cite tmp:location ?location .
    ?cite tmp:country ?country .
    ?cite tmp:conference ?conference .
    ?cite tmp:authority ?authority .
}
WHERE {
    { ?cite a bcite:Citation . ?cite ?p ?o . }
    UNION { ?cite a bcite:Citation . ?cite bcite:hasVenue ?x . ?x rdfs:label ?venue . }
    UNION { ?cite a bcite:Citation . ?cite bcite:hasPublisher ?x . ?x rdfs:label ?publisher . }
    UNION { ?cite a bcite:Citation . ?cite bcite:hasLocation ?x . ?x rdfs:label ?location . }
    UNION { ?cite a bcite:Citation . ?cite bcite:hasCountry ?x . ?x rdfs:label ?country . }
    UNION { ?cite a bcite:Citation . ?cite bcite:hasConference ?x . ?x rdfs:label ?conference . }
    UNION { ?cite a bcite:Citation . ?cite bcite:hasAuthority ?x . ?x rdfs:label ?authority . }
}`

const facultyQuery = `
PREFIX rdf:    <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs:   <http://www.w3.org/2000/01/rdf-schema#>
PREFIX blocal: <http://vivo.brown.edu/ontology/vivo-brown/>
PREFIX bwday:  <http://vivo.brown.edu/ontology/workday#>
PREFIX vivo:   <http://vivoweb.org/ontology/core#>
SELECT ?fac ?shortid ?pos ?rank ?unit ?type
WHERE {
    ?fac a vivo:FacultyMember .
    ?fac blocal:shortId ?shortid .
    ?fac vivo:personInPosition ?pos .
    ?pos a ?type .
    FILTER (?type IN (vivo:FacultyPosition, vivo:FacultyAdministrativePosition))
    ?pos bwday:appointmentRank ?rank .
    ?pos vivo:positionInOrganization ?org .
    ?org rdfs:label ?unit .
}`

// CitationQuery returns the CONSTRUCT query producing the statement export.
func CitationQuery(test bool) Query {
	return build("citations", citationQuery, AcceptNTriples, test)
}

// FacultyQuery returns the SELECT query producing the appointment export.
func FacultyQuery(test bool) Query {
	return build("faculty", facultyQuery, AcceptCSV, test)
}

func build(name, text, accept string, test bool) Query {
	if test {
		text += TestLimit
	}
	return Query{Name: name, Text: text, Accept: accept}
}
