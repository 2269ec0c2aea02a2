package hetero

import "fmt"

// EntityType is a category of node in the heterogeneous graph
type EntityType string

const (
	EntityTransaction EntityType = "transaction"
	EntityUser        EntityType = "user"
	EntityAccount     EntityType = "account"

	// Reserved: declared so relation triples can name them, never in DefaultPlan.
	EntityCountry        EntityType = "country"
	EntityLineOfBusiness EntityType = "lob"
	EntitySector         EntityType = "sector"
)

// entityLabels maps entity types to their Neo4j node labels
var entityLabels = map[EntityType]string{
	EntityTransaction:    "Transaction",
	EntityUser:           "User",
	EntityAccount:        "Account",
	EntityCountry:        "Country",
	EntityLineOfBusiness: "Lob",
	EntitySector:         "Sector",
}

// Label returns the source label for the entity type
func (e EntityType) Label() string {
	if l, ok := entityLabels[e]; ok {
		return l
	}
	return string(e)
}

// RelationType is a category of directed edge
type RelationType string

const (
	RelBelongsTo     RelationType = "belongs_to"
	RelReceivedBy    RelationType = "received_by"
	RelTransferredBy RelationType = "transferred_by"

	// Reserved, see EntityCountry.
	RelFromCountry RelationType = "from"
	RelLobIn       RelationType = "lob_in"
	RelWorksIn     RelationType = "works_in"
)

var relationLabels = map[RelationType]string{
	RelBelongsTo:     "BELONGS_TO",
	RelReceivedBy:    "RECEIVED_BY",
	RelTransferredBy: "TRANSFERRED_BY",
	RelFromCountry:   "FROM",
	RelLobIn:         "LOB_IN",
	RelWorksIn:       "WORKS_IN",
}

// Label returns the source relationship type name
func (r RelationType) Label() string {
	if l, ok := relationLabels[r]; ok {
		return l
	}
	return string(r)
}

// EdgeType keys an edge-index list by (source type, relation, destination type)
type EdgeType struct {
	Src EntityType
	Rel RelationType
	Dst EntityType
}

// String renders the triple as src__rel__dst
func (t EdgeType) String() string {
	return fmt.Sprintf("%s__%s__%s", t.Src, t.Rel, t.Dst)
}

// MarshalText lets EdgeType key maps in JSON and YAML output
func (t EdgeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Standard wired relation triples
var (
	AccountBelongsToUser            = EdgeType{EntityAccount, RelBelongsTo, EntityUser}
	TransactionReceivedByAccount    = EdgeType{EntityTransaction, RelReceivedBy, EntityAccount}
	TransactionTransferredByAccount = EdgeType{EntityTransaction, RelTransferredBy, EntityAccount}
)
