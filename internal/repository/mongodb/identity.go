package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanonicalID returns the canonical string form of a stored product identity.
// ObjectIds normalize to their hex encoding; string refs are already in
// canonical form (a string ref holding an ObjectId hex is identical to the
// hex of the ObjectId form, so sums keyed this way merge correctly).
func CanonicalID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprintf("%v", v)
	}
}

// identityRepresentations splits canonical ids into the two physical
// representations found in order line items: the ObjectId form (for ids that
// parse as such) and the plain string form.
func identityRepresentations(ids []string) (objectIDs []any, strings []any) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		strings = append(strings, id)
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			objectIDs = append(objectIDs, oid)
		}
	}
	return objectIDs, strings
}
