package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/schooldesk/schooldesk/core"
)

// searchFilter builds the server-side equivalent of the memory backend's
// student search: an OR over case-insensitive substring matches on name,
// code, and notes, and a case-sensitive substring match on phone. The query
// is quoted so regex metacharacters in it mean literal text, keeping the
// two backends in agreement. Documents with null notes never match on the
// notes branch.
func searchFilter(query string) bson.M {
	pattern := regexp.QuoteMeta(query)
	ci := primitive.Regex{Pattern: pattern, Options: "i"}
	cs := primitive.Regex{Pattern: pattern}
	return bson.M{"$or": bson.A{
		bson.M{"name": ci},
		bson.M{"code": ci},
		bson.M{"phone": cs},
		bson.M{"notes": ci},
	}}
}

// patchSet translates a StudentPatch into the $set document of a merge
// update. Only the supplied fields appear; ID and CreatedAt never do.
func patchSet(patch core.StudentPatch) bson.M {
	set := bson.M{}
	if patch.Code != nil {
		set["code"] = *patch.Code
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Grade != nil {
		set["grade"] = *patch.Grade
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	return set
}
