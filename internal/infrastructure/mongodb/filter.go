package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// filter construye filtros bson.M de forma encadenada. Los valores vacíos no
// añaden condición.
type filter struct {
	m bson.M
}

func newFilter() *filter { return &filter{m: bson.M{}} }

func (f *filter) eq(field string, value any) *filter {
	f.m[field] = value
	return f
}

// eqIf añade la igualdad solo si value no es "".
func (f *filter) eqIf(field, value string) *filter {
	if value != "" {
		f.m[field] = value
	}
	return f
}

func (f *filter) ne(field string, value any) *filter {
	f.m[field] = bson.M{"$ne": value}
	return f
}

// rng añade $gte/$lt sobre field; los extremos nil se omiten.
func (f *filter) rng(field string, gte, lt any) *filter {
	cond := bson.M{}
	if gte != nil {
		cond["$gte"] = gte
	}
	if lt != nil {
		cond["$lt"] = lt
	}
	if len(cond) > 0 {
		f.m[field] = cond
	}
	return f
}

// search coincidencia parcial sin distinguir mayúsculas en cualquiera de los campos.
func (f *filter) search(text string, fields ...string) *filter {
	if text == "" {
		return f
	}
	pattern := regexp.QuoteMeta(text)
	or := make([]bson.M, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
	}
	f.m["$or"] = or
	return f
}

func (f *filter) build() bson.M { return f.m }
