package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type priced struct {
	Price decimal.Decimal `bson:"price"`
}

func TestDecimalCodec_GuardaComoDecimal128(t *testing.T) {
	reg := NewRegistry()
	raw, err := bson.MarshalWithRegistry(reg, priced{Price: decimal.RequireFromString("21.50")})
	require.NoError(t, err)

	val := bson.Raw(raw).Lookup("price")
	assert.Equal(t, bsontype.Decimal128, val.Type)

	var out priced
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, decimal.RequireFromString("21.5").Equal(out.Price))
}

func TestDecimalCodec_LeeFormatosAntiguos(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		name string
		doc  bson.M
		want string
	}{
		{"string", bson.M{"price": "10.25"}, "10.25"},
		{"double", bson.M{"price": 3.5}, "3.5"},
		{"int32", bson.M{"price": int32(7)}, "7"},
		{"int64", bson.M{"price": int64(9)}, "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			require.NoError(t, err)
			var out priced
			require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(out.Price))
		})
	}
}

func TestFilter_OmiteVacios(t *testing.T) {
	f := newFilter().eqIf("status", "").eqIf("requiredRole", "Support Worker").rng("startTime", nil, nil).build()

	assert.Equal(t, bson.M{"requiredRole": "Support Worker"}, f)
}

func TestFilter_SearchEscapaRegex(t *testing.T) {
	f := newFilter().search("a.b", "email").build()

	or := f["$or"].([]bson.M)
	require.Len(t, or, 1)
	assert.Equal(t, `a\.b`, or[0]["email"].(bson.M)["$regex"])
}
