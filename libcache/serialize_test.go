package libcache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/typeguess/types"
)

func TestEncodeDecodeTypeRoundTrip(t *testing.T) {
	cases := []*types.Type{
		types.NewInstance("Integer"),
		types.NewArray(types.NewInstance("String")),
		types.NewUnion(types.NewInstance("Integer"), types.NewInstance("NilClass")),
		types.Unknown,
	}
	for _, tc := range cases {
		encoded := EncodeType(tc)
		decoded := DecodeType(encoded)
		assert.Equal(t, tc.Kind, decoded.Kind)
		assert.Equal(t, tc.Name, decoded.Name)
	}
}

func TestEncodeDecodeSigRoundTrip(t *testing.T) {
	sig := &types.MethodSignature{
		Params: []types.Param{
			{Name: "count", Kind: types.ParamRequired, Type: types.NewInstance("Integer")},
		},
		Return: types.NewInstance("String"),
	}
	encoded := EncodeSig(sig)
	decoded := DecodeSig(encoded)
	assert.Len(t, decoded.Params, 1)
	assert.Equal(t, "count", decoded.Params[0].Name)
	assert.Equal(t, "Integer", decoded.Params[0].Type.Name)
	assert.Equal(t, "String", decoded.Return.Name)
}

func TestDecodeTypeUnrecognizedTagFallsBackToUnknown(t *testing.T) {
	decoded := DecodeType(&SerializedType{Type: "SomethingFromTheFuture"})
	assert.Equal(t, types.KindUnknown, decoded.Kind)
}
