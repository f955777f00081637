package runtime

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
)

func TestConstructionInstallsSelfField(t *testing.T) {
	h := NewHeap()
	for _, v := range []*Value{
		h.MakeBoolean(true),
		h.MakeNumber(1),
		h.MakeString("x"),
		h.MakeDone(),
		h.MakeUserObject(),
		h.MakeScope(nil),
	} {
		self, err := v.GetField("self")
		if !assert.NoError(t, err, "%# v", pretty.Formatter(v)) {
			continue
		}
		assert.Same(t, v, self)
	}
}

func TestEqualityStructuralForPrimitives(t *testing.T) {
	h := NewHeap()
	assert.True(t, Equal(h.MakeNumber(5), h.MakeNumber(5)))
	assert.False(t, Equal(h.MakeNumber(5), h.MakeNumber(6)))
	assert.True(t, Equal(h.MakeString("a"), h.MakeString("a")))
	assert.True(t, Equal(h.MakeBoolean(true), h.MakeBoolean(true)))
	assert.True(t, Equal(h.MakeDone(), h.MakeDone()))
}

func TestEqualityIdentityForObjectsAndScopes(t *testing.T) {
	h := NewHeap()
	a := h.MakeUserObject()
	b := h.MakeUserObject()
	assert.False(t, Equal(a, b), "distinct objects must not be equal even with identical empty state")
	assert.True(t, Equal(a, a))
}

func TestImmutablePrimitivesNativesDoNotMutateReceiver(t *testing.T) {
	h := NewHeap()
	five := h.MakeNumber(5)
	def, err := LookupMethod(five, "+(_)")
	assert.NoError(t, err)
	result, err := def.Native(five, []*Value{h.MakeNumber(3)})
	assert.NoError(t, err)
	assert.Equal(t, 8.0, result.Num)
	assert.Equal(t, 5.0, five.Num, "receiver must be unchanged after a native call")
}

func TestFieldAndMethodMaps(t *testing.T) {
	h := NewHeap()
	obj := h.MakeUserObject()
	assert.False(t, obj.HasField("x"))
	obj.SetField("x", h.MakeNumber(1))
	assert.True(t, obj.HasField("x"))

	v, err := obj.GetField("x")
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v.Num)

	_, err = obj.GetField("missing")
	assert.Error(t, err)
	var notFound *UndefinedFieldError
	assert.ErrorAs(t, err, &notFound)
}

func TestConstantMarking(t *testing.T) {
	h := NewHeap()
	scope := h.MakeScope(nil)
	scope.SetField("pi", h.MakeNumber(3))
	assert.False(t, scope.IsConstant("pi"))
	scope.MarkConstant("pi")
	assert.True(t, scope.IsConstant("pi"))
}
