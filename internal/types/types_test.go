package types

import "testing"

func TestPrimitiveEquals(t *testing.T) {
	if !Int.Equals(Int) {
		t.Error("Int should equal itself")
	}
	if Int.Equals(Float) {
		t.Error("Int should not equal Float")
	}
}

func TestArrayTypeEquals(t *testing.T) {
	a := &ArrayType{Element: Int}
	b := &ArrayType{Element: Int}
	c := &ArrayType{Element: String}
	if !a.Equals(b) {
		t.Error("arrays of the same element type should be equal")
	}
	if a.Equals(c) {
		t.Error("arrays of different element types should not be equal")
	}
}

func TestStructTypeWithGenericsEquals(t *testing.T) {
	box1 := &StructType{TypeName: "Box", TypeArgs: []Type{Int}}
	box2 := &StructType{TypeName: "Box", TypeArgs: []Type{Int}}
	box3 := &StructType{TypeName: "Box", TypeArgs: []Type{String}}
	if !box1.Equals(box2) {
		t.Error("Box[Int] should equal Box[Int]")
	}
	if box1.Equals(box3) {
		t.Error("Box[Int] should not equal Box[String]")
	}
}

func TestOptionAssignableFromNil(t *testing.T) {
	opt := &OptionType{Element: Int}
	if !AssignableTo(Nil, opt) {
		t.Error("Nil should be assignable to Option[Int]")
	}
}

func TestUnionContainsAndAssignable(t *testing.T) {
	u := &UnionType{Members: []Type{Int, String}}
	if !u.Contains(Int) {
		t.Error("union should contain Int")
	}
	if u.Contains(Bool) {
		t.Error("union should not contain Bool")
	}
	if !AssignableTo(String, u) {
		t.Error("String should be assignable to Int | String")
	}
}

func TestSubstituteTypeParam(t *testing.T) {
	listT := &ArrayType{Element: &TypeParam{ParamName: "T"}}
	concrete := Substitute(listT, map[string]Type{"T": Int})
	arr, ok := concrete.(*ArrayType)
	if !ok {
		t.Fatalf("expected *ArrayType, got %T", concrete)
	}
	if !arr.Element.Equals(Int) {
		t.Errorf("expected element Int, got %s", arr.Element.Name())
	}
}

func TestMonomorphKeyDistinguishesTypeArgs(t *testing.T) {
	k1 := MonomorphKey("first", []Type{Int})
	k2 := MonomorphKey("first", []Type{String})
	if k1 == k2 {
		t.Error("different type args should produce different monomorphization keys")
	}
}

func TestEnumVariantByName(t *testing.T) {
	shape := &EnumType{
		TypeName: "Shape",
		Variants: []EnumVariant{
			{Name: "Circle", Tag: 0, Fields: []Type{Float}},
			{Name: "Square", Tag: 1, Fields: []Type{Float}},
		},
	}
	v, ok := shape.VariantByName("Circle")
	if !ok || v.Tag != 0 {
		t.Fatalf("expected Circle variant with tag 0, got %+v ok=%v", v, ok)
	}
	if _, ok := shape.VariantByName("Triangle"); ok {
		t.Error("Triangle should not be a variant of Shape")
	}
}
