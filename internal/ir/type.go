// Copyright 2025 The ffigen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

// TypeKind is the tagged-union discriminant for a Type node (spec.md §3).
type TypeKind int

const (
	Void TypeKind = iota
	NullPtr
	Int
	Float
	Complex
	Pointer
	Reference
	Array
	Function
	Enum
	Comp
	Alias
	TemplateAlias
	TemplateInstantiation
	TypeParam
	Opaque
	ObjCId
	ObjCSel
	ObjCInterface
	BlockPointer
	ResolvedTypeRef
	UnresolvedTypeRef
)

// IntKind enumerates the abstract C/C++ integer kinds (spec.md §4.2).
type IntKind int

const (
	IntChar IntKind = iota
	IntSChar
	IntUChar
	IntShort
	IntUShort
	IntInt
	IntUInt
	IntLong
	IntULong
	IntLongLong
	IntULongLong
	IntBool
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	I128
	U128
)

// FloatKind enumerates the floating-point kinds.
type FloatKind int

const (
	F32 FloatKind = iota
	F64
	LongDouble
)

// Type is the payload of a KindType item (spec.md §3's Type entity). Only
// the fields relevant to Kind are populated; the rest are zero.
type Type struct {
	Kind     TypeKind
	IsConst  bool
	IsOpaque bool
	Layout   *Layout

	// Int / Float.
	IntKind   IntKind
	FloatKind FloatKind

	// Complex: the underlying float kind.
	ComplexOf FloatKind

	// Pointer / Reference / Array / Alias / TemplateAlias / Complex: the
	// pointee/element/aliased type.
	Inner ItemId

	// Array: element count.
	ArrayLen int64

	// Function: the call signature.
	Sig *FunctionSig

	// Enum: the enum item (KindType, Kind==Enum, with EnumInfo populated)
	// resolves via the Item itself; EnumInfo lives alongside Type for
	// Kind==Enum nodes.
	EnumInfo *EnumInfo

	// Comp: struct/union/class details, for Kind==Comp nodes.
	CompInfo *CompInfo

	// TemplateAlias: the declared parameter list (each a TypeParam item).
	TemplateParams []ItemId

	// TemplateInstantiation: the generic definition and the arguments it was
	// instantiated with.
	TemplateDef  ItemId
	TemplateArgs []ItemId

	// TypeParam: this parameter's position in its owner's parameter list.
	ParamIndex int

	// ObjCInterface: interface details, for Kind==ObjCInterface nodes.
	ObjCInterface *ObjCInterfaceInfo
}

// CompKind distinguishes a struct/class from a union.
type CompKind int

const (
	CompStruct CompKind = iota
	CompUnion
)

// Base is one entry of a composite's (ordered) base class list.
type Base struct {
	Ty        ItemId
	IsVirtual bool
	// IsUnsized marks an empty base class eligible for the empty base
	// optimization (it contributes zero bytes to the derived layout).
	IsUnsized bool
}

// Method is a member function: either an ordinary method, a constructor, or
// a destructor, as selected by its owning list in CompInfo.
type Method struct {
	Name      string
	Sig       FunctionSig
	IsConst   bool
	IsStatic  bool
	IsVirtual bool
}

// CompInfo is the payload of a Comp-kind Type (spec.md §3).
type CompInfo struct {
	Kind   CompKind
	Packed bool

	BaseMembers []Base
	Fields      []Field

	Methods      []Method
	Constructors []Method
	Destructor   *Method

	InnerTypes []ItemId
	InnerVars  []ItemId

	FoundUnknownAttr         bool
	HasNonTypeTemplateParams bool
	IsForwardDeclaration     bool

	// TemplateParams used by this definition's body (the subset later
	// appended by the Type Renderer's "implicit template parameters" rule).
	TemplateParams []ItemId
	UsedTemplate   []int
}

// FieldKind distinguishes a plain data member from a bitfield storage unit.
type FieldKind int

const (
	DataMember FieldKind = iota
	BitfieldUnit
)

// BitfieldInfo locates one bitfield within its containing unit
// (spec.md §3: "offset_in_unit, width, mask").
type BitfieldInfo struct {
	OffsetInUnit int
	Width        int
	Mask         uint64
}

// Field is one entry of a composite's ordered field list. When Kind is
// DataMember it describes a single field (which, if Bitfield is non-nil, is
// itself one bitfield inside an enclosing BitfieldUnit entry). When Kind is
// BitfieldUnit it describes the storage for a packed run of bitfields,
// listed in Bitfields.
type Field struct {
	Kind FieldKind

	// DataMember.
	Name        string // empty for an anonymous field
	Ty          ItemId
	OffsetBits  *int64
	Comment     string
	Annotations Annotations
	Bitfield    *BitfieldInfo

	// BitfieldUnit.
	UnitLayout Layout
	Nth        int
	Bitfields  []Field
}

// EnumInfo is the payload of an Enum-kind Type (spec.md §3).
type EnumInfo struct {
	Repr     *ItemId // an Int-kind type item, if the repr was explicit
	Variants []Variant
}

// Variant is one enumerator.
type Variant struct {
	Name                string
	Value               int64
	Unsigned            bool
	Hidden              bool
	ForceConstification bool
}

// VarData is the payload of a KindVar item.
type VarData struct {
	Ty          ItemId
	Value       *VarValue
	MangledName string
}

// VarValueKind discriminates the constant-value union carried by a Var.
type VarValueKind int

const (
	ValBool VarValueKind = iota
	ValInt
	ValFloat
	ValChar
	ValString
)

// VarValue is a compile-time constant value attached to a Var.
type VarValue struct {
	Kind   VarValueKind
	Bool   bool
	Int    int64
	Float  float64
	Char   rune
	String []byte
}

// FunctionSig is a C/C++ call signature (spec.md §3).
type FunctionSig struct {
	ReturnType ItemId
	Arguments  []Argument
	ABI        string
	IsVariadic bool
}

// Argument is one parameter of a FunctionSig.
type Argument struct {
	Name string // empty if unnamed
	Ty   ItemId
}

// ObjCInterfaceInfo is the payload of an ObjCInterface-kind Type.
type ObjCInterfaceInfo struct {
	InstanceMethods []ObjCMethod
	ClassMethods    []ObjCMethod
}

// ObjCMethod is one Objective-C method declaration.
type ObjCMethod struct {
	Selector string
	Sig      FunctionSig
	IsClass  bool
}
