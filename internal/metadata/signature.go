package metadata

import (
	"errors"
	"fmt"
)

// Element types of ECMA-335 II.23.1.16.
const (
	elementVoid        = 0x01
	elementBoolean     = 0x02
	elementChar        = 0x03
	elementI1          = 0x04
	elementU1          = 0x05
	elementI2          = 0x06
	elementU2          = 0x07
	elementI4          = 0x08
	elementU4          = 0x09
	elementI8          = 0x0a
	elementU8          = 0x0b
	elementR4          = 0x0c
	elementR8          = 0x0d
	elementString      = 0x0e
	elementPtr         = 0x0f
	elementByRef       = 0x10
	elementValueType   = 0x11
	elementClass       = 0x12
	elementVar         = 0x13
	elementArray       = 0x14
	elementGenericInst = 0x15
	elementTypedByRef  = 0x16
	elementI           = 0x18
	elementU           = 0x19
	elementFnPtr       = 0x1b
	elementObject      = 0x1c
	elementSzArray     = 0x1d
	elementMVar        = 0x1e
	elementCModReqd    = 0x1f
	elementCModOpt     = 0x20
	elementSentinel    = 0x41
	elementPinned      = 0x45
)

const (
	callingConvGeneric = 0x10
)

// The map of built-in element types to their System type names
var builtInElementTypes = map[byte]string{
	elementVoid:       "Void",
	elementBoolean:    "Boolean",
	elementChar:       "Char",
	elementI1:         "SByte",
	elementU1:         "Byte",
	elementI2:         "Int16",
	elementU2:         "UInt16",
	elementI4:         "Int32",
	elementU4:         "UInt32",
	elementI8:         "Int64",
	elementU8:         "UInt64",
	elementR4:         "Single",
	elementR8:         "Double",
	elementString:     "String",
	elementTypedByRef: "TypedReference",
	elementI:          "IntPtr",
	elementU:          "UIntPtr",
	elementObject:     "Object",
}

var errTruncatedSignature = errors.New("truncated signature blob")

// tokenResolver turns a TypeDefOrRefOrSpec coded token into a type. The row is
// 1-based as stored in the blob.
type tokenResolver func(tag uint32, row uint32) (*Type, error)

type methodSignature struct {
	GenericCount int
	ReturnType   *Type
	Params       []*Type
}

// sigReader decodes signature blobs. typeParams and methodParams resolve VAR and
// MVAR references for the signature's context.
type sigReader struct {
	data         []byte
	pos          int
	resolve      tokenResolver
	builtIn      func(name string) *Type
	typeParams   []*Type
	methodParams []*Type
}

func (r *sigReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errTruncatedSignature
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// readCompressed decodes an unsigned compressed integer (II.23.2).
func (r *sigReader) readCompressed() (uint32, error) {
	first, err := r.readByte()
	if err != nil {
		return 0, err
	}

	switch {
	case first&0x80 == 0:
		return uint32(first), nil
	case first&0xc0 == 0x80:
		second, err := r.readByte()
		if err != nil {
			return 0, err
		}
		return uint32(first&0x3f)<<8 | uint32(second), nil
	case first&0xe0 == 0xc0:
		if r.pos+3 > len(r.data) {
			return 0, errTruncatedSignature
		}
		value := uint32(first&0x1f)<<24 | uint32(r.data[r.pos])<<16 | uint32(r.data[r.pos+1])<<8 | uint32(r.data[r.pos+2])
		r.pos += 3
		return value, nil
	default:
		return 0, fmt.Errorf("invalid compressed integer prefix 0x%02x", first)
	}
}

func (r *sigReader) readToken() (*Type, error) {
	value, err := r.readCompressed()
	if err != nil {
		return nil, err
	}
	return r.resolve(value&0x3, value>>2)
}

func (r *sigReader) peek() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	return r.data[r.pos], true
}

func (r *sigReader) skipCustomModifiers() error {
	for {
		next, ok := r.peek()
		if !ok || (next != elementCModOpt && next != elementCModReqd) {
			return nil
		}
		r.pos++
		if _, err := r.readCompressed(); err != nil {
			return err
		}
	}
}

func (r *sigReader) readType() (*Type, error) {
	kind, err := r.readByte()
	if err != nil {
		return nil, err
	}

	if name, found := builtInElementTypes[kind]; found {
		return r.builtIn(name), nil
	}

	switch kind {
	case elementPtr:
		inner, err := r.readType()
		if err != nil {
			return nil, err
		}
		return NewPointerType(inner), nil

	case elementByRef:
		inner, err := r.readType()
		if err != nil {
			return nil, err
		}
		return NewByRefType(inner), nil

	case elementValueType, elementClass:
		return r.readToken()

	case elementVar, elementMVar:
		number, err := r.readCompressed()
		if err != nil {
			return nil, err
		}
		if kind == elementVar {
			return genericParameterAt(r.typeParams, OwnerType, int(number)), nil
		}
		return genericParameterAt(r.methodParams, OwnerMethod, int(number)), nil

	case elementSzArray:
		if err := r.skipCustomModifiers(); err != nil {
			return nil, err
		}
		inner, err := r.readType()
		if err != nil {
			return nil, err
		}
		return NewArrayType(inner, 1), nil

	case elementArray:
		return r.readArrayShape()

	case elementGenericInst:
		if _, err := r.readByte(); err != nil {
			return nil, err
		}
		definition, err := r.readToken()
		if err != nil {
			return nil, err
		}
		count, err := r.readCompressed()
		if err != nil {
			return nil, err
		}
		args := make([]*Type, 0, count)
		for i := uint32(0); i < count; i++ {
			arg, err := r.readType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return NewGenericInstance(definition, args...), nil

	case elementFnPtr:
		if _, err := r.readMethodSignature(); err != nil {
			return nil, err
		}
		return r.builtIn("IntPtr"), nil

	case elementCModReqd, elementCModOpt:
		if _, err := r.readCompressed(); err != nil {
			return nil, err
		}
		return r.readType()

	case elementPinned, elementSentinel:
		return r.readType()
	}

	return nil, fmt.Errorf("unsupported element type 0x%02x at offset %d", kind, r.pos-1)
}

func (r *sigReader) readArrayShape() (*Type, error) {
	inner, err := r.readType()
	if err != nil {
		return nil, err
	}
	rank, err := r.readCompressed()
	if err != nil {
		return nil, err
	}
	// Sizes and lower bounds share the compressed length encoding.
	for range 2 {
		count, err := r.readCompressed()
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < count; i++ {
			if _, err := r.readCompressed(); err != nil {
				return nil, err
			}
		}
	}
	return NewArrayType(inner, int(rank)), nil
}

func (r *sigReader) readMethodSignature() (methodSignature, error) {
	var sig methodSignature

	convention, err := r.readByte()
	if err != nil {
		return sig, err
	}
	if convention&callingConvGeneric != 0 {
		count, err := r.readCompressed()
		if err != nil {
			return sig, err
		}
		sig.GenericCount = int(count)
	}

	count, err := r.readCompressed()
	if err != nil {
		return sig, err
	}

	if err := r.skipCustomModifiers(); err != nil {
		return sig, err
	}
	if sig.ReturnType, err = r.readType(); err != nil {
		return sig, fmt.Errorf("return type: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		if next, ok := r.peek(); ok && next == elementSentinel {
			r.pos++
		}
		if err := r.skipCustomModifiers(); err != nil {
			return sig, err
		}
		param, err := r.readType()
		if err != nil {
			return sig, fmt.Errorf("parameter %d: %w", i, err)
		}
		sig.Params = append(sig.Params, param)
	}

	return sig, nil
}

// readPropertySignature returns the property type and the indexer parameter types.
func (r *sigReader) readPropertySignature() (*Type, []*Type, error) {
	if _, err := r.readByte(); err != nil {
		return nil, nil, err
	}
	count, err := r.readCompressed()
	if err != nil {
		return nil, nil, err
	}
	if err := r.skipCustomModifiers(); err != nil {
		return nil, nil, err
	}
	propertyType, err := r.readType()
	if err != nil {
		return nil, nil, err
	}

	params := make([]*Type, 0, count)
	for i := uint32(0); i < count; i++ {
		if err := r.skipCustomModifiers(); err != nil {
			return nil, nil, err
		}
		param, err := r.readType()
		if err != nil {
			return nil, nil, err
		}
		params = append(params, param)
	}

	return propertyType, params, nil
}

func genericParameterAt(params []*Type, owner GenericOwner, position int) *Type {
	if position < len(params) {
		return params[position]
	}
	prefix := "T"
	if owner == OwnerMethod {
		prefix = "M"
	}
	return NewGenericParameter(fmt.Sprintf("%s%d", prefix, position), owner, position)
}
