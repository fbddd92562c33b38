package model

import "time"

// PropertyType is the tag of a PropertyValue. The integer values are fixed
// by the external type system the codec serves and MUST be preserved on the
// wire exactly as listed.
type PropertyType uint8

const (
	TypeString        PropertyType = 1
	TypeBinary        PropertyType = 2
	TypeLong          PropertyType = 3
	TypeDouble        PropertyType = 4
	TypeDate          PropertyType = 5
	TypeBoolean       PropertyType = 6
	TypeName          PropertyType = 7
	TypePath          PropertyType = 8
	TypeReference     PropertyType = 9
	TypeWeakReference PropertyType = 10
	TypeURI           PropertyType = 11
	TypeDecimal       PropertyType = 12
)

// String renders the tag name for diagnostics.
func (t PropertyType) String() string {
	switch t {
	case TypeString:
		return "STRING"
	case TypeBinary:
		return "BINARY"
	case TypeLong:
		return "LONG"
	case TypeDouble:
		return "DOUBLE"
	case TypeDate:
		return "DATE"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeName:
		return "NAME"
	case TypePath:
		return "PATH"
	case TypeReference:
		return "REFERENCE"
	case TypeWeakReference:
		return "WEAKREFERENCE"
	case TypeURI:
		return "URI"
	case TypeDecimal:
		return "DECIMAL"
	default:
		return "UNKNOWN"
	}
}

// BinaryOrigin records which tier currently backs a BINARY value. It is
// informational: PropertyCodec and BinaryPlacer use it to decide how to
// re-place a value that is rewritten, and Inspect surfaces it for
// diagnostics. It is not itself part of the wire format.
type BinaryOrigin uint8

const (
	OriginInline BinaryOrigin = iota
	OriginBlobStore
	OriginDataStore
)

// BinaryValue is the payload of a TypeBinary PropertyValue. Bytes always
// holds the current content (materialized eagerly on read, per the codec's
// write-then-readback safety model); BlobID/ContentID record which external
// store, if any, currently backs it.
type BinaryValue struct {
	Bytes     []byte
	Origin    BinaryOrigin
	BlobID    string
	ContentID string
}

// Decimal is the canonical textual representation of an arbitrary-precision
// decimal. The codec never performs decimal arithmetic, only placement on
// the wire, so a canonical string is sufficient; IsNull distinguishes
// an absent value from the empty string.
type Decimal struct {
	Text   string
	IsNull bool
}

// Date is a calendar instant with an explicit time-zone offset, matching the
// calendar the source system exposes rather than assuming UTC.
type Date struct {
	Year            int32
	DayOfYear       int16 // 1..366
	Hour            uint8 // 0..23
	Minute          uint8 // 0..59
	Second          uint8 // 0..59
	Millisecond     uint16 // 0..999
	TZOffsetMinutes int16
}

// DateFromTime converts a time.Time to the calendar shape DateCodec
// operates on, preserving the instant's own offset rather than normalizing
// to UTC.
func DateFromTime(t time.Time) Date {
	_, offset := t.Zone()

	return Date{
		Year:            int32(t.Year()),
		DayOfYear:       int16(t.YearDay()),
		Hour:            uint8(t.Hour()),
		Minute:          uint8(t.Minute()),
		Second:          uint8(t.Second()),
		Millisecond:     uint16(t.Nanosecond() / 1_000_000),
		TZOffsetMinutes: int16(offset / 60),
	}
}

// Time reconstructs a time.Time from the calendar fields, using a fixed
// zone for the stored offset.
func (d Date) Time() time.Time {
	loc := time.FixedZone("", int(d.TZOffsetMinutes)*60)

	return time.Date(int(d.Year), time.January, 1, int(d.Hour), int(d.Minute), int(d.Second),
		int(d.Millisecond)*1_000_000, loc).AddDate(0, 0, int(d.DayOfYear)-1)
}

// Equal compares two dates field by field.
func (d Date) Equal(other Date) bool {
	return d == other
}

// PropertyValue is a tagged union over the twelve wire value types. Only the
// field matching Tag is meaningful; constructors below keep callers from
// populating the wrong one.
type PropertyValue struct {
	Tag     PropertyType
	Str     string // STRING, PATH, URI
	Binary  BinaryValue
	Long    int64
	Double  float64
	Date    Date
	Bool    bool
	Name    Name
	Ref     NodeID
	Decimal Decimal
}

func NewStringValue(s string) PropertyValue  { return PropertyValue{Tag: TypeString, Str: s} }
func NewPathValue(s string) PropertyValue    { return PropertyValue{Tag: TypePath, Str: s} }
func NewURIValue(s string) PropertyValue     { return PropertyValue{Tag: TypeURI, Str: s} }
func NewLongValue(v int64) PropertyValue     { return PropertyValue{Tag: TypeLong, Long: v} }
func NewDoubleValue(v float64) PropertyValue { return PropertyValue{Tag: TypeDouble, Double: v} }
func NewBooleanValue(v bool) PropertyValue   { return PropertyValue{Tag: TypeBoolean, Bool: v} }
func NewNameValue(n Name) PropertyValue      { return PropertyValue{Tag: TypeName, Name: n} }
func NewDateValue(d Date) PropertyValue      { return PropertyValue{Tag: TypeDate, Date: d} }

func NewReferenceValue(id NodeID) PropertyValue {
	return PropertyValue{Tag: TypeReference, Ref: id}
}

func NewWeakReferenceValue(id NodeID) PropertyValue {
	return PropertyValue{Tag: TypeWeakReference, Ref: id}
}

func NewDecimalValue(canonical string) PropertyValue {
	return PropertyValue{Tag: TypeDecimal, Decimal: Decimal{Text: canonical}}
}

func NewNullDecimalValue() PropertyValue {
	return PropertyValue{Tag: TypeDecimal, Decimal: Decimal{IsNull: true}}
}

func NewBinaryValue(data []byte) PropertyValue {
	return PropertyValue{Tag: TypeBinary, Binary: BinaryValue{Bytes: data, Origin: OriginInline}}
}

// Equal compares two values for the purposes of round-trip testing. For
// BINARY it compares raw bytes, which is only meaningful when both values
// are inline (external references are compared by id, not by fetching
// content).
func (v PropertyValue) Equal(other PropertyValue) bool {
	if v.Tag != other.Tag {
		return false
	}

	switch v.Tag {
	case TypeString, TypePath, TypeURI:
		return v.Str == other.Str
	case TypeBinary:
		if v.Binary.Origin != other.Binary.Origin {
			return false
		}
		switch v.Binary.Origin {
		case OriginBlobStore:
			return v.Binary.BlobID == other.Binary.BlobID
		case OriginDataStore:
			return v.Binary.ContentID == other.Binary.ContentID
		default:
			return string(v.Binary.Bytes) == string(other.Binary.Bytes)
		}
	case TypeLong:
		return v.Long == other.Long
	case TypeDouble:
		return v.Double == other.Double
	case TypeDate:
		return v.Date.Equal(other.Date)
	case TypeBoolean:
		return v.Bool == other.Bool
	case TypeName:
		return v.Name == other.Name
	case TypeReference, TypeWeakReference:
		return v.Ref == other.Ref
	case TypeDecimal:
		return v.Decimal == other.Decimal
	default:
		return false
	}
}
