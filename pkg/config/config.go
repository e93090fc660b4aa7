package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"retroport/internal/util"
)

// DefaultPath is the configuration file used when none is given on the command line
const DefaultPath = "config.yaml"

// MaxSettings bounds the number of entries a store accepts
const MaxSettings = 256 * 8

// ErrUnknownKey is returned when a key has never been registered or loaded
var ErrUnknownKey = errors.New("unknown config key")

// ErrTooManySettings is returned when the store is full
var ErrTooManySettings = errors.New("too many config settings")

// EntryType identifies the Go type an entry is bound to
type EntryType int

const (
	TypeNone EntryType = iota
	TypeInt
	TypeFloat
	TypeUInt
	TypeString
	TypeU8
	TypeBool
)

type entry struct {
	key     string
	section string
	name    string
	typ     EntryType
	ptr     interface{}

	minInt, maxInt     int64
	minUInt, maxUInt   uint64
	minFloat, maxFloat float64
	maxStr             int

	// raw holds values for keys nothing has bound yet, so they survive a save
	raw interface{}
}

// Store is a registry of typed settings addressed by dotted keys ("Section.Key").
// Keys are matched case-insensitively. Variables are bound by pointer, so a
// load writes straight into the owner's fields.
type Store struct {
	entries []*entry
	index   map[string]*entry

	// errs collects registration failures, see Err
	errs []error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{index: make(map[string]*entry)}
}

func splitKey(key string) (section, name string) {
	if i := strings.LastIndexByte(key, '.'); i > 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

func (s *Store) find(key string) *entry {
	return s.index[strings.ToLower(key)]
}

func (s *Store) findOrAdd(key string) (*entry, error) {
	if e := s.find(key); e != nil {
		return e, nil
	}
	if len(s.entries) >= MaxSettings {
		return nil, fmt.Errorf("%w: %s", ErrTooManySettings, key)
	}
	section, name := splitKey(key)
	e := &entry{key: key, section: section, name: name}
	s.entries = append(s.entries, e)
	s.index[strings.ToLower(key)] = e
	return e, nil
}

// bind attaches a variable to key. A value loaded before registration is applied right away.
func (s *Store) bind(key string, typ EntryType, ptr interface{}, setup func(e *entry)) {
	e, err := s.findOrAdd(key)
	if err != nil {
		s.errs = append(s.errs, err)
		return
	}
	pending := e.raw
	e.typ = typ
	e.ptr = ptr
	e.raw = nil
	setup(e)
	if pending != nil {
		_ = e.set(fmt.Sprint(pending))
	}
}

// RegisterInt binds a signed integer variable with an inclusive range
func (s *Store) RegisterInt(key string, v *int32, min, max int32) {
	s.bind(key, TypeInt, v, func(e *entry) { e.minInt, e.maxInt = int64(min), int64(max) })
}

// RegisterUInt binds an unsigned integer variable with an inclusive range
func (s *Store) RegisterUInt(key string, v *uint32, min, max uint32) {
	s.bind(key, TypeUInt, v, func(e *entry) { e.minUInt, e.maxUInt = uint64(min), uint64(max) })
}

// RegisterU8 binds a byte variable with an inclusive range
func (s *Store) RegisterU8(key string, v *uint8, min, max uint8) {
	s.bind(key, TypeU8, v, func(e *entry) { e.minUInt, e.maxUInt = uint64(min), uint64(max) })
}

// RegisterFloat binds a float variable with an inclusive range
func (s *Store) RegisterFloat(key string, v *float32, min, max float32) {
	s.bind(key, TypeFloat, v, func(e *entry) { e.minFloat, e.maxFloat = float64(min), float64(max) })
}

// RegisterString binds a string variable. maxLen of 0 means unlimited.
func (s *Store) RegisterString(key string, v *string, maxLen int) {
	s.bind(key, TypeString, v, func(e *entry) { e.maxStr = maxLen })
}

// RegisterBool binds a flag persisted as 0/1
func (s *Store) RegisterBool(key string, v *bool) {
	s.bind(key, TypeBool, v, func(e *entry) {})
}

// Set parses value and stores it into key, clamping to the registered range.
// Unbound keys keep the raw text until something registers them.
func (s *Store) Set(key, value string) error {
	e, err := s.findOrAdd(key)
	if err != nil {
		return err
	}
	return e.set(value)
}

// Get returns the textual form of key's current value
func (s *Store) Get(key string) (string, error) {
	e := s.find(key)
	if e == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return e.String(), nil
}

// Type reports the bound type of key, TypeNone for loaded-but-unbound keys
func (s *Store) Type(key string) (EntryType, error) {
	e := s.find(key)
	if e == nil {
		return TypeNone, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return e.typ, nil
}

// Keys lists every known key in registration order
func (s *Store) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

// Err reports the registrations that failed. The variables behind them keep
// their defaults and are never loaded or saved.
func (s *Store) Err() error {
	return errors.Join(s.errs...)
}

// Len returns the number of known keys
func (s *Store) Len() int {
	return len(s.entries)
}

func (e *entry) set(value string) error {
	value = strings.TrimSpace(value)

	switch e.typ {
	case TypeNone:
		e.raw = value
	case TypeInt:
		n, err := parseInt(value)
		if err != nil {
			return fmt.Errorf("config %s: %w", e.key, err)
		}
		n = util.ClampIfRanged(n, e.minInt, e.maxInt)
		*e.ptr.(*int32) = int32(util.Clamp(n, math.MinInt32, math.MaxInt32))
	case TypeUInt, TypeU8:
		n, err := parseInt(value)
		if err != nil {
			return fmt.Errorf("config %s: %w", e.key, err)
		}
		if n < 0 {
			n = 0
		}
		u := util.ClampIfRanged(uint64(n), e.minUInt, e.maxUInt)
		if e.typ == TypeU8 {
			*e.ptr.(*uint8) = uint8(util.Clamp(u, 0, math.MaxUint8))
		} else {
			*e.ptr.(*uint32) = uint32(util.Clamp(u, 0, math.MaxUint32))
		}
	case TypeFloat:
		f, err := strconv.ParseFloat(value, 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return fmt.Errorf("config %s: %w", e.key, err)
		}
		*e.ptr.(*float32) = float32(util.ClampIfRanged(f, e.minFloat, e.maxFloat))
	case TypeString:
		if e.maxStr > 0 && len(value) > e.maxStr-1 {
			value = value[:e.maxStr-1]
		}
		*e.ptr.(*string) = value
	case TypeBool:
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("config %s: %w", e.key, err)
		}
		*e.ptr.(*bool) = b
	}
	return nil
}

// clamp re-applies the registered range to the bound variable before it is written out
func (e *entry) clamp() {
	switch e.typ {
	case TypeInt:
		p := e.ptr.(*int32)
		*p = int32(util.ClampIfRanged(int64(*p), e.minInt, e.maxInt))
	case TypeUInt:
		p := e.ptr.(*uint32)
		*p = uint32(util.ClampIfRanged(uint64(*p), e.minUInt, e.maxUInt))
	case TypeU8:
		p := e.ptr.(*uint8)
		*p = uint8(util.ClampIfRanged(uint64(*p), e.minUInt, e.maxUInt))
	case TypeFloat:
		p := e.ptr.(*float32)
		*p = float32(util.ClampIfRanged(float64(*p), e.minFloat, e.maxFloat))
	}
}

// value returns the entry in the form it is persisted
func (e *entry) value() interface{} {
	switch e.typ {
	case TypeInt:
		return int(*e.ptr.(*int32))
	case TypeUInt:
		return uint(*e.ptr.(*uint32))
	case TypeU8:
		return uint(*e.ptr.(*uint8))
	case TypeFloat:
		return float64(*e.ptr.(*float32))
	case TypeString:
		return *e.ptr.(*string)
	case TypeBool:
		return int(util.BoolToInt(*e.ptr.(*bool)))
	default:
		return e.raw
	}
}

func (e *entry) String() string {
	v := e.value()
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// parseInt accepts decimal, 0x/0o/0b prefixed and float-looking integers.
// Out of range values saturate at the int64 bounds.
func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); (err == nil || errors.Is(err, strconv.ErrRange)) && !math.IsNaN(f) {
		return saturateInt64(f), nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return int64(util.BoolToInt(b)), nil
	}
	return 0, fmt.Errorf("invalid integer %q", s)
}

func saturateInt64(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func parseBool(s string) (bool, error) {
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	n, err := parseInt(s)
	if err != nil {
		return false, fmt.Errorf("invalid flag %q", s)
	}
	return n != 0, nil
}
