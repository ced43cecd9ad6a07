package console

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type FieldKind int

const (
	TextField FieldKind = iota
	NumberField
	UUIDField
)

// Field declares one filter input and the query parameter it maps to.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind
}

// AdminFields are the filters of the review table.
var AdminFields = []Field{
	{Key: "id", Label: "ID", Kind: NumberField},
	{Key: "name", Label: "Name", Kind: TextField},
	{Key: "genre", Label: "Genre", Kind: NumberField},
	{Key: "created_by", Label: "Created by", Kind: UUIDField},
	{Key: "language", Label: "Language", Kind: NumberField},
}

// PublicFields are the filters of the public lyrics page.
var PublicFields = []Field{
	{Key: "search", Label: "Search", Kind: TextField},
	{Key: "language", Label: "Language", Kind: NumberField},
}

// FilterForm holds the values of a declared set of fields.
type FilterForm struct {
	fields []Field
	values map[string]string
}

func NewFilterForm(fields []Field) *FilterForm {
	return &FilterForm{fields: fields, values: make(map[string]string)}
}

func (f *FilterForm) Fields() []Field {
	return f.fields
}

func (f *FilterForm) field(key string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Key == key {
			return fd, true
		}
	}
	return Field{}, false
}

// Set validates and stores a value. An empty value clears the field.
func (f *FilterForm) Set(key, value string) error {
	fd, ok := f.field(key)
	if !ok {
		return fmt.Errorf("unknown filter %q", key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		delete(f.values, key)
		return nil
	}

	switch fd.Kind {
	case NumberField:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("%s must be a number", fd.Label)
		}
	case UUIDField:
		if _, err := uuid.Parse(value); err != nil {
			return fmt.Errorf("%s must be a UUID", fd.Label)
		}
	}

	f.values[key] = value
	return nil
}

func (f *FilterForm) Get(key string) string {
	return f.values[key]
}

// Query returns the non-empty values as query parameters.
func (f *FilterForm) Query() url.Values {
	q := url.Values{}
	for _, fd := range f.fields {
		if v := f.values[fd.Key]; v != "" {
			q.Set(fd.Key, v)
		}
	}
	return q
}

// Load replaces the values with those found in q. Unknown keys are ignored.
// On a validation error the current values are kept.
func (f *FilterForm) Load(q url.Values) error {
	next := NewFilterForm(f.fields)
	for _, fd := range f.fields {
		if err := next.Set(fd.Key, q.Get(fd.Key)); err != nil {
			return err
		}
	}
	f.values = next.values
	return nil
}

func (f *FilterForm) Reset() {
	f.values = make(map[string]string)
}
