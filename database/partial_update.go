package database

import (
	sq "github.com/Masterminds/squirrel"
)

type patchField struct {
	name  string
	value any
}

// Patch is a sparse set of field updates that remembers insertion order.
type Patch struct {
	fields []patchField
}

// Set records a new value for name. Setting the same name twice keeps its
// original position and replaces the value.
func (p *Patch) Set(name string, value any) {
	for i := range p.fields {
		if p.fields[i].name == name {
			p.fields[i].value = value
			return
		}
	}
	p.fields = append(p.fields, patchField{name: name, value: value})
}

// Len returns the number of fields in the patch.
func (p Patch) Len() int {
	return len(p.fields)
}

// Fields returns the field names in insertion order.
func (p Patch) Fields() []string {
	names := make([]string, len(p.fields))
	for i, f := range p.fields {
		names[i] = f.name
	}
	return names
}

// Values returns the values in insertion order.
func (p Patch) Values() []any {
	values := make([]any, len(p.fields))
	for i, f := range p.fields {
		values[i] = f.value
	}
	return values
}

// SQLForPartialUpdate adds one SET assignment per patch field to ub, in the
// order the fields were set. aliases maps a field name to its column name when
// the two differ. An empty patch is a bad request.
func SQLForPartialUpdate(ub sq.UpdateBuilder, p Patch, aliases map[string]string) (sq.UpdateBuilder, error) {
	if p.Len() == 0 {
		return ub, badRequestf("No data")
	}
	for _, f := range p.fields {
		column := f.name
		if alias, ok := aliases[f.name]; ok {
			column = alias
		}
		ub = ub.Set(column, f.value)
	}
	return ub, nil
}
