// Package candidate holds the structured profile accumulated during a screening session.
package candidate

// Field identifies a single scalar field of a Record.
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldExperience Field = "experience"
	FieldPosition   Field = "position"
	FieldLocation   Field = "location"
)

// Fields lists the scalar fields in the order they are collected.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldExperience, FieldPosition, FieldLocation}

// Record is the candidate profile. An empty string means the field is absent.
type Record struct {
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Experience string    `json:"experience,omitempty"`
	Position   string    `json:"position,omitempty"`
	Location   string    `json:"location,omitempty"`
	TechStack  TechStack `json:"techStack,omitempty"`
}

// Get returns the value of the given field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldExperience:
		return r.Experience
	case FieldPosition:
		return r.Position
	case FieldLocation:
		return r.Location
	default:
		return ""
	}
}

// Has reports whether the field is present.
func (r Record) Has(f Field) bool {
	return r.Get(f) != ""
}

// With returns a copy of the record with the field set to value.
func (r Record) With(f Field, value string) Record {
	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldExperience:
		r.Experience = value
	case FieldPosition:
		r.Position = value
	case FieldLocation:
		r.Location = value
	}
	r.TechStack = r.TechStack.Clone()
	return r
}

// Merge fills absent fields of r with the present fields of partial.
// Technologies of partial are appended to the stack, keeping uniqueness.
func (r Record) Merge(partial Record) Record {
	out := r
	out.TechStack = r.TechStack.Clone()
	for _, f := range Fields {
		if !out.Has(f) && partial.Has(f) {
			out = out.With(f, partial.Get(f))
		}
	}
	for _, tech := range partial.TechStack {
		out.TechStack = out.TechStack.Add(tech)
	}
	return out
}

// IsEmpty reports whether no field and no technology is present.
func (r Record) IsEmpty() bool {
	for _, f := range Fields {
		if r.Has(f) {
			return false
		}
	}
	return len(r.TechStack) == 0
}

// Present lists the fields that carry a value, in collection order.
func (r Record) Present() []Field {
	present := make([]Field, 0, len(Fields))
	for _, f := range Fields {
		if r.Has(f) {
			present = append(present, f)
		}
	}
	return present
}
