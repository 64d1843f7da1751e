package domain

// TypeTag is the data type carried by a port, compared by equality only.
type TypeTag string

// Wildcard denotes "no concrete type inferred yet".
const Wildcard TypeTag = "*"

// IsWildcard reports whether t is the wildcard tag.
// An empty tag is treated as wildcard, matching how editors serialize untyped slots.
func (t TypeTag) IsWildcard() bool {
	return t == Wildcard || t == ""
}

// OrWildcard returns t, or Wildcard when t is empty.
func (t TypeTag) OrWildcard() TypeTag {
	if t == "" {
		return Wildcard
	}
	return t
}

func (t TypeTag) String() string {
	return string(t)
}
