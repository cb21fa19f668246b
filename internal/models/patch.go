package models

// FieldChange is one field-path assignment produced by a patch. Paths use the
// stored (firestore) field names; nested fields are dot-separated.
type FieldChange struct {
	Path  string
	Value any
}

type changeSet []FieldChange

func (c *changeSet) add(path string, value any) {
	*c = append(*c, FieldChange{Path: path, Value: value})
}

// setString records an assignment when the optional field is present.
func setString(c *changeSet, path string, v *string) {
	if v != nil {
		c.add(path, *v)
	}
}

func setBool(c *changeSet, path string, v *bool) {
	if v != nil {
		c.add(path, *v)
	}
}
