package domain

// FieldChange describes one field modified by an update.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Changes accumulates field-level diffs.
type Changes []FieldChange

// Track appends a change when from and to differ.
func (c *Changes) Track(field, from, to string) {
	if from == to {
		return
	}
	*c = append(*c, FieldChange{Field: field, From: from, To: to})
}
