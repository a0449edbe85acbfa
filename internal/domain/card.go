package domain

// Optional is a dataset cell that may be absent from the row's schema.
// An absent cell is distinct from a present but empty one.
type Optional struct {
	Value string
	Set   bool
}

// Some returns a set Optional holding v.
func Some(v string) Optional { return Optional{Value: v, Set: true} }

// None returns an unset Optional.
func None() Optional { return Optional{} }

// Present reports whether the value is set and non-empty.
func (o Optional) Present() bool { return o.Set && o.Value != "" }

// Or returns the value when present, otherwise fallback.
func (o Optional) Or(fallback string) string {
	if o.Present() {
		return o.Value
	}
	return fallback
}

// VocabRecord is one learnable word card parsed from a dataset row.
// Records are immutable once parsed; a reload replaces the whole set.
type VocabRecord struct {
	Term         string
	Translation  string
	Difficulty   Difficulty
	PartOfSpeech string
	Context      string
	VideoURL     string
	VideoTitle   Optional
	Organization Optional
	Presenter    Optional
}

// Terms returns the terms of records in order.
func Terms(records []VocabRecord) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].Term
	}
	return out
}
