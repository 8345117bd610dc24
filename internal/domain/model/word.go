// Package model contains domain models passed between layers.
package model

// WordRecord is a candidate word pair plus its rotation metadata.
// Records are provisioned out-of-band; only the allocator's commit step
// mutates ActiveDate, LastUsedDate and TimesUsed.
type WordRecord struct {
	ID            string  `json:"id" bson:"_id"`
	WordPrimary   string  `json:"word_primary" bson:"word_primary"`
	WordSecondary string  `json:"word_secondary" bson:"word_secondary"`
	ActiveDate    *string `json:"active_date,omitempty" bson:"active_date"`
	TimesUsed     int     `json:"times_used" bson:"times_used"`
	LastUsedDate  *string `json:"last_used_date,omitempty" bson:"last_used_date"`
}

// IsActiveOn reports whether the record is the live word for date.
func (r WordRecord) IsActiveOn(date string) bool {
	return r.ActiveDate != nil && *r.ActiveDate == date
}

// Result snapshots the record as the word for date.
func (r WordRecord) Result(date string) DailyWord {
	return DailyWord{
		WordPrimary:   r.WordPrimary,
		WordSecondary: r.WordSecondary,
		ActiveDate:    date,
	}
}

// DailyWord is the value handed back to callers. It is a plain value type
// and is never mutated after construction.
type DailyWord struct {
	WordPrimary   string `json:"word_primary"`
	WordSecondary string `json:"word_secondary"`
	ActiveDate    string `json:"active_date"`
}

// Date returns a pointer to a copy of d, for the optional date fields.
func Date(d string) *string {
	return &d
}
