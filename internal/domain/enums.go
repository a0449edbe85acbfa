package domain

// Difficulty is the level tag of a vocabulary record. Its string form is the
// literal used in the dataset.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "初級"
	DifficultyIntermediate Difficulty = "中級"
	DifficultyAdvanced     Difficulty = "上級"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Label returns the English name of the level.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyBeginner:
		return "Beginner"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyAdvanced:
		return "Advanced"
	}
	return "Unknown"
}

// ParseDifficulty accepts only the three dataset literals.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(s)
	return d, d.IsValid()
}

// Rating is the learner's self-assessed recall confidence for a card.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingOK    Rating = "ok"
	RatingEasy  Rating = "easy"
)

func (r Rating) String() string { return string(r) }

func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingOK, RatingEasy:
		return true
	}
	return false
}

// ParseRating validates a rating received from a caller.
func ParseRating(s string) (Rating, error) {
	r := Rating(s)
	if !r.IsValid() {
		return "", NewValidationError("rating", "must be one of again, ok, easy")
	}
	return r, nil
}

// Policy selects which progress model drives scheduling.
type Policy string

const (
	// PolicyCounter keeps persisted seen/again/ok/easy counters per word.
	PolicyCounter Policy = "counter"
	// PolicyMastery keeps a session-scoped set of words rated easy.
	PolicyMastery Policy = "mastery"
)

func (p Policy) String() string { return string(p) }

func (p Policy) IsValid() bool {
	return p == PolicyCounter || p == PolicyMastery
}

// FilterMode narrows the pool before scheduling.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterAgainOnly FilterMode = "again"
)

func (f FilterMode) String() string { return string(f) }

func (f FilterMode) IsValid() bool {
	return f == FilterAll || f == FilterAgainOnly
}

// Theme is the persisted colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}
