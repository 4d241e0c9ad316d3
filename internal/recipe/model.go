package recipe

import (
	"encoding/json"
	"strconv"
	"time"
)

// Source values a recipe can be tagged with.
const (
	SourceManual = "manual"
	SourceGemini = "ai_gemini"
	SourceOpenAI = "ai_openai"
	SourceClaude = "ai_claude"
)

// Difficulty values.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidSource reports whether s is one of the known source tags.
func ValidSource(s string) bool {
	switch s {
	case SourceManual, SourceGemini, SourceOpenAI, SourceClaude:
		return true
	}
	return false
}

// ValidDifficulty reports whether s is one of the known difficulty tags.
func ValidDifficulty(s string) bool {
	switch s {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ID identifies a stored recipe. The JSON file backend assigns sequential
// positive integers and the document backend uses the store's native object
// ids, so an ID is either numeric or a string and marshals to a JSON number
// or a JSON string accordingly.
type ID struct {
	num int64
	str string
}

// NumericID returns an ID holding a file-backend integer id.
func NumericID(n int64) ID { return ID{num: n} }

// StringID returns an ID holding a document-backend object id.
func StringID(s string) ID { return ID{str: s} }

// Int64 returns the numeric form of the id, or 0 for string ids.
func (id ID) Int64() int64 { return id.num }

// String returns the id in the form it appears on the wire.
func (id ID) String() string {
	if id.str != "" {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

// MarshalJSON implements the json.Marshaler interface for ID.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.str != "" {
		return json.Marshal(id.str)
	}
	return json.Marshal(id.num)
}

// UnmarshalJSON implements the json.Unmarshaler interface for ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &id.str)
	}
	return json.Unmarshal(data, &id.num)
}

// Recipe is the persisted entity.
type Recipe struct {
	ID            ID        `json:"id"`
	Title         string    `json:"title"`
	Instructions  string    `json:"instructions"`
	Ingredients   string    `json:"ingredients"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	Source        string    `json:"source"`
	Tags          []string  `json:"tags"`
	Difficulty    string    `json:"difficulty"`
	PrepTime      int       `json:"prep_time"`
	CookTime      int       `json:"cook_time"`
	Servings      int       `json:"servings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Draft is the normalized field set for a create. The controller owns
// trimming and coercion; a Draft is assumed to already be in shape.
type Draft struct {
	Title         string
	Instructions  string
	Ingredients   string
	IsAIGenerated bool
	Source        string
	Tags          []string
	Difficulty    string
	PrepTime      int
	CookTime      int
	Servings      int
}

// Update is the merge set for a PUT. Title, Instructions and Ingredients are
// always written (the controller requires the first two on every update);
// the remaining fields are applied only when present in the request payload.
type Update struct {
	Title         string
	Instructions  string
	Ingredients   string
	IsAIGenerated *bool
	Source        *string
	Tags          []string
	Difficulty    *string
	PrepTime      *int
	CookTime      *int
	Servings      *int
}

// Apply merges the update onto r. Fields absent from the update keep their
// current values; id and created_at are never touched.
func (u *Update) Apply(r *Recipe) {
	r.Title = u.Title
	r.Instructions = u.Instructions
	r.Ingredients = u.Ingredients
	if u.IsAIGenerated != nil {
		r.IsAIGenerated = *u.IsAIGenerated
	}
	if u.Source != nil {
		r.Source = *u.Source
	}
	if u.Tags != nil {
		r.Tags = u.Tags
	}
	if u.Difficulty != nil {
		r.Difficulty = *u.Difficulty
	}
	if u.PrepTime != nil {
		r.PrepTime = *u.PrepTime
	}
	if u.CookTime != nil {
		r.CookTime = *u.CookTime
	}
	if u.Servings != nil {
		r.Servings = *u.Servings
	}
}
