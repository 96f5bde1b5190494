package translate

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CategoryMapping pairs an internal category tag with its public canonical tag.
type CategoryMapping struct {
	Internal string
	Public   string
}

// Table is the fixed data a Translator is built from.
type Table struct {
	MissionPublicPrefix   string
	MissionInternalPrefix string
	MissionPadWidth       int

	UserPublicPrefix   string
	UserInternalPrefix string
	UserPadWidth       int

	// Categories is ordered; PublicCategories returns tags in this order.
	Categories []CategoryMapping

	// Synonyms maps a public alias to a public canonical tag.
	Synonyms map[string]string
}

// DefaultTable returns the production translation table.
func DefaultTable() Table {
	return Table{
		MissionPublicPrefix:   "mission-",
		MissionInternalPrefix: "M",
		MissionPadWidth:       3,
		UserPublicPrefix:      "user-",
		UserInternalPrefix:    "U",
		UserPadWidth:          4,
		Categories: []CategoryMapping{
			{Internal: "Food", Public: "food"},
			{Internal: "Cafe", Public: "cafe"},
			{Internal: "Tourist", Public: "tour"},
			{Internal: "Culture", Public: "culture"},
			{Internal: "Festival", Public: "festival"},
			{Internal: "Walk", Public: "walk"},
			{Internal: "Shopping", Public: "shopping"},
			{Internal: "Self-Dev", Public: "study"},
			{Internal: "Sports", Public: "sports"},
		},
		Synonyms: map[string]string{
			"exercise":   "sports",
			"exhibition": "culture",
		},
	}
}

var (
	ErrEmptyTag         = errors.New("category tag is empty")
	ErrDuplicateTag     = errors.New("duplicate category tag")
	ErrUnknownSynonym   = errors.New("synonym targets unknown public category")
	ErrSynonymCollision = errors.New("synonym collides with a public canonical category")
	ErrInvalidPrefix    = errors.New("identifier prefixes must be non-empty")
)

// Translator maps identifiers and categories between the internal namespace
// (catalog source data, recommendation model) and the public API namespace.
// It is immutable after New and safe for concurrent use.
type Translator struct {
	mission idCodec
	user    idCodec

	internalToPublic map[string]string   // lower(internal) -> public
	publicToInternal map[string]string   // public -> internal
	synonyms         map[string]string   // lower(alias) -> public
	aliases          map[string][]string // public -> sorted aliases
	public           []string
}

// New validates the table and builds a Translator.
func New(t Table) (*Translator, error) {
	if t.MissionPublicPrefix == "" || t.MissionInternalPrefix == "" ||
		t.UserPublicPrefix == "" || t.UserInternalPrefix == "" {
		return nil, ErrInvalidPrefix
	}

	tr := &Translator{
		mission:          idCodec{public: t.MissionPublicPrefix, internal: t.MissionInternalPrefix, width: t.MissionPadWidth},
		user:             idCodec{public: t.UserPublicPrefix, internal: t.UserInternalPrefix, width: t.UserPadWidth},
		internalToPublic: make(map[string]string, len(t.Categories)),
		publicToInternal: make(map[string]string, len(t.Categories)),
		synonyms:         make(map[string]string, len(t.Synonyms)),
		aliases:          make(map[string][]string),
		public:           make([]string, 0, len(t.Categories)),
	}

	for _, c := range t.Categories {
		internal := strings.TrimSpace(c.Internal)
		public := strings.ToLower(strings.TrimSpace(c.Public))
		if internal == "" || public == "" {
			return nil, ErrEmptyTag
		}
		key := strings.ToLower(internal)
		if _, exists := tr.internalToPublic[key]; exists {
			return nil, fmt.Errorf("%w: internal %q", ErrDuplicateTag, internal)
		}
		if _, exists := tr.publicToInternal[public]; exists {
			return nil, fmt.Errorf("%w: public %q", ErrDuplicateTag, public)
		}
		tr.internalToPublic[key] = public
		tr.publicToInternal[public] = internal
		tr.public = append(tr.public, public)
	}

	for alias, target := range t.Synonyms {
		alias = strings.ToLower(strings.TrimSpace(alias))
		target = strings.ToLower(strings.TrimSpace(target))
		if alias == "" || target == "" {
			return nil, ErrEmptyTag
		}
		if _, ok := tr.publicToInternal[target]; !ok {
			return nil, fmt.Errorf("%w: %q -> %q", ErrUnknownSynonym, alias, target)
		}
		if _, ok := tr.publicToInternal[alias]; ok {
			return nil, fmt.Errorf("%w: %q", ErrSynonymCollision, alias)
		}
		tr.synonyms[alias] = target
		tr.aliases[target] = append(tr.aliases[target], alias)
	}
	for _, list := range tr.aliases {
		sort.Strings(list)
	}

	return tr, nil
}

// MustDefault builds a Translator from DefaultTable and panics if it is invalid.
func MustDefault() *Translator {
	tr, err := New(DefaultTable())
	if err != nil {
		panic(fmt.Sprintf("translate: default table: %v", err))
	}
	return tr
}

// ToPublicID converts an internal mission id (M001) to its public form (mission-1).
// A value already in public form is canonicalized.
func (t *Translator) ToPublicID(internalID string) (string, bool) {
	return t.mission.toPublic(internalID)
}

// ToInternalID converts a public mission id (mission-1) to its internal form (M001).
// A value already in internal form is canonicalized.
func (t *Translator) ToInternalID(publicID string) (string, bool) {
	return t.mission.toInternal(publicID)
}

// ToPublicUserID converts an internal user id (U0001) to its public form (user-1).
func (t *Translator) ToPublicUserID(internalID string) (string, bool) {
	return t.user.toPublic(internalID)
}

// ToInternalUserID converts a public user id (user-1) to its internal form (U0001).
func (t *Translator) ToInternalUserID(publicID string) (string, bool) {
	return t.user.toInternal(publicID)
}

// ToPublicCategory maps an internal category tag (case-insensitive) to its public canonical tag.
func (t *Translator) ToPublicCategory(internal string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(internal))
	if key == "" {
		return "", false
	}
	public, ok := t.internalToPublic[key]
	return public, ok
}

// ToInternalCategory maps a public category (canonical, synonym, or an internal
// tag in any case) to its internal canonical tag.
func (t *Translator) ToInternalCategory(public string) (string, bool) {
	canonical, ok := t.NormalizePublicCategory(public)
	if !ok {
		return "", false
	}
	internal, ok := t.publicToInternal[canonical]
	return internal, ok
}

// NormalizePublicCategory resolves a category string to its public canonical tag.
// Synonyms are consulted first, then canonical public tags, then internal tags.
func (t *Translator) NormalizePublicCategory(category string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return "", false
	}
	if canonical, ok := t.synonyms[key]; ok {
		return canonical, true
	}
	if _, ok := t.publicToInternal[key]; ok {
		return key, true
	}
	if public, ok := t.internalToPublic[key]; ok {
		return public, true
	}
	return "", false
}

// PublicCategoryOrEcho returns the public canonical tag for any known form of
// a category, or the lowercased input when the category is unknown.
func (t *Translator) PublicCategoryOrEcho(category string) string {
	if public, ok := t.NormalizePublicCategory(category); ok {
		return public
	}
	return strings.ToLower(strings.TrimSpace(category))
}

// InternalCategoryOrEcho returns the internal tag for any known form of a
// category, or the trimmed input unchanged.
func (t *Translator) InternalCategoryOrEcho(category string) string {
	if internal, ok := t.ToInternalCategory(category); ok {
		return internal
	}
	return strings.TrimSpace(category)
}

// Spellings returns every persisted form that denotes the same category:
// the public canonical tag, its internal tag, then its synonyms.
func (t *Translator) Spellings(category string) ([]string, bool) {
	canonical, ok := t.NormalizePublicCategory(category)
	if !ok {
		return nil, false
	}
	out := []string{canonical, t.publicToInternal[canonical]}
	return append(out, t.aliases[canonical]...), true
}

// PublicCategories returns the public canonical tags in table order.
func (t *Translator) PublicCategories() []string {
	out := make([]string, len(t.public))
	copy(out, t.public)
	return out
}

// idCodec converts between "<publicPrefix><n>" and "<internalPrefix><n zero-padded>".
type idCodec struct {
	public   string
	internal string
	width    int
}

func (c idCodec) toPublic(id string) (string, bool) {
	n, ok := c.number(id)
	if !ok {
		return "", false
	}
	return c.public + strconv.Itoa(n), true
}

func (c idCodec) toInternal(id string) (string, bool) {
	n, ok := c.number(id)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s%0*d", c.internal, c.width, n), true
}

// number extracts the numeric suffix from either form.
func (c idCodec) number(id string) (int, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, false
	}
	if n, ok := suffix(id, c.public); ok {
		return n, true
	}
	return suffix(id, c.internal)
}

func suffix(id, prefix string) (int, bool) {
	if len(id) <= len(prefix) || !strings.EqualFold(id[:len(prefix)], prefix) {
		return 0, false
	}
	digits := id[len(prefix):]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
