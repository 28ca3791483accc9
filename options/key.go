package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Key names a delivery option understood by the service. Its string form
// is the multipart field name the option is submitted under.
type Key string

// Known option keys.
const (
	ReferenceID   Key = "referenceid"
	CustomerName  Key = "customername"
	CustomerEmail Key = "customeremailaddress"
	LanguageCode  Key = "languagecode"
	ExLibris      Key = "exlibris"
	ExLibrisFont  Key = "exlibrisfont"
	ChapterFooter Key = "chapterfooter"
	Disclaimer    Key = "disclaimer"
	ShowDate      Key = "showdate"

	// Download-link options, only meaningful for metadata (xml) output.
	DownloadLimit Key = "downloadlimit"
	ExpiryDays    Key = "expirydays"
	EPUB          Key = "epub"
	KF8Mobi       Key = "kf8mobi"
)

// Kind is the static type of an option value.
type Kind int

// Option kinds.
const (
	String Kind = iota + 1
	Int
	Bool
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "integer"
	case Bool:
		return "boolean"
	default:
		return "unknown"
	}
}

// boolStyle controls how a boolean option is put on the wire.
type boolStyle int

const (
	// boolDigit always sends "1" or "0".
	boolDigit boolStyle = iota
	// boolPresence sends "1" when true and omits the field when false.
	boolPresence
)

// LanguageCodes lists the numeric locale ids the service accepts for
// [LanguageCode].
var LanguageCodes = []int{1033, 1043, 1031, 1036, 1034, 1040, 1046, 2070, 1030, 1053, 1044, 1035}

type definition struct {
	kind         Kind
	metadataOnly bool
	required     bool
	rule         string
	bools        boolStyle
	desc         string
}

// order is the canonical key order, used for transport pairs and errors.
var order = []Key{
	ReferenceID,
	CustomerName,
	CustomerEmail,
	LanguageCode,
	ExLibris,
	ExLibrisFont,
	ChapterFooter,
	Disclaimer,
	ShowDate,
	DownloadLimit,
	ExpiryDays,
	EPUB,
	KF8Mobi,
}

var definitions = map[Key]definition{
	ReferenceID: {
		kind:     String,
		required: true,
		rule:     "required,max=255",
		desc:     "Your reference for the transaction, e.g. an order number",
	},
	CustomerName: {
		kind: String,
		rule: "max=255",
		desc: "Name of the end user, shown in the ex libris",
	},
	CustomerEmail: {
		kind: String,
		rule: "omitempty,email,max=255",
		desc: "E-mail address of the end user",
	},
	LanguageCode: {
		kind:     Int,
		required: true,
		rule:     "oneof=" + joinInts(LanguageCodes),
		desc:     "Locale id for the inserted pages, e.g. 1033 for English",
	},
	ExLibris: {
		kind: Bool,
		desc: "Insert an ex libris page",
	},
	ExLibrisFont: {
		kind: String,
		rule: "oneof=sans serif script",
		desc: "Font used on the ex libris page",
	},
	ChapterFooter: {
		kind: Bool,
		desc: "Add a footer to every chapter",
	},
	Disclaimer: {
		kind: Bool,
		desc: "Insert a disclaimer page",
	},
	ShowDate: {
		kind: Bool,
		desc: "Show the purchase date in the ex libris and footer",
	},
	DownloadLimit: {
		kind:         Int,
		metadataOnly: true,
		required:     true,
		rule:         "gt=0",
		desc:         "Number of times the download link may be used",
	},
	ExpiryDays: {
		kind:         Int,
		metadataOnly: true,
		required:     true,
		rule:         "gt=0",
		desc:         "Days until the download link expires",
	},
	EPUB: {
		kind:         Bool,
		metadataOnly: true,
		bools:        boolPresence,
		desc:         "Offer an epub download link",
	},
	KF8Mobi: {
		kind:         Bool,
		metadataOnly: true,
		bools:        boolPresence,
		desc:         "Offer a KF8/mobi download link",
	},
}

// Keys returns every known key in canonical order.
func Keys() []Key {
	keys := make([]Key, len(order))
	copy(keys, order)
	return keys
}

// Lookup resolves a field name to a known key. Matching is case-insensitive.
func Lookup(name string) (Key, bool) {
	k := Key(strings.ToLower(strings.TrimSpace(name)))
	_, ok := definitions[k]
	return k, ok
}

// Kind returns the static type of values for the key.
func (k Key) Kind() Kind {
	return definitions[k].kind
}

// MetadataOnly reports whether the key only applies to metadata output.
func (k Key) MetadataOnly() bool {
	return definitions[k].metadataOnly
}

// Required reports whether the key must be present when it applies.
func (k Key) Required() bool {
	return definitions[k].required
}

// Description is a short human readable summary of the key.
func (k Key) Description() string {
	return definitions[k].desc
}

// ParseValue converts text, as found on a command line or in a config file,
// into a value of the key's kind.
func ParseValue(key Key, raw string) (any, error) {
	def, ok := definitions[key]
	if !ok {
		return nil, fmt.Errorf("unknown option %q", key)
	}

	switch def.kind {
	case Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("option %s: %q is not an integer", key, raw)
		}
		return n, nil
	case Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("option %s: %q is not a boolean", key, raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
