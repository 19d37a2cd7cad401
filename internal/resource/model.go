package resource

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(apperror.KindNotFound, "resource not found")
	ErrEmptyName       = apperror.New(apperror.KindValidation, "name cannot be empty")
	ErrInvalidCapacity = apperror.New(apperror.KindValidation, "capacity cannot be negative")
	ErrInvalidKind     = apperror.New(apperror.KindValidation, "kind cannot be empty")
)

// Kind is an open set of resource kinds. Unknown values are kept as-is.
type Kind string

const (
	KindWorkspace      Kind = "workspace"
	KindConferenceRoom Kind = "conference_room"
)

// Label returns a human readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindWorkspace:
		return "Workspace"
	case KindConferenceRoom:
		return "Conference Room"
	default:
		s := strings.ReplaceAll(string(k), "_", " ")
		if s == "" {
			return ""
		}
		r, size := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(r)) + s[size:]
	}
}

// Resource is a bookable unit such as a desk or a meeting room.
type Resource struct {
	ID        int64
	Name      string
	Capacity  int
	Kind      Kind
	CreatedAt time.Time
}

// Paging bounds. Page * PageSize stays well inside an int.
const (
	MaxPage     = 1_000_000
	MaxPageSize = 100
)

// Filter defines parameters for listing resources.
type Filter struct {
	Kind     Kind
	Page     int
	PageSize int
}
