package signature

import (
	"regexp"
	"strings"

	"github.com/wippyai/wasm-signature/errors"
)

var (
	validName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	validTag  = regexp.MustCompile(`^[A-Za-z0-9.-]*$`)
)

// Ref names a published signature as organization/name@tag. Organization and
// tag are optional.
type Ref struct {
	Organization string
	Name         string
	Tag          string
}

// ParseRef parses "org/name@tag", "name@tag", "org/name" or "name".
func ParseRef(s string) (Ref, error) {
	var r Ref
	rest := s
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		r.Organization, rest = rest[:i], rest[i+1:]
		if r.Organization == "" || !validName.MatchString(r.Organization) {
			return Ref{}, errors.InvalidInput(errors.PhaseParse, "invalid organization in signature reference "+s)
		}
	}
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		rest, r.Tag = rest[:i], rest[i+1:]
		if !validTag.MatchString(r.Tag) {
			return Ref{}, errors.InvalidInput(errors.PhaseParse, "invalid tag in signature reference "+s)
		}
	}
	if !validName.MatchString(rest) {
		return Ref{}, errors.InvalidInput(errors.PhaseParse, "invalid name in signature reference "+s)
	}
	r.Name = rest
	return r, nil
}

func (r Ref) String() string {
	var b strings.Builder
	if r.Organization != "" {
		b.WriteString(r.Organization)
		b.WriteByte('/')
	}
	b.WriteString(r.Name)
	if r.Tag != "" {
		b.WriteByte('@')
		b.WriteString(r.Tag)
	}
	return b.String()
}
