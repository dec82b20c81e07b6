package schema

import (
	"fmt"
	"strings"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

// MatchPolicy selects how schema versions are compared during registry
// lookups and reference resolution.
type MatchPolicy int

const (
	// MatchExact requires an identical version triple
	MatchExact MatchPolicy = iota
	// MatchLatest accepts the newest registered version of the name
	MatchLatest
	// MatchLatestWriteCompatible accepts the newest version sharing
	// major and write components with a minor at least as new
	MatchLatestWriteCompatible
)

// SchemaKey identifies a schema by name and version. Name comparison is
// case-insensitive everywhere. Keys are immutable once constructed.
type SchemaKey struct {
	Name    string  `json:"name"`
	Version Version `json:"version"`
}

// String returns the key in "Name.major.write.minor" form.
func (k SchemaKey) String() string {
	return fmt.Sprintf("%s.%s", k.Name, k.Version)
}

// Matches reports whether candidate k satisfies a request for key o under
// the given policy.
func (k SchemaKey) Matches(o SchemaKey, policy MatchPolicy) bool {
	if !strings.EqualFold(k.Name, o.Name) {
		return false
	}
	switch policy {
	case MatchExact:
		return k.Version.Compare(o.Version) == 0
	case MatchLatest:
		return true
	case MatchLatestWriteCompatible:
		return k.Version.WriteCompatible(o.Version)
	default:
		return false
	}
}

// ItemKey identifies a schema item by its owning schema key and item name.
type ItemKey struct {
	Schema SchemaKey `json:"schema"`
	Name   string    `json:"name"`
}

// String returns the key in "SchemaName.ItemName" form.
func (k ItemKey) String() string {
	return fmt.Sprintf("%s.%s", k.Schema.Name, k.Name)
}

// Matches reports whether two item keys identify the same item, comparing
// both names case-insensitively and schema versions per the policy.
func (k ItemKey) Matches(o ItemKey, policy MatchPolicy) bool {
	return strings.EqualFold(k.Name, o.Name) && k.Schema.Matches(o.Schema, policy)
}

// ParseFullName splits a fully-qualified "Schema.Item" name into its schema
// and item parts. A missing separator fails with ErrMalformedItemName.
func ParseFullName(fullName string) (schemaName, itemName string, err error) {
	idx := strings.Index(fullName, ".")
	if idx <= 0 || idx == len(fullName)-1 {
		return "", "", ecerrors.NewMalformedItemName(fullName)
	}
	return fullName[:idx], fullName[idx+1:], nil
}
