// Package schema defines the in-memory object model for EC metadata schemas:
// named, versioned containers of classes, mixins, relationships, enumerations
// and their properties, linked through lazily-resolved item references.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

// Version is a three-part schema version of the form major.write.minor.
type Version struct {
	Major int `json:"major"`
	Write int `json:"write"`
	Minor int `json:"minor"`
}

// ParseVersion parses a "major.write.minor" string into a Version.
// Wrong arity or non-numeric components fail with ErrMalformedVersion.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, ecerrors.NewMalformedVersion(s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, ecerrors.NewMalformedVersion(s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Write: nums[1], Minor: nums[2]}, nil
}

// String returns the version in major.write.minor form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Write, v.Minor)
}

// Compare returns -1, 0, or 1 ordering versions numerically,
// most significant component first.
func (v Version) Compare(o Version) int {
	if c := compareInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Write, o.Write); c != 0 {
		return c
	}
	return compareInt(v.Minor, o.Minor)
}

// WriteCompatible reports whether a schema at version v satisfies a request
// for version o under write compatibility: same major and write components,
// and a minor component at least as new as requested.
func (v Version) WriteCompatible(o Version) bool {
	return v.Major == o.Major && v.Write == o.Write && v.Minor >= o.Minor
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
