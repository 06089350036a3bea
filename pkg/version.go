package release

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	modsemver "golang.org/x/mod/semver"
)

// ReleaseType selects how the next version is derived from the current one.
type ReleaseType string

const (
	Patch      ReleaseType = "patch"
	Minor      ReleaseType = "minor"
	Major      ReleaseType = "major"
	Prepatch   ReleaseType = "prepatch"
	Preminor   ReleaseType = "preminor"
	Premajor   ReleaseType = "premajor"
	Prerelease ReleaseType = "prerelease"
	Custom     ReleaseType = "custom"
)

// Descriptor is the display information for a release type or prerelease suffix.
type Descriptor struct {
	Name        string
	Description string
}

// ReleaseTypes is the lookup table used for choice labels and help output.
var ReleaseTypes = map[ReleaseType]Descriptor{
	Patch:      {"Patch", "backwards-compatible bug fixes"},
	Minor:      {"Minor", "backwards-compatible new functionality"},
	Major:      {"Major", "incompatible API changes"},
	Prepatch:   {"Prepatch", "prerelease of the next patch version"},
	Preminor:   {"Preminor", "prerelease of the next minor version"},
	Premajor:   {"Premajor", "prerelease of the next major version"},
	Prerelease: {"Prerelease", "next prerelease of the current version"},
	Custom:     {"Custom", "enter the version to release by hand"},
}

var (
	// BasicReleaseTypes are always offered.
	BasicReleaseTypes = []ReleaseType{Patch, Minor, Major}
	// PreReleaseTypes are offered only when a prerelease identifier is active.
	PreReleaseTypes = []ReleaseType{Prepatch, Preminor, Premajor, Prerelease}
)

// Suffix describes a prerelease identifier accepted by --preid.
type Suffix struct {
	Value string
	Descriptor
}

// PrereleaseSuffixes lists the conventional prerelease identifiers.
var PrereleaseSuffixes = []Suffix{
	{"alpha", Descriptor{"Alpha", "internal testing build, unstable and expected to have bugs"}},
	{"beta", Descriptor{"Beta", "feature complete for testing, known defects remain"}},
	{"rc", Descriptor{"Release Candidate", "no new features, only fixes before the final release"}},
	{"other", Descriptor{"Other", "any other identifier, e.g. --preid=next"}},
}

// ParseReleaseType converts s into a ReleaseType.
func ParseReleaseType(s string) (ReleaseType, error) {
	rt := ReleaseType(strings.ToLower(s))
	if _, ok := ReleaseTypes[rt]; !ok {
		return "", fmt.Errorf("unknown release type: %s", s)
	}
	return rt, nil
}

// IsPre reports whether rt needs a prerelease identifier.
func (rt ReleaseType) IsPre() bool {
	switch rt {
	case Prepatch, Preminor, Premajor, Prerelease:
		return true
	}
	return false
}

// ParseVersion validates s against the semver grammar and returns it without
// a leading "v". Shorthands such as "1.2" are rejected.
func ParseVersion(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "v")
	v, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return "", &InvalidVersionError{Version: s, Err: err}
	}
	return v.String(), nil
}

// InferPreid returns the identifier of current's prerelease tag, e.g. "beta"
// for 1.2.0-beta.1. Numeric-only tags such as 1.2.0-0 have no identifier.
func InferPreid(current string) string {
	v, err := semver.StrictNewVersion(current)
	if err != nil || v.Prerelease() == "" {
		return ""
	}
	id := strings.SplitN(v.Prerelease(), ".", 2)[0]
	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		return ""
	}
	return id
}

// NextVersion computes the version following current for the given release
// type. Custom releases have no computed version; use ParseVersion instead.
func NextVersion(current string, rt ReleaseType, preid string) (string, error) {
	cur, err := semver.StrictNewVersion(current)
	if err != nil {
		return "", &InvalidVersionError{Version: current, Err: err}
	}
	if rt.IsPre() && preid == "" {
		return "", ErrMissingPreid
	}

	major, minor, patch := cur.Major(), cur.Minor(), cur.Patch()
	pre := ""

	switch rt {
	case Major, Premajor:
		major++
		minor = 0
		patch = 0
	case Minor, Preminor:
		minor++
		patch = 0
	case Patch, Prepatch:
		patch++
	case Prerelease:
		pre = nextPrerelease(cur.Prerelease(), preid)
	case Custom:
		return "", errors.New("custom release has no computed version")
	default:
		return "", fmt.Errorf("unknown release type: %s", rt)
	}
	if rt == Prepatch || rt == Preminor || rt == Premajor {
		pre = preid + ".0"
	}

	next := semver.New(major, minor, patch, pre, "").String()
	// The identifier comes from user input, so the result is checked again.
	return ParseVersion(next)
}

// nextPrerelease bumps the numeric tail of current when it carries the same
// identifier and starts a new "<preid>.0" series otherwise.
func nextPrerelease(current, preid string) string {
	if current == "" {
		return preid + ".0"
	}
	parts := strings.Split(current, ".")
	if parts[0] != preid {
		return preid + ".0"
	}
	last := parts[len(parts)-1]
	if len(parts) > 1 {
		if n, err := strconv.ParseUint(last, 10, 64); err == nil {
			parts[len(parts)-1] = strconv.FormatUint(n+1, 10)
			return strings.Join(parts, ".")
		}
	}
	return current + ".0"
}

// IsNewer reports whether target sorts after current. Both must be valid.
func IsNewer(current, target string) bool {
	return modsemver.Compare("v"+target, "v"+current) > 0
}
