package entities

import (
	"errors"
	"path"
	"strings"
)

var ErrInvalidFlagID = errors.New("invalid flag id")

const (
	regionSeparator = "-"
	wordSeparator   = "_"
	flagExt         = ".png"
)

// FlagID identifies one flag image as "<region>-<country>".
// The country part uses underscores where the display name has spaces.
type FlagID string

// ParseFlagID validates s and returns it as a FlagID.
func ParseFlagID(s string) (FlagID, error) {
	region, country, ok := strings.Cut(s, regionSeparator)
	if !ok || region == "" || country == "" {
		return "", ErrInvalidFlagID
	}
	return FlagID(s), nil
}

// FlagIDFromName builds the id of a country shown as name in region.
// It is the exact inverse of CountryName.
func FlagIDFromName(region, name string) FlagID {
	return FlagID(region + regionSeparator + strings.ReplaceAll(name, " ", wordSeparator))
}

// FlagIDFromFile strips the image extension from a bare file name.
func FlagIDFromFile(name string) (FlagID, error) {
	if !strings.HasSuffix(name, flagExt) {
		return "", ErrInvalidFlagID
	}
	return ParseFlagID(strings.TrimSuffix(name, flagExt))
}

// Region returns the part before the first separator.
func (id FlagID) Region() string {
	region, _, _ := strings.Cut(string(id), regionSeparator)
	return region
}

// CountryName returns the display name of the country.
func (id FlagID) CountryName() string {
	_, country, _ := strings.Cut(string(id), regionSeparator)
	return strings.ReplaceAll(country, wordSeparator, " ")
}

// FileName returns the asset path "<region>/<region>-<country>.png".
func (id FlagID) FileName() string {
	return path.Join(id.Region(), string(id)+flagExt)
}

func (id FlagID) String() string {
	return string(id)
}
