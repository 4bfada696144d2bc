package facturx

import (
	"fmt"
	"strings"
)

// Profile is a Factur-X conformance level.
type Profile string

const (
	ProfileBasic    Profile = "BASIC"
	ProfileEN16931  Profile = "EN16931"
	ProfileExtended Profile = "EXTENDED"
)

var guidelines = map[Profile]string{
	ProfileBasic:    "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic",
	ProfileEN16931:  "urn:cen.eu:en16931:2017",
	ProfileExtended: "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended",
}

// GuidelineID returns the document context guideline URN.
func (p Profile) GuidelineID() string {
	return guidelines[p]
}

// ParseProfile accepts a profile name in any case. Empty selects EN16931.
func ParseProfile(name string) (Profile, error) {
	if name == "" {
		return ProfileEN16931, nil
	}
	p := Profile(strings.ToUpper(name))
	if _, ok := guidelines[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}
