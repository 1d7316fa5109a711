package identity

import (
	"strconv"
	"strings"

	"github.com/tonimelisma/stash-folderid/internal/stash"
)

// BuildCreateInput maps a scraped stash-box performer onto a creation
// payload. Missing optional strings become "", unparseable numbers become
// their zero value or null, and the remote id is recorded as a stash_ids
// cross-reference for endpoint.
func BuildCreateInput(sp *stash.ScrapedPerformer, endpoint string) *stash.PerformerCreateInput {
	input := &stash.PerformerCreateInput{
		Name:           sp.Name,
		Disambiguation: deref(sp.Disambiguation),
		AliasList:      SplitAliases(deref(sp.Aliases)),
		Gender:         nonEmpty(sp.Gender),
		Birthdate:      deref(sp.Birthdate),
		DeathDate:      deref(sp.DeathDate),
		Country:        deref(sp.Country),
		Ethnicity:      deref(sp.Ethnicity),
		HairColor:      deref(sp.HairColor),
		EyeColor:       deref(sp.EyeColor),
		HeightCM:       ParseHeight(deref(sp.Height)),
		Weight:         parseOptionalInt(deref(sp.Weight)),
		Measurements:   deref(sp.Measurements),
		FakeTits:       deref(sp.FakeTits),
		PenisLength:    parseOptionalFloat(deref(sp.PenisLength)),
		Circumcised:    nonEmpty(sp.Circumcised),
		Tattoos:        deref(sp.Tattoos),
		Piercings:      deref(sp.Piercings),
		CareerLength:   deref(sp.CareerLength),
		URLs:           sp.URLs,
		Details:        deref(sp.Details),
		TagIDs:         []string{},
		IgnoreAutoTag:  false,
		StashIDs: []stash.StashID{{
			Endpoint: endpoint,
			StashID:  deref(sp.RemoteSiteID),
		}},
	}

	if input.URLs == nil {
		input.URLs = []string{}
	}

	if len(sp.Images) > 0 && sp.Images[0] != "" {
		img := sp.Images[0]
		input.Image = &img
	}

	return input
}

// SplitAliases splits a comma-joined alias field into trimmed, non-empty,
// de-duplicated aliases in their original order.
func SplitAliases(raw string) []string {
	aliases := []string{}
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, ",") {
		alias := strings.TrimSpace(part)
		if alias == "" || seen[alias] {
			continue
		}

		seen[alias] = true
		aliases = append(aliases, alias)
	}

	return aliases
}

// ParseHeight parses a height in centimeters, with or without a "cm"
// suffix. Any malformed or negative value yields 0; a bad height never
// blocks performer creation.
func ParseHeight(raw string) int {
	value := strings.TrimSpace(raw)
	value = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(value), "cm"))

	cm, err := strconv.Atoi(value)
	if err != nil || cm < 0 {
		return 0
	}

	return cm
}

func parseOptionalInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}

	return &n
}

func parseOptionalFloat(raw string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}

	return &f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// nonEmpty returns nil for a nil or blank string so enum fields are sent
// as null rather than "".
func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}

	v := strings.TrimSpace(*s)

	return &v
}
