// Package romnames reads the signature name table and derives display
// titles and region tags from raw ROM file names.
package romnames

import (
	"regexp"
	"strings"
)

// Region tags
const (
	RegionNTSCJ = "NTSC-J"
	RegionNTSC  = "NTSC"
	RegionPAL   = "PAL"
)

var (
	extPattern     = regexp.MustCompile(`(?i)\.[a-z0-9]{2,4}$`)
	segmentPattern = regexp.MustCompile(`\(([^)]+)\)`)
	tagPattern     = regexp.MustCompile(`\s*\([^)]*\)`)
	spacePattern   = regexp.MustCompile(`\s+`)
	regionSuffix   = regexp.MustCompile(`(?i)^(.*?)(\s*\((NTSC-J|NTSC|PAL)\))$`)

	ntscJHints = []string{"ntsc-j", "japan"}
	ntscHints  = []string{"usa", "u.s.a", "north america"}
	palHints   = []string{"europe", "australia", "germany", "france", "spain", "italy", "uk", "england"}
)

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

// CleanName turns a raw ROM file name such as
// "Super Game (USA) (Rev 1) (Proto).sfc" into "Super Game (NTSC / Proto)".
//
// Parenthesised tags are scanned in order. Prototype, aftermarket,
// unlicensed and demo tags become extras; the first region-like tag sets the
// region. Without a region tag the whole name is searched for hints in the
// order NTSC-J, NTSC, PAL. Other tags (revisions, versions) are dropped.
func CleanName(raw string) string {
	noExt := extPattern.ReplaceAllString(raw, "")
	lowerFull := strings.ToLower(noExt)

	region := ""
	var extras []string
	markRegion := func(code string) {
		if region == "" {
			region = code
		}
	}

	for _, m := range segmentPattern.FindAllStringSubmatch(noExt, -1) {
		lower := strings.ToLower(strings.TrimSpace(m[1]))
		switch {
		case lower == "":
		case strings.Contains(lower, "proto"):
			extras = append(extras, "Proto")
		case strings.Contains(lower, "aftermarket"):
			extras = append(extras, "Aftermarket")
		case strings.Contains(lower, "unl"):
			extras = append(extras, "UNL")
		case strings.Contains(lower, "demo"):
			extras = append(extras, "Demo")
		case containsAny(lower, ntscJHints):
			markRegion(RegionNTSCJ)
		case lower == "ntsc" || containsAny(lower, ntscHints):
			markRegion(RegionNTSC)
		case lower == "pal" || containsAny(lower, palHints):
			markRegion(RegionPAL)
		}
	}

	if region == "" && containsAny(lowerFull, ntscJHints) {
		markRegion(RegionNTSCJ)
	}
	if region == "" && (strings.Contains(lowerFull, "ntsc") || containsAny(lowerFull, ntscHints)) {
		markRegion(RegionNTSC)
	}
	if region == "" && (strings.Contains(lowerFull, "pal") || containsAny(lowerFull, palHints)) {
		markRegion(RegionPAL)
	}

	base := tagPattern.ReplaceAllString(noExt, "")
	base = spacePattern.ReplaceAllString(strings.TrimSpace(base), " ")

	var tail []string
	if region != "" {
		tail = append(tail, region)
	}
	tail = append(tail, extras...)
	if len(tail) == 0 {
		return base
	}
	return base + " (" + strings.Join(tail, " / ") + ")"
}

// SplitTitleAndRegion separates a trailing "(NTSC-J)", "(NTSC)" or "(PAL)"
// tag from a cleaned name. Names with extras after the region keep them in
// the title.
func SplitTitleAndRegion(name string) (title, region string) {
	m := regionSuffix.FindStringSubmatch(name)
	if m == nil {
		return name, ""
	}
	return strings.TrimSpace(m[1]), strings.ToUpper(m[3])
}
