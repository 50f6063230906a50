package extract

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// The expressions carry no \b assertions: Go's \b only knows ASCII word
// characters, so token boundaries are checked by wordBoundedMatch instead.
// \p{Nd} accepts decimal digits from any script, e.g. "५००g" or "١٢/٠٥/٢٤".
var (
	netWeightRe = regexp.MustCompile(`(?i)\p{Nd}+g`)
	dateRe      = regexp.MustCompile(`\p{Nd}{2}/\p{Nd}{2}/\p{Nd}{2}`)
	priceRe     = regexp.MustCompile(`\p{Nd}+[.,]\p{Nd}{2}`)
	mrpLabelRe  = regexp.MustCompile(`(?i)MRP[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]*:[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]*(\p{Nd}+[.,]\p{Nd}{2})`)
	batchRe     = regexp.MustCompile(`[A-Z0-9]{7}`)
)

// Extract applies every field rule to text and returns the resulting Record.
// It never fails; unmatched fields hold NotFound.
func Extract(text string) Record {
	return Record{
		ManufacturingDate: ManufacturingDate(text),
		BatchNumber:       BatchNumber(text),
		NetWeight:         NetWeight(text),
		MRP:               MRP(text),
	}
}

// NetWeight returns the first gram weight token such as "500g", keeping the
// case of the unit as written.
func NetWeight(text string) string {
	return firstMatch(netWeightRe, text)
}

// ManufacturingDate returns the first DD/DD/DD token. Values are not checked
// against the calendar.
func ManufacturingDate(text string) string {
	return firstMatch(dateRe, text)
}

// MRP returns the first bare price in text. When the text has no bare price
// it falls back to the "MRP: <price>" label form and returns only the price.
func MRP(text string) string {
	if m := firstMatch(priceRe, text); m != NotFound {
		return m
	}
	if loc := wordBoundedMatch(mrpLabelRe, text); loc != nil {
		return text[loc[2]:loc[3]]
	}
	return NotFound
}

// BatchNumber returns the first standalone token of exactly seven uppercase
// letters or digits.
func BatchNumber(text string) string {
	return firstMatch(batchRe, text)
}

func firstMatch(re *regexp.Regexp, text string) string {
	if loc := wordBoundedMatch(re, text); loc != nil {
		return text[loc[0]:loc[1]]
	}
	return NotFound
}

// wordBoundedMatch returns the submatch indexes of the leftmost match of re
// that is not glued to a word character on either side. Every start offset
// is tried in turn, so a rejected candidate does not hide a valid match
// that begins inside it (e.g. "05/24/99" within "x12/05/24/99").
//
// All rule expressions begin and end with a word character, which is what
// makes a plain neighbour check equivalent to \b on both ends.
func wordBoundedMatch(re *regexp.Regexp, text string) []int {
	for pos := 0; pos < len(text); {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return nil
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}

		start, end := loc[0], loc[1]
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return loc
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return nil
}

// isWordRune reports whether r is a regular-expression word character in
// the Unicode sense: a letter, a number or an underscore. Combining marks
// are not word characters, so a token directly after a Devanagari vowel
// sign still starts a new word.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
