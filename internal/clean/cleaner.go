//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

// Package clean normalizes the text of a single cell before it is handed to a topic model.
package clean

import (
	"fmt"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	NOTEXT      = "no_text"
	URLTOKEN    = "رابط"
	NUMBERTOKEN = "رقم"
	MINTOKENLEN = 2
)

var (
	// order matters: urls before digits so that "http://x.com/1" is a link and not a number
	formatfinder = regexp.MustCompile(`\p{Cf}+`)
	urlfinder    = regexp.MustCompile(`(?i)http\S+`)
	digitfinder  = regexp.MustCompile(`\p{Nd}+`)
	symbolfinder = regexp.MustCompile(`([^\p{L}\p{M}\p{N}_\s\p{Z}])`)
	spacefinder  = regexp.MustCompile(`[\s\p{Z}]+`)

	lower = cases.Lower(language.Und)
)

// Clean - normalize a string into space separated lowercase tokens; NOTEXT if nothing survives
func Clean(text string) string {
	// joiners go before NFC: dropping one can leave a sequence that NFC would have composed
	text = formatfinder.ReplaceAllString(text, "")
	// lowercasing can yield marks out of canonical order, hence the second NFC
	text = norm.NFC.String(lower.String(norm.NFC.String(text)))

	text = urlfinder.ReplaceAllString(text, " "+URLTOKEN+" ")
	text = digitfinder.ReplaceAllString(text, " "+NUMBERTOKEN+" ")
	text = symbolfinder.ReplaceAllString(text, " $1 ")
	text = spacefinder.ReplaceAllString(text, " ")

	words := Tokenize(text)

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) >= MINTOKENLEN {
			kept = append(kept, w)
		}
	}

	cleaned := strings.Join(kept, " ")
	if cleaned == "" {
		return NOTEXT
	}
	return cleaned
}

// CleanValue - Clean() for anything that might come out of a table cell
func CleanValue(v any) (cleaned string) {
	// a nil pointer hiding inside a Stringer will panic on String()
	defer func() {
		if r := recover(); r != nil {
			cleaned = NOTEXT
		}
	}()

	// nil, numbers, structs... only strings carry text; everything else is NOTEXT
	switch t := v.(type) {
	case string:
		return Clean(t)
	case []byte:
		if !utf8.Valid(t) {
			return NOTEXT
		}
		return Clean(string(t))
	case fmt.Stringer:
		return Clean(t.String())
	default:
		return NOTEXT
	}
}

// Valid - does a cleaned string carry any text?
func Valid(cleaned string) bool {
	return cleaned != NOTEXT && cleaned != ""
}

// Tokenize - split into words via unicode word segmentation; whitespace segments are dropped
func Tokenize(text string) []string {
	var words []string
	state := -1
	var w string
	for len(text) > 0 {
		w, text, state = uniseg.FirstWordInString(text, state)
		// a lone mark after a space rides along with the space segment
		words = append(words, strings.Fields(w)...)
	}
	return words
}
