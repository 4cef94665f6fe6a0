//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"encoding/json"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/clean"
	"github.com/e-gun/CSVTopicServer/internal/gen"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
)

//
// STOPWORDS
//

var (
	ArabicStop = []string{"في", "من", "على", "إلى", "الى", "عن", "مع", "هذا", "هذه", "ذلك", "تلك", "هذان", "هؤلاء",
		"التي", "الذي", "الذين", "اللذان", "اللتان", "اللواتي", "ما", "ماذا", "متى", "أين", "اين", "كيف", "لماذا", "هل",
		"لا", "لم", "لن", "ليس", "ليست", "إن", "ان", "أن", "إنه", "انه", "أنه", "كان", "كانت", "يكون", "تكون", "كانوا",
		"قد", "لقد", "ثم", "أو", "او", "أم", "بل", "لكن", "لكن", "حتى", "إذا", "اذا", "إذ", "لو", "كل", "بعض", "غير",
		"بين", "عند", "عندما", "حين", "حيث", "بعد", "قبل", "فوق", "تحت", "أمام", "خلف", "منذ", "خلال", "ضد", "نحو",
		"هو", "هي", "هم", "هن", "هما", "أنا", "انا", "نحن", "أنت", "انت", "أنتم", "انتم", "له", "لها", "لهم", "به",
		"بها", "بهم", "فيه", "فيها", "فيهم", "منه", "منها", "منهم", "عليه", "عليها", "عليهم", "إليه", "اليه", "كما",
		"أيضا", "ايضا", "جدا", "فقط", "أي", "اي", "أى", "التى", "الذى", "وهو", "وهي", "وفي", "وقد", "ولا", "ولم", "وما",
		"وأن", "وان", "مثل", "عليك", "لك", "لي", "لنا", "يا", "نعم", "كلا", "هنا", "هناك", "الآن", "الان", "ذا", "كذلك",
		"أكثر", "اكثر", "أقل", "اقل", "جميع", "عدة", "إلا", "الا", "سوف", "ضمن", "لدى", "لدي", "دون", "مما", "عما",
		"فيما", "بما", "كي", "لكي", "وكان", "يمكن", "تم", "وكل", "عبر", "أول", "اول", "تلقاء", "اما", "أما", "إما"}

	EnglishStop = []string{"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any",
		"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by", "can",
		"could", "did", "do", "does", "doing", "down", "during", "each", "few", "for", "from", "further", "had", "has",
		"have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how", "i", "if", "in",
		"into", "is", "it", "its", "itself", "just", "me", "more", "most", "my", "myself", "no", "nor", "not", "now",
		"of", "off", "on", "once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own", "same",
		"she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves", "then",
		"there", "these", "they", "this", "those", "through", "to", "too", "under", "until", "up", "very", "was", "we",
		"were", "what", "when", "where", "which", "while", "who", "whom", "why", "will", "with", "would", "you", "your",
		"yours", "yourself", "yourselves", "don", "didn", "doesn", "isn", "wasn", "won", "ll", "ve", "re"}

	// ArabicKeep - members of ArabicStop we will not toss
	ArabicKeep []string
	// EnglishKeep - members of EnglishStop we will not toss
	EnglishKeep []string

	stopmtx   sync.RWMutex
	stopfiles = make(map[string][]string)
)

func getarabicstops() []string {
	return gen.SetSubtraction(ArabicStop, ArabicKeep)
}

func getenglishstops() []string {
	return gen.SetSubtraction(EnglishStop, EnglishKeep)
}

// listfor - the stop list for one language; a list read from disk displaces the built-in one
func listfor(lang string) []string {
	stopmtx.RLock()
	defer stopmtx.RUnlock()
	// callers append: never hand out the stored backing array
	if l, ok := stopfiles[lang]; ok {
		return slices.Clone(l)
	}
	switch lang {
	case "arabic":
		return getarabicstops()
	case "english":
		return getenglishstops()
	default:
		return nil
	}
}

// StopSet - every stop word for a model language; "multilingual" is the union; placeholders are always in
func StopSet(lang string) map[string]struct{} {
	var ss []string
	switch lang {
	case "arabic", "english":
		ss = listfor(lang)
	default:
		ss = append(listfor("arabic"), listfor("english")...)
	}
	ss = append(ss, clean.URLTOKEN, clean.NUMBERTOKEN)
	return gen.ToSet(ss)
}

// ReadStopConfig - read the stop list files in dir; any that do not exist are generated from the built-in lists
func ReadStopConfig(dir string) ([]string, error) {
	const (
		ERR1 = "ReadStopConfig() failed to parse %s: %w"
		ERR2 = "ReadStopConfig() could not write %s: %w"
	)

	files := map[string]string{
		"arabic":  vv.CONFIGSTOPSAR,
		"english": vv.CONFIGSTOPSEN,
	}

	var generated []string
	for _, lang := range gen.StringMapKeysIntoSlice(files) {
		fn := filepath.Join(dir, files[lang])
		content, err := os.ReadFile(fn)
		if os.IsNotExist(err) {
			var builtin []string
			if lang == "arabic" {
				builtin = getarabicstops()
			} else {
				builtin = getenglishstops()
			}
			sort.Strings(builtin)
			out, e := json.MarshalIndent(builtin, vv.JSONINDENT, vv.JSONINDENT)
			if e != nil {
				return generated, fmt.Errorf(ERR2, fn, e)
			}
			if e = os.WriteFile(fn, out, vv.WRITEPERMS); e != nil {
				return generated, fmt.Errorf(ERR2, fn, e)
			}
			generated = append(generated, fn)
			continue
		}
		if err != nil {
			return generated, fmt.Errorf(ERR1, fn, err)
		}

		var stp []string
		if err = json.Unmarshal(content, &stp); err != nil {
			return generated, fmt.Errorf(ERR1, fn, err)
		}

		stopmtx.Lock()
		stopfiles[lang] = slices.Clip(gen.Unique(stp))
		stopmtx.Unlock()
	}
	return generated, nil
}

// resetstops - forget anything ReadStopConfig() loaded
func resetstops() {
	stopmtx.Lock()
	stopfiles = make(map[string][]string)
	stopmtx.Unlock()
}
