//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

// Package i18n holds every user-facing string in Arabic (the default) and English.
package i18n

import (
	"context"
	"errors"
	"github.com/e-gun/CSVTopicServer/internal/analysis"
	"github.com/e-gun/CSVTopicServer/internal/ingest"
	"github.com/e-gun/CSVTopicServer/internal/topics"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"strconv"
)

// message keys; each is also the lookup string handed to a Printer
const (
	KeyEmptyFile     = "err.emptyfile"
	KeyBadFormat     = "err.badformat"
	KeyTooLarge      = "err.toolarge"
	KeyReadFailure   = "err.read"
	KeyUnknownColumn = "err.column"
	KeyInsufficient  = "err.insufficient" // the count is handed over as a string so that it prints in western digits
	KeyNoTopics      = "warn.notopics"
	KeyNothingToShow = "warn.nothingtoshow"
	KeyChartFailure  = "warn.chart"
	KeyValueError    = "err.value"
	KeyNoConvergence = "err.convergence"
	KeyCanceled      = "err.canceled"
	KeyUnexpected    = "err.unexpected"
	KeyUnknownUpload = "err.upload"
	KeyJobInUse      = "err.jobinuse"
	KeySuccess       = "ok.success"

	LblTitle        = "ui.title"
	LblIntro        = "ui.intro"
	LblUpload       = "ui.upload"
	LblColumn       = "ui.column"
	LblAnalyze      = "ui.analyze"
	LblSpinner      = "ui.spinner"
	LblCancel       = "ui.cancel"
	LblPreview      = "ui.preview"
	LblUploaded     = "ui.uploaded"
	LblTopTopics    = "ui.toptopics"
	LblDistribution = "ui.distribution"
	LblTermsChart   = "ui.termschart"
	LblTopicWords   = "ui.topicwords"
	LblDocCount     = "ui.doccount"
	LblTopic        = "ui.col.topic"
	LblCount        = "ui.col.count"
	LblName         = "ui.col.name"
	LblRepr         = "ui.col.representation"
	LblReprDocs     = "ui.col.representativedocs"
	LblShare        = "ui.col.share"
	LblSummary      = "ui.summary"
	LblLanguage     = "ui.language"
	LblListSep      = "ui.listsep"

	StageColumn  = "stage.column"
	StageMissing = "stage.missing"
	StageClean   = "stage.clean"
	StageFilter  = "stage.filter"
	StageModel   = "stage.model"
	StageSummary = "stage.summary"
	StageDone    = "stage.done"
)

var (
	arabic = map[string]string{
		KeyEmptyFile:     "الملف المرفوع فارغ أو غير صالح.",
		KeyBadFormat:     "تنسيق الملف غير مدعوم. يرجى رفع ملف CSV صالح.",
		KeyTooLarge:      "الملف كبير جدا: %s",
		KeyReadFailure:   "خطأ في قراءة الملف: %s",
		KeyUnknownColumn: "العمود غير موجود: %s",
		KeyInsufficient:  "⚠️ يجب أن يحتوي الملف على %s نصوص صالحة على الأقل.",
		KeyNoTopics:      "❗ لم يتم العثور على أي مواضيع في البيانات.",
		KeyNothingToShow: "لا توجد مواضيع لعرضها.",
		KeyChartFailure:  "تعذر عرض الرسم البياني: %s",
		KeyValueError:    "خطأ في القيم: %s",
		KeyNoConvergence: "تعذر التقارب في خوارزمية التحليل.",
		KeyCanceled:      "تم إلغاء التحليل.",
		KeyUnexpected:    "خطأ غير متوقع: %s",
		KeyUnknownUpload: "لم يعد الملف المرفوع متاحا. يرجى رفعه مرة أخرى.",
		KeyJobInUse:      "هناك تحليل آخر يستخدم هذا المعرف. يرجى المحاولة مرة أخرى.",
		KeySuccess:       "تم تحليل المواضيع بنجاح! ✅",

		LblTitle:        "تحليل المواضيع",
		LblIntro:        "ارفع ملف CSV يحتوي على عمود نصي.",
		LblUpload:       "ارفع ملف CSV",
		LblColumn:       "اختر العمود الذي يحتوي على النصوص",
		LblAnalyze:      "تحليل المواضيع",
		LblSpinner:      "جاري معالجة البيانات وتحليلها...",
		LblCancel:       "إلغاء",
		LblPreview:      "معاينة البيانات",
		LblUploaded:     "%s: %d صفوف، %s",
		LblTopTopics:    "أهم المواضيع المكتشفة:",
		LblDistribution: "توزيع المواضيع",
		LblTermsChart:   "كلمات المواضيع",
		LblTopicWords:   "الموضوع %d",
		LblDocCount:     "عدد النصوص",
		LblTopic:        "الموضوع",
		LblCount:        "العدد",
		LblName:         "الاسم",
		LblRepr:         "الكلمات الممثلة",
		LblReprDocs:     "نصوص ممثلة",
		LblShare:        "الوزن النسبي",
		LblSummary:      "%d نصوص صالحة من أصل %d صفوف؛ %d مواضيع في %s",
		LblLanguage:     "English",
		LblListSep:      "، ",

		StageColumn:  "قراءة العمود",
		StageMissing: "إزالة القيم المفقودة",
		StageClean:   "تنظيف النصوص",
		StageFilter:  "استبعاد النصوص الفارغة",
		StageModel:   "بناء نموذج المواضيع",
		StageSummary: "تلخيص المواضيع",
		StageDone:    "اكتمل التحليل",
	}

	english = map[string]string{
		KeyEmptyFile:     "The uploaded file is empty or invalid.",
		KeyBadFormat:     "Unsupported file format. Please upload a valid CSV file.",
		KeyTooLarge:      "The file is too large: %s",
		KeyReadFailure:   "Error reading the file: %s",
		KeyUnknownColumn: "No such column: %s",
		KeyInsufficient:  "⚠️ The file must contain at least %s valid texts.",
		KeyNoTopics:      "❗ No topics were found in the data.",
		KeyNothingToShow: "There are no topics to display.",
		KeyChartFailure:  "Could not draw the chart: %s",
		KeyValueError:    "Value error: %s",
		KeyNoConvergence: "The analysis algorithm failed to converge.",
		KeyCanceled:      "The analysis was canceled.",
		KeyUnexpected:    "Unexpected error: %s",
		KeyUnknownUpload: "The uploaded file is no longer available. Please upload it again.",
		KeyJobInUse:      "Another analysis is using this job id. Please try again.",
		KeySuccess:       "Topics were successfully analyzed!✅",

		LblTitle:        "Analyze topics",
		LblIntro:        "Upload a CSV file containing a text column.",
		LblUpload:       "Upload a CSV file",
		LblColumn:       "Select the column containing the texts",
		LblAnalyze:      "Topic analysis",
		LblSpinner:      "Data processing and analysis is underway...",
		LblCancel:       "Cancel",
		LblPreview:      "Data preview",
		LblUploaded:     "%s: %d rows, %s",
		LblTopTopics:    "The most important topics discovered:",
		LblDistribution: "Distribution of topics",
		LblTermsChart:   "Topic words",
		LblTopicWords:   "Topic %d",
		LblDocCount:     "Documents",
		LblTopic:        "Topic",
		LblCount:        "Count",
		LblName:         "Name",
		LblRepr:         "Representation",
		LblReprDocs:     "Representative_Docs",
		LblShare:        "Share",
		LblSummary:      "%d valid texts out of %d rows; %d topics in %s",
		LblLanguage:     "العربية",
		LblListSep:      ", ",

		StageColumn:  "Reading the column",
		StageMissing: "Dropping missing values",
		StageClean:   "Cleaning the texts",
		StageFilter:  "Discarding empty texts",
		StageModel:   "Building the topic model",
		StageSummary: "Summarizing the topics",
		StageDone:    "Analysis complete",
	}

	supported = []language.Tag{language.Arabic, language.English}
	matcher   = language.NewMatcher(supported)
	cat       = build()
)

func build() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Arabic))
	for k, v := range arabic {
		_ = b.SetString(language.Arabic, k, v)
	}
	for k, v := range english {
		_ = b.SetString(language.English, k, v)
	}
	return b
}

// Pick - the supported language that best fits an explicit choice and/or an Accept-Language header
func Pick(explicit string, accept string) language.Tag {
	var desired []language.Tag
	if explicit != "" {
		if t, err := language.Parse(explicit); err == nil {
			desired = append(desired, t)
		}
	}
	if accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			desired = append(desired, tags...)
		}
	}
	if len(desired) == 0 {
		return Default()
	}

	_, idx, conf := matcher.Match(desired...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// Default - the fallback language: Arabic unless SetDefault() says otherwise
func Default() language.Tag {
	return supported[0]
}

// SetDefault - the configured ui language becomes the fallback for Pick(); call it before serving
func SetDefault(lang string) {
	t, err := language.Parse(lang)
	if err != nil {
		return
	}
	for i, s := range supported {
		if s == t && i != 0 {
			supported[0], supported[i] = supported[i], supported[0]
			matcher = language.NewMatcher(supported)
			return
		}
	}
}

// Printer - a message.Printer wired to the catalog
func Printer(t language.Tag) *message.Printer {
	return message.NewPrinter(t, message.Catalog(cat))
}

// IsRTL - does the language read right to left?
func IsRTL(t language.Tag) bool {
	base, _ := t.Base()
	return base.String() == "ar"
}

// ForStage - the progress line for a pipeline stage; the detail is appended untranslated
func ForStage(p *message.Printer, stage analysis.Stage, detail string) string {
	t := p.Sprintf("stage." + string(stage))
	if detail == "" {
		return t
	}
	return t + " (" + detail + ")"
}

// ForError - map an error onto a message key and its localized text
func ForError(p *message.Printer, err error) (string, string) {
	var ite *analysis.InsufficientTextsError

	switch {
	case err == nil:
		return KeySuccess, p.Sprintf(KeySuccess)
	case errors.As(err, &ite):
		return KeyInsufficient, p.Sprintf(KeyInsufficient, strconv.Itoa(ite.Need))
	case errors.Is(err, analysis.ErrInsufficientTexts):
		return KeyInsufficient, p.Sprintf(KeyInsufficient, strconv.Itoa(vv.MINVALIDTEXTS))
	case errors.Is(err, ingest.ErrEmptyFile):
		return KeyEmptyFile, p.Sprintf(KeyEmptyFile)
	case errors.Is(err, ingest.ErrBadFormat):
		return KeyBadFormat, p.Sprintf(KeyBadFormat)
	case errors.Is(err, ingest.ErrTooLarge):
		return KeyTooLarge, p.Sprintf(KeyTooLarge, err.Error())
	case errors.Is(err, ingest.ErrRead):
		return KeyReadFailure, p.Sprintf(KeyReadFailure, err.Error())
	case errors.Is(err, ingest.ErrUnknownColumn):
		return KeyUnknownColumn, p.Sprintf(KeyUnknownColumn, err.Error())
	case errors.Is(err, analysis.ErrNoTopics):
		return KeyNoTopics, p.Sprintf(KeyNoTopics)
	case errors.Is(err, topics.ErrNoConvergence):
		return KeyNoConvergence, p.Sprintf(KeyNoConvergence)
	case errors.Is(err, topics.ErrInvalidInput), errors.Is(err, topics.ErrUnknownModel):
		return KeyValueError, p.Sprintf(KeyValueError, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KeyCanceled, p.Sprintf(KeyCanceled)
	default:
		return KeyUnexpected, p.Sprintf(KeyUnexpected, err.Error())
	}
}
