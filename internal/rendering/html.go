package rendering

import (
	"embed"
	"html/template"
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed templates/resume.html.tmpl
var templateFiles embed.FS

var resumeTemplate = template.Must(
	template.New("resume.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFiles, "templates/resume.html.tmpl"),
)

// Headings are the section titles of the rendered resume.
type Headings struct {
	Summary    string
	Experience string
	Skills     string
	Education  string
}

type language struct {
	code     string
	rtl      bool
	headings Headings
}

var languages = map[string]language{
	"hebrew": {code: "he", rtl: true, headings: Headings{
		Summary:    "סיכום מקצועי",
		Experience: "ניסיון תעסוקתי",
		Skills:     "כישורים",
		Education:  "השכלה",
	}},
	"arabic": {code: "ar", rtl: true, headings: Headings{
		Summary:    "ملخص مهني",
		Experience: "الخبرة المهنية",
		Skills:     "المهارات",
		Education:  "التعليم",
	}},
	"english": {code: "en", headings: Headings{
		Summary:    "Professional Summary",
		Experience: "Experience",
		Skills:     "Skills",
		Education:  "Education",
	}},
}

// Options control the HTML view.
type Options struct {
	// Language is the resume's output language, e.g. "Hebrew". Unknown
	// languages render left to right with English headings.
	Language string
}

func lookupLanguage(name string) language {
	if lang, ok := languages[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lang
	}
	return languages["english"]
}

type templateData struct {
	Lang     string
	Dir      string
	Headings Headings
	Doc      *types.GeneratedDocument
}

// RenderHTML renders doc as a standalone HTML page with the sections header,
// summary, experience, skills and education, in that order. All text is escaped.
func RenderHTML(doc *types.GeneratedDocument, opts Options) (string, error) {
	if doc == nil {
		return "", &RenderError{Message: "no resume to render"}
	}

	lang := lookupLanguage(opts.Language)
	data := templateData{
		Lang:     lang.code,
		Dir:      "ltr",
		Headings: lang.headings,
		Doc:      doc,
	}
	if lang.rtl {
		data.Dir = "rtl"
	}

	var sb strings.Builder
	if err := resumeTemplate.Execute(&sb, data); err != nil {
		return "", &RenderError{Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns the download name of the exported resume:
// the candidate's name with whitespace replaced by underscores, plus "_CV.pdf".
func FileName(doc *types.GeneratedDocument) string {
	name := "resume"
	if doc != nil {
		if n := strings.TrimSpace(doc.PersonalInfo.FullName); n != "" {
			name = whitespace.ReplaceAllString(n, "_")
		}
	}
	return name + "_CV.pdf"
}
