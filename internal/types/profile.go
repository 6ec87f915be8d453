// Package types provides type definitions for the structured data used throughout resume-tailor.
package types

// Proficiency levels accepted for a language entry.
const (
	ProficiencyNative         = "Native"
	ProficiencyFluent         = "Fluent"
	ProficiencyConversational = "Conversational"
	ProficiencyBasic          = "Basic"
)

// PersonalInfo holds the candidate's contact block.
type PersonalInfo struct {
	FullName string `json:"fullName,omitempty" validate:"required,min=2"`
	Email    string `json:"email,omitempty" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"required,min=9"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Location string `json:"location,omitempty" validate:"required,min=2"`
}

// Experience is a single position held by the candidate.
type Experience struct {
	Role        string   `json:"role" validate:"required,min=2"`
	Company     string   `json:"company" validate:"required,min=2"`
	Period      string   `json:"period" validate:"required,min=3"`
	Description []string `json:"description" validate:"required,min=1"`
}

// Education is a single degree or course of study.
type Education struct {
	Degree      string `json:"degree" validate:"required,min=2"`
	Institution string `json:"institution" validate:"required,min=2"`
	Period      string `json:"period" validate:"required,min=3"`
}

// SkillGroup groups skill items under a category heading.
type SkillGroup struct {
	Category string   `json:"category" validate:"required,min=2"`
	Items    []string `json:"items" validate:"required,min=1"`
}

// Project is a notable project the candidate worked on.
type Project struct {
	Name         string   `json:"name" validate:"required,min=2"`
	Description  string   `json:"description" validate:"required,min=10"`
	Technologies []string `json:"technologies" validate:"required,min=1"`
	Link         string   `json:"link,omitempty" validate:"omitempty,url"`
}

// Certification is a professional certificate.
type Certification struct {
	Name   string `json:"name" validate:"required,min=2"`
	Issuer string `json:"issuer" validate:"required,min=2"`
	Date   string `json:"date" validate:"required,min=4"`
}

// Language is a spoken language with its proficiency level.
type Language struct {
	Language    string `json:"language" validate:"required,min=2"`
	Proficiency string `json:"proficiency" validate:"required,oneof=Native Fluent Conversational Basic"`
}

// Profile is the candidate's knowledge base.
//
// The same shape serves both a fragment parsed from one uploaded file and the
// merged profile held by a session. Every field is optional: a nil pointer or
// nil slice means the source did not define the field, and an empty string
// means the same for scalars. A slice that is present must not be empty.
type Profile struct {
	PersonalInfo            *PersonalInfo   `json:"personalInfo,omitempty"`
	ProfessionalSummaryBase string          `json:"professionalSummaryBase,omitempty"`
	Experience              []Experience    `json:"experience,omitempty" validate:"omitnil,min=1,dive"`
	Education               []Education     `json:"education,omitempty" validate:"omitnil,min=1,dive"`
	Skills                  []SkillGroup    `json:"skills,omitempty" validate:"omitnil,min=1,dive"`
	Projects                []Project       `json:"projects,omitempty" validate:"omitnil,min=1,dive"`
	Certifications          []Certification `json:"certifications,omitempty" validate:"omitnil,min=1,dive"`
	Languages               []Language      `json:"languages,omitempty" validate:"omitnil,min=1,dive"`
}

// IsEmpty reports whether the profile defines no field at all.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.PersonalInfo == nil &&
		p.ProfessionalSummaryBase == "" &&
		p.Experience == nil &&
		p.Education == nil &&
		p.Skills == nil &&
		p.Projects == nil &&
		p.Certifications == nil &&
		p.Languages == nil
}

// MapStrings applies fn to every free-text field of the profile in place.
func (p *Profile) MapStrings(fn func(string) string) {
	if p == nil {
		return
	}
	if pi := p.PersonalInfo; pi != nil {
		pi.FullName = fn(pi.FullName)
		pi.Email = fn(pi.Email)
		pi.Phone = fn(pi.Phone)
		pi.LinkedIn = fn(pi.LinkedIn)
		pi.Location = fn(pi.Location)
	}
	p.ProfessionalSummaryBase = fn(p.ProfessionalSummaryBase)
	for i := range p.Experience {
		e := &p.Experience[i]
		e.Role = fn(e.Role)
		e.Company = fn(e.Company)
		e.Period = fn(e.Period)
		mapSlice(e.Description, fn)
	}
	for i := range p.Education {
		e := &p.Education[i]
		e.Degree = fn(e.Degree)
		e.Institution = fn(e.Institution)
		e.Period = fn(e.Period)
	}
	for i := range p.Skills {
		p.Skills[i].Category = fn(p.Skills[i].Category)
		mapSlice(p.Skills[i].Items, fn)
	}
	for i := range p.Projects {
		pr := &p.Projects[i]
		pr.Name = fn(pr.Name)
		pr.Description = fn(pr.Description)
		pr.Link = fn(pr.Link)
		mapSlice(pr.Technologies, fn)
	}
	for i := range p.Certifications {
		c := &p.Certifications[i]
		c.Name = fn(c.Name)
		c.Issuer = fn(c.Issuer)
		c.Date = fn(c.Date)
	}
	for i := range p.Languages {
		p.Languages[i].Language = fn(p.Languages[i].Language)
	}
}

func mapSlice(items []string, fn func(string) string) {
	for i := range items {
		items[i] = fn(items[i])
	}
}
