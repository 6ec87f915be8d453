package types

// Attachment is a previous resume document uploaded alongside the profile.
// It is never merged and is forwarded to the model verbatim.
type Attachment struct {
	FileName string `json:"fileName"`
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"-"`
	Pages    int    `json:"pages,omitempty"`
}

// Size returns the payload size in bytes.
func (a Attachment) Size() int {
	return len(a.Data)
}

// ResumeHeader is the contact block of a generated resume.
type ResumeHeader struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location"`
}

// ResumeExperience is a position in the generated resume with rewritten bullets.
type ResumeExperience struct {
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Period      string   `json:"period"`
	Description []string `json:"description"`
}

// ResumeEducation is an education entry in the generated resume.
type ResumeEducation struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

// GeneratedDocument is the tailored resume returned by the model.
type GeneratedDocument struct {
	PersonalInfo ResumeHeader       `json:"personalInfo"`
	Summary      string             `json:"summary"`
	Experience   []ResumeExperience `json:"experience"`
	Education    []ResumeEducation  `json:"education"`
	Skills       []SkillGroup       `json:"skills"`
}
