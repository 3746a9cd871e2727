package domain

// ContentType is the type of a content element on a page.
//
// Usage: construct via ParseContentType at trust boundaries; direct casting
// bypasses validation.
type ContentType string

// Content types this service reads.
const (
	ContentTypeForm        ContentType = "form_formframework"
	ContentTypeFormContent ContentType = "form_formframework_content"
	ContentTypePrefill     ContentType = "formprefill"
)

// formContentTypes is the single source of truth for form-bearing elements.
var formContentTypes = map[ContentType]bool{
	ContentTypeForm:        true,
	ContentTypeFormContent: true,
}

// ParseContentType accepts any non-empty content type; unknown types are
// valid content, they are simply not form-bearing.
func ParseContentType(s string) (ContentType, bool) {
	if s == "" {
		return "", false
	}
	return ContentType(s), true
}

// IsForm reports whether elements of this type embed a form definition.
func (c ContentType) IsForm() bool {
	return formContentTypes[c]
}

// FormContentTypes returns the form-bearing content types in a stable order.
func FormContentTypes() []ContentType {
	return []ContentType{ContentTypeForm, ContentTypeFormContent}
}

func (c ContentType) String() string {
	return string(c)
}
