package domain

// DocumentType classifies a course document.
type DocumentType string

const (
	// DocumentTypeNotes is lecture or personal notes.
	DocumentTypeNotes DocumentType = "notes"
	// DocumentTypeSlides is lecture slides.
	DocumentTypeSlides DocumentType = "slides"
	// DocumentTypeTextbook is textbook or script material.
	DocumentTypeTextbook DocumentType = "textbook"
	// DocumentTypeExam is past exams and practice sheets.
	DocumentTypeExam DocumentType = "exam"
	// DocumentTypeOther is any unclassified document.
	DocumentTypeOther DocumentType = "other"
)

// ParseDocumentType maps a string to a DocumentType, defaulting to
// DocumentTypeOther for unknown values.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(s) {
	case DocumentTypeNotes, DocumentTypeSlides, DocumentTypeTextbook, DocumentTypeExam:
		return DocumentType(s)
	default:
		return DocumentTypeOther
	}
}
