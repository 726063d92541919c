package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// MaxCVSize is the largest CV the backend accepts.
const MaxCVSize = 10 * 1024 * 1024

// Messages shown for apply-form problems.
const (
	MsgCoverLetterShort = "Please write a more detailed cover letter (at least 100 characters)."
	MsgCVMissing        = "Please upload your CV file."
	MsgCVTooLarge       = "File size must be less than 10MB. Your file is too large."
	MsgCVNotPDF         = "Only PDF files are allowed."
	MsgApplyConfirm     = "Are you sure you want to submit your application? You cannot edit it after submission."
)

// CVFile describes a chosen CV. MIME is sniffed from the content, not the
// file name.
type CVFile struct {
	Path string `form:"cv_file"`
	Size int64  `form:"size" validate:"lte=10485760"`
	MIME string `form:"mime" validate:"contains=pdf"`
}

// Name returns the base name of the file.
func (f *CVFile) Name() string {
	return filepath.Base(f.Path)
}

// InspectCV stats path and sniffs its content type.
func InspectCV(path string) (*CVFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading cv %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading cv %s: is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detecting cv type %s: %w", path, err)
	}
	return &CVFile{Path: path, Size: info.Size(), MIME: mt.String()}, nil
}

// Application is the apply form as filled in.
type Application struct {
	CoverLetter string  `form:"cover_letter" validate:"trimmed_min=100"`
	CV          *CVFile `form:"cv_file" validate:"required"`
}

// Apply checks a filled-in form. When several things are wrong the CV
// problem is reported, since it is the last field on the form.
func Apply(app Application) error {
	failed, err := failures(app)
	if err != nil {
		return err
	}
	if len(failed) == 0 {
		return nil
	}

	switch {
	case failed["cv_file"] != "":
		return &Error{Field: "cv_file", Message: MsgCVMissing}
	case failed["size"] != "":
		return &Error{Field: "cv_file", Message: MsgCVTooLarge}
	case failed["mime"] != "":
		return &Error{Field: "cv_file", Message: MsgCVNotPDF}
	case failed["cover_letter"] != "":
		return &Error{Field: "cover_letter", Message: MsgCoverLetterShort}
	}
	return nil
}

// CheckCV validates a file the moment it is chosen. The type is checked
// before the size.
func CheckCV(f *CVFile) error {
	if f == nil {
		return &Error{Field: "cv_file", Message: MsgCVMissing}
	}
	failed, err := failures(f)
	if err != nil {
		return err
	}
	switch {
	case failed["mime"] != "":
		return &Error{Field: "cv_file", Message: MsgCVNotPDF}
	case failed["size"] != "":
		return &Error{Field: "cv_file", Message: MsgCVTooLarge}
	}
	return nil
}

// Band is the colour band of the cover-letter character counter.
type Band int

const (
	BandDanger Band = iota
	BandWarning
	BandOK
)

// CoverLetterBand classifies the untrimmed length of text.
func CoverLetterBand(text string) Band {
	n := utf8.RuneCountInString(text)
	switch {
	case n < 100:
		return BandDanger
	case n < 200:
		return BandWarning
	default:
		return BandOK
	}
}
