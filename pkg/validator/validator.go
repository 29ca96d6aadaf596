package validator

import (
	"fmt"
	"mime"
	"regexp"
	"strings"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 128
	maxFileNameLen    = 255
	maxContentTypeLen = 255
	maxUploadBatch    = 500
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt           = "email cannot be empty"
	errEmailLengthFmt          = "email must be between %d and %d characters"
	errEmailInvalidFmt         = "invalid email format"
	errPasswordMinLengthFmt    = "password must be at least %d characters"
	errPasswordMaxLengthFmt    = "password must not exceed %d characters"
	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNamePathSepFmt      = "file name cannot contain path separators"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
	errContentTypeMaxLengthFmt = "content type must not exceed %d characters"
	errContentTypeInvalidFmt   = "invalid content type"
	errUploadBatchEmptyFmt     = "upload batch cannot be empty"
	errUploadBatchMaxFmt       = "upload batch must not exceed %d files"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf(errFileNamePathSepFmt)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errFileNameControlCharsFmt)
		}
	}

	return nil
}

func ContentType(contentType string) error {
	if contentType == "" {
		return nil
	}

	if len(contentType) > maxContentTypeLen {
		return fmt.Errorf(errContentTypeMaxLengthFmt, maxContentTypeLen)
	}

	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return fmt.Errorf(errContentTypeInvalidFmt)
	}

	return nil
}

func UploadBatchSize(count int) error {
	if count == 0 {
		return fmt.Errorf(errUploadBatchEmptyFmt)
	}

	if count > maxUploadBatch {
		return fmt.Errorf(errUploadBatchMaxFmt, maxUploadBatch)
	}

	return nil
}
