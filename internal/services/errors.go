package services

import "errors"

// ErrEmptyUpload is returned when Process receives no files.
var ErrEmptyUpload = errors.New("no files provided")
