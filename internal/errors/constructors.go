package errors

import "fmt"

// Input errors

func MissingInput(what, path string) *Error {
	return New(CategoryInput, SeverityFatal, fmt.Sprintf("%s not found: %s", what, path)).
		WithContext("path", path)
}

func UnreadableInput(what, path string, cause error) *Error {
	return Wrap(cause, CategoryInput, SeverityFatal, fmt.Sprintf("unable to read %s", what)).
		WithContext("path", path)
}

// Config errors

func ConfigLoadFailed(path string, cause error) *Error {
	return Wrap(cause, CategoryConfig, SeverityFatal, "failed to load configuration").
		WithContext("path", path)
}

func InvalidConfig(field, reason string) *Error {
	return New(CategoryConfig, SeverityFatal, fmt.Sprintf("invalid configuration: %s %s", field, reason)).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Processing errors

func MetadataUnreadable(path string, cause error) *Error {
	return Wrap(cause, CategoryMetadata, SeverityFatal, "unable to read library metadata").
		WithContext("path", path)
}

func DownloadFailed(packageID string, cause error) *Error {
	return Wrap(cause, CategoryNetwork, SeverityFatal, "package download failed").
		WithContext("package", packageID)
}

func OutputFailed(path string, cause error) *Error {
	return Wrap(cause, CategoryOutput, SeverityFatal, "failed to write documentation").
		WithContext("path", path)
}
