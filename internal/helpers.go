// Package internal holds helpers shared by the netdoc packages.
package internal

// PanicOnError panics if given non-nil error.
// Use it only for programming errors, like binding flags that were never registered.
func PanicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
