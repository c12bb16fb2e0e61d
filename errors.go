package confcore

import "fmt"

// ErrorKind is the stable error taxonomy. Numeric exit-code mapping is
// left to the caller.
type ErrorKind int

const (
	KindCommandInvalid ErrorKind = iota
	KindCommandRequired
	KindParamInvalid
	KindOptionInvalid
	KindOptionInvalidValue
	KindOptionRequired
	KindFormatError
	KindAssertError
)

func (k ErrorKind) String() string {
	switch k {
	case KindCommandInvalid:
		return "CommandInvalid"
	case KindCommandRequired:
		return "CommandRequired"
	case KindParamInvalid:
		return "ParamInvalid"
	case KindOptionInvalid:
		return "OptionInvalid"
	case KindOptionInvalidValue:
		return "OptionInvalidValue"
	case KindOptionRequired:
		return "OptionRequired"
	case KindFormatError:
		return "FormatError"
	case KindAssertError:
		return "AssertError"
	default:
		return "UnknownError"
	}
}

// ParseError is satisfied by every error this package returns from Parse.
type ParseError interface {
	error
	Kind() ErrorKind
}

type parseError struct {
	kind ErrorKind
	msg  string
}

func (e *parseError) Error() string   { return e.msg }
func (e *parseError) Kind() ErrorKind { return e.kind }

func errCommandInvalid(format string, args ...any) error {
	return &parseError{KindCommandInvalid, fmt.Sprintf(format, args...)}
}

func errCommandRequired(format string, args ...any) error {
	return &parseError{KindCommandRequired, fmt.Sprintf(format, args...)}
}

func errParamInvalid(format string, args ...any) error {
	return &parseError{KindParamInvalid, fmt.Sprintf(format, args...)}
}

func errOptionInvalid(format string, args ...any) error {
	return &parseError{KindOptionInvalid, fmt.Sprintf(format, args...)}
}

func errOptionInvalidValue(format string, args ...any) error {
	return &parseError{KindOptionInvalidValue, fmt.Sprintf(format, args...)}
}

func errOptionRequired(format string, args ...any) error {
	return &parseError{KindOptionRequired, fmt.Sprintf(format, args...)}
}

func errFormatError(format string, args ...any) error {
	return &parseError{KindFormatError, fmt.Sprintf(format, args...)}
}

// assertError panics: it indicates a bug in this package, not bad user
// input.
func assertError(format string, args ...any) {
	panic(&parseError{KindAssertError, fmt.Sprintf("Assertion failed: "+format, args...)})
}
