package model

// error interface used by repositories and controllers

type HttpError struct {
	Status    int
	Message   string
	RootError error
}

func (err *HttpError) Error() string {
	return err.Message
}

func (err *HttpError) GetRoot() error {
	return err.RootError
}

type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Kinds of failures detected when validating SPs and metadata sources or when
// allocating persistent identifiers.
type ErrorKind string

const (
	ErrorUnknownProcessor    ErrorKind = "UnknownProcessor"
	ErrorMalformedMapping    ErrorKind = "MalformedMapping"
	ErrorEntityNotInMetadata ErrorKind = "EntityNotInMetadata"
	ErrorSourceUnreachable   ErrorKind = "SourceUnreachable"
	ErrorMalformedXML        ErrorKind = "MalformedXML"
	ErrorEmptySource         ErrorKind = "EmptySource"
	ErrorMalformedKwargs     ErrorKind = "MalformedKwargs"
	ErrorAllocationConflict  ErrorKind = "AllocationConflict"
)

// ValidationError is the typed result of a failed validation check. It is
// recorded as a flag change on the entry and returned as a value, never
// raised as a fatal condition.
type ValidationError struct {
	Kind      ErrorKind
	Message   string
	RootError error
}

func (err *ValidationError) Error() string {
	return err.Message
}

func (err *ValidationError) GetRoot() error {
	return err.RootError
}
