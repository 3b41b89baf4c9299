package component

import "errors"

// Structural errors abort the conversion of one document.
var (
	ErrMissingDeclaration   = errors.New("missing declaration")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnsupportedInputKind = errors.New("unsupported input kind")
	ErrUnknownStyle         = errors.New("unknown style")
)

// DiagnosticKind names a tolerated anomaly.
type DiagnosticKind string

// Tolerated anomalies, recorded but never raised.
const (
	MalformedNesting        DiagnosticKind = "malformed_nesting"
	UnrecognizedMemberShape DiagnosticKind = "unrecognized_member_shape"
)

// Diagnostic is a tolerated anomaly found while converting a document.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"    yaml:"kind"`
	Message string         `json:"message" yaml:"message"`
	Line    int            `json:"line"    yaml:"line"`
}
