package nettrace

import "github.com/verdie-g/nettrace/internal/nettrace/xerrors"

// Error, Kind and the Kind constants are re-exported from the internal
// xerrors package so every internal decode stage shares one error shape
// while callers only ever import the root package.
type (
	Error = xerrors.Error
	Kind  = xerrors.Kind
)

const (
	UnexpectedFormat  = xerrors.UnexpectedFormat
	CorruptedTrace    = xerrors.CorruptedTrace
	UnsupportedField  = xerrors.UnsupportedField
	UpstreamIO        = xerrors.UpstreamIO
)
