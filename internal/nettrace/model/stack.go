package model

// MethodDescription identifies the managed method occupying one address
// range, as reported by a MethodLoadUnloadVerbose rundown event.
type MethodDescription struct {
	Name         string
	Namespace    string
	Signature    string
	ModuleID     uint64
	StartAddress uint64
	Size         uint64
}

// unresolvedMethod is the sentinel frame for an address that cannot be
// mapped to any known method (either below the lowest known start address,
// or past its method's end).
var unresolvedMethod = MethodDescription{
	Name:      "??",
	Namespace: "",
	Signature: "",
}

// Unresolved returns the sentinel frame shared by every address that fails
// to resolve to a known method.
func Unresolved() MethodDescription { return unresolvedMethod }

// IsUnresolved reports whether m is the Unresolved sentinel.
func (m MethodDescription) IsUnresolved() bool {
	return m.Name == unresolvedMethod.Name && m.StartAddress == 0 && m.Size == 0
}

// StackTrace is an ordered sequence of resolved method frames, shared by
// every stack id whose address vector is identical (structural dedup).
type StackTrace struct {
	Index   StackIndex
	Frames  []MethodDescription
}

// StackTraceEmpty is the sentinel representing "no frames" — used for an
// empty address vector and for any stack id with no recorded address vector.
var StackTraceEmpty = &StackTrace{Index: -1, Frames: nil}

// IsEmpty reports whether s is the Empty sentinel (or has no frames).
func (s *StackTrace) IsEmpty() bool {
	return s == nil || len(s.Frames) == 0
}
