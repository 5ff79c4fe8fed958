package payload

import "github.com/verdie-g/nettrace/internal/nettrace/model"

const (
	rundownProvider          = "Microsoft-Windows-DotNETRuntimeRundown"
	methodLoadUnloadVerbose  = 144
)

// MaybeRegisterMethod implements the §4.8 side effect: when an event comes
// from the runtime-rundown provider's MethodLoadUnloadVerbose event, its
// address/size/name fields describe one managed method and are registered
// with the stack resolver's method table so later stack resolution can map
// addresses in that range back to source.
func (ip *Interpreter) MaybeRegisterMethod(meta *model.EventMetadata, p model.Payload) {
	if meta == nil || meta.ProviderName != rundownProvider || meta.EventID != methodLoadUnloadVerbose {
		return
	}

	startAddr, ok := p.Get("MethodStartAddress")
	if !ok {
		return
	}
	size, _ := p.Get("MethodSize")
	namespace, _ := p.Get("MethodNamespace")
	name, _ := p.Get("MethodName")
	signature, _ := p.Get("MethodSignature")
	moduleID, _ := p.Get("ModuleID")

	ip.methods.Add(model.MethodDescription{
		Name:         name.Str,
		Namespace:    namespace.Str,
		Signature:    signature.Str,
		ModuleID:     asUint64(moduleID),
		StartAddress: asUint64(startAddr),
		Size:         asUint64(size),
	})
}

// asUint64 widens whatever integer variant the field was declared as
// (UInt64 or UInt32 in the override schema; a trace's own in-file schema
// may use other widths) into the uint64 MethodDescription expects.
func asUint64(v model.Value) uint64 {
	switch v.Type {
	case model.TypeUInt64:
		return v.U64
	case model.TypeUInt32:
		return uint64(v.U32)
	case model.TypeInt64:
		return uint64(v.I64)
	case model.TypeInt32:
		return uint64(v.I32)
	default:
		return 0
	}
}
