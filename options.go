package nettrace

import "github.com/verdie-g/nettrace/internal/nettrace/envelope"

// ProgressSink receives (bytesRead, eventsRead) at block boundaries, per
// §6 "decoder configuration". Decode reports after every fully consumed
// block (EventBlock, MetadataBlock, StackBlock, SPBlock) — the finest
// granularity at which bytesRead is a meaningful checkpoint.
type ProgressSink func(bytesRead int64, eventsRead int)

// Option configures a Decode call, following the functional-options shape
// used throughout the retrieval pack's ETW metadata builder
// (microsoft-go-winio's fieldOpt: WithOutType/WithTags/WithArray).
type Option func(*config)

type config struct {
	progress      ProgressSink
	readerVersion int32
}

func newConfig() *config {
	return &config{readerVersion: envelope.ReaderVersion}
}

// WithProgressSink registers sink to receive progress callbacks as blocks
// are consumed.
func WithProgressSink(sink ProgressSink) Option {
	return func(c *config) { c.progress = sink }
}

// WithReaderVersion overrides the highest min_reader_version this Decode
// call accepts, primarily for compatibility testing against older or newer
// synthetic traces than the default (envelope.ReaderVersion).
func WithReaderVersion(version int32) Option {
	return func(c *config) { c.readerVersion = version }
}
