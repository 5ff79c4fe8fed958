package envelope

import (
	"time"

	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
)

// DecodeTraceHeader reads the "Trace" object body per §4.3: year, month,
// day-of-week (ignored), day, hour, minute, second, millisecond as i16,
// then qpc_sync_time/qpc_frequency as i64, then pointer_size/process_id/
// number_of_processors/cpu_sampling_rate as i32.
func DecodeTraceHeader(r *reader.Reader) (model.TraceMetadata, error) {
	year, err := r.ReadI16()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading year")
	}
	month, err := r.ReadI16()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading month")
	}
	if _, err := r.ReadI16(); err != nil { // day_of_week, ignored
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading day_of_week")
	}
	day, err := r.ReadI16()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading day")
	}
	hour, err := r.ReadI16()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading hour")
	}
	minute, err := r.ReadI16()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading minute")
	}
	second, err := r.ReadI16()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading second")
	}
	millisecond, err := r.ReadI16()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading millisecond")
	}

	qpcSyncTime, err := r.ReadI64()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading qpc_sync_time")
	}
	qpcFrequency, err := r.ReadI64()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading qpc_frequency")
	}

	pointerSize, err := r.ReadI32()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading pointer_size")
	}
	processID, err := r.ReadI32()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading process_id")
	}
	numProcessors, err := r.ReadI32()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading number_of_processors")
	}
	cpuSamplingRate, err := r.ReadI32()
	if err != nil {
		return model.TraceMetadata{}, wrapReadErr(r, err, "reading cpu_sampling_rate")
	}

	startTime := time.Date(
		int(year), time.Month(month), int(day),
		int(hour), int(minute), int(second), int(millisecond)*int(time.Millisecond),
		time.UTC,
	)

	return model.TraceMetadata{
		StartTime:          startTime,
		QPCSyncTime:        qpcSyncTime,
		QPCFrequency:       qpcFrequency,
		PointerSize:        pointerSize,
		ProcessID:          processID,
		NumberOfProcessors: numProcessors,
		CPUSamplingRate:    cpuSamplingRate,
	}, nil
}
