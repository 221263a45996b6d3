package types

import (
	"github.com/mesh-intelligence/webindex/pkg/table"
)

// MetadataCodec maps Metadata records to and from their table form.
type MetadataCodec struct{}

var _ Codec[Metadata] = MetadataCodec{}

// ToTable converts Metadata records into a columnar table.
func (MetadataCodec) ToTable(records []Metadata) (*table.Table, error) {
	n := len(records)
	states := make([]string, n)
	urls := make([]string, n)
	logs := make([]*string, n)
	tracebacks := make([]*string, n)
	runTimes := make([]*float64, n)

	for i, r := range records {
		states[i] = r.State
		urls[i] = r.URL.String()
		logs[i] = r.Logs
		tracebacks[i] = r.Traceback
		runTimes[i] = r.RunTime
	}

	return table.New(
		table.Strings("state", states),
		table.Strings("url", urls),
		table.NullableStrings("logs", logs),
		table.NullableStrings("traceback", tracebacks),
		table.NullableFloat64s("run_time", runTimes),
	)
}

// FromTable converts a columnar table back into Metadata records.
func (MetadataCodec) FromTable(t *table.Table) ([]Metadata, error) {
	states, err := requiredStrings(t, "state")
	if err != nil {
		return nil, err
	}
	urls, err := requiredStrings(t, "url")
	if err != nil {
		return nil, err
	}
	logs, err := t.Strings("logs")
	if err != nil {
		return nil, err
	}
	tracebacks, err := t.Strings("traceback")
	if err != nil {
		return nil, err
	}
	runTimes, err := t.Float64s("run_time")
	if err != nil {
		return nil, err
	}

	out := make([]Metadata, t.NumRows())
	for i := range out {
		u, err := parseRecordURL(urls[i])
		if err != nil {
			return nil, err
		}
		out[i] = Metadata{
			State:     states[i],
			URL:       u,
			Logs:      logs[i],
			Traceback: tracebacks[i],
			RunTime:   runTimes[i],
		}
	}
	return out, nil
}
