package domain

// Snapshot is the last scored assessment, shared with the chat assistant.
type Snapshot struct {
	Type    Type
	Inputs  map[string]any
	Results map[string]any
}

// RecordData is the history payload: the submitted values overlaid with the
// result fields.
func RecordData(values map[string]any, result Result) map[string]any {
	data := make(map[string]any, len(values))
	for k, v := range values {
		data[k] = v
	}
	if result != nil {
		for k, v := range result.Fields() {
			data[k] = v
		}
	}
	return data
}
