package pipeline

import "encoding/json"

// Decision is what a Controller accumulates while running an asset
// through a policy's rules, and what gets pretty-printed into the
// runtimepolicy output latch once every rule has run.
type Decision struct {
	AssetID  string                 `json:"asset_id"`
	Blocked  bool                   `json:"blocked"`
	Reason   string                 `json:"reason,omitempty"`
	Allowed  bool                   `json:"allowed"`
	Tags     map[string]string      `json:"tags,omitempty"`
	Routes   []string               `json:"routes,omitempty"`
	Alerts   []string               `json:"alerts,omitempty"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
	Rules    []string               `json:"matched_rules,omitempty"`
}

func newDecision(assetID string) *Decision {
	return &Decision{
		AssetID: assetID,
		Tags:    make(map[string]string),
		Fields:  make(map[string]interface{}),
	}
}

// Render pretty-prints the decision the way the rest of the system's JSON
// export paths do: two-space indentation.
func (d *Decision) Render() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
