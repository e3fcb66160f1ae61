package a2a

import "encoding/json"

// ParseEnvelope validates a raw JSON-RPC request body. It returns nil unless
// the body is a JSON object with jsonrpc "2.0", a string method, and an id
// that is a string, a number, null, or absent. Callers map nil to a
// protocol-level error; parsing never fails loudly.
func ParseEnvelope(raw []byte) *Envelope {
	var probe struct {
		JSONRPC *string         `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  *string         `json:"method"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	if probe.JSONRPC == nil || *probe.JSONRPC != "2.0" {
		return nil
	}
	if probe.Method == nil {
		return nil
	}

	id, ok := decodeID(probe.ID)
	if !ok {
		return nil
	}

	return &Envelope{
		JSONRPC: "2.0",
		ID:      id,
		Method:  *probe.Method,
		Params:  probe.Params,
	}
}

// SalvageID extracts a usable JSON-RPC id from a body that failed envelope
// validation, so error responses can still echo it. Returns nil when no id
// can be recovered.
func SalvageID(raw []byte) any {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	id, ok := decodeID(probe.ID)
	if !ok {
		return nil
	}
	return id
}

// decodeID accepts string, number, null, or absent ids.
func decodeID(raw json.RawMessage) (any, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	var id any
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, false
	}
	switch id.(type) {
	case string, float64, nil:
		return id, true
	}
	return nil, false
}

// ResultEnvelope wraps a successful payload, echoing the id verbatim
// (including null).
func ResultEnvelope(id, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

// ErrorEnvelope produces a JSON-RPC error envelope carrying both the numeric
// code and a machine-readable string code plus human detail.
func ErrorEnvelope(id any, code int, machineCode, message, detail string) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &ErrorObject{
			Code:    code,
			Message: message,
			Data:    ErrorData{Code: machineCode, Detail: detail},
		},
	}
}
