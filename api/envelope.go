package api

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Envelope is the portal's standard response wrapper. List and detail
// responses carry {data}; mutation responses carry {message, data}.
type Envelope struct {
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the enveloped payload into out.
func (e Envelope) Decode(out any) error {
	if len(e.Data) == 0 {
		return errors.New("[Envelope.Decode] response carried no data")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return errors.Wrap(err, "[Envelope.Decode] json.Unmarshal")
	}
	return nil
}
