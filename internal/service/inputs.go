package service

import (
	"bytes"
	"encoding/json"
	"time"
)

// IDInput принимает и объект {"id": n}, и голое число.
type IDInput struct {
	ID uint `json:"id" validate:"required"`
}

func (in *IDInput) UnmarshalJSON(data []byte) error {
	type plain IDInput
	return unmarshalBareID(data, &in.ID, (*plain)(in))
}

// unmarshalBareID кладёт голое число в id, а объект разбирает в obj.
func unmarshalBareID(data []byte, id *uint, obj any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' && !bytes.Equal(trimmed, []byte("null")) {
		return json.Unmarshal(trimmed, id)
	}
	return json.Unmarshal(data, obj)
}

type Empty struct{}

type DateRangeInput struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

func (in DateRangeInput) check() error {
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return ErrInvalidDateRange
	}
	return nil
}
