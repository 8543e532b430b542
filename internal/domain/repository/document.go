package repository

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Document is one stored document as returned by a DocumentStore.
type Document struct {
	ID         string
	Fields     map[string]any
	CreateTime time.Time
	UpdateTime time.Time
}

// DataTo decodes the document fields into the struct pointed to by v using
// its firestore tags. Timestamps written as RFC 3339 strings by older
// clients are accepted.
func (d Document) DataTo(v any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           v,
		TagName:          "firestore",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			timestampHook,
		),
	})
	if err != nil {
		return errors.Wrap(err, "mapstructure.NewDecoder")
	}

	if err := decoder.Decode(d.Fields); err != nil {
		return errors.Wrapf(err, "decode document %s", d.ID)
	}

	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// timestampHook resolves unresolved ServerTimestamp sentinels to the zero time.
func timestampHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to == timeType && IsServerTimestamp(data) {
		return time.Time{}, nil
	}

	return data, nil
}
