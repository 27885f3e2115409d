package jsoniter

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var instance = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v any) ([]byte, error) {
	return instance.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return instance.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return instance.Unmarshal(data, v)
}

func NewEncoder(writer io.Writer) *jsoniter.Encoder {
	return instance.NewEncoder(writer)
}

func NewDecoder(reader io.Reader) *jsoniter.Decoder {
	return instance.NewDecoder(reader)
}
