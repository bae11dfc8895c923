package cache

import (
	"errors"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/ugorji/go/codec"
)

var (
	msgpackHandle = &codec.MsgpackHandle{}
	json          = jsoniter.ConfigCompatibleWithStandardLibrary

	errEmptyBytes = errors.New("nil bytes to decode")
)

func init() {
	msgpackHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
}

// MsgPackEncodeBytes encode data to bytes use msgpack
func MsgPackEncodeBytes(data interface{}) (bytes []byte, err error) {
	enc := codec.NewEncoderBytes(&bytes, msgpackHandle)
	err = enc.Encode(data)
	return
}

// MsgPackDecodeBytes decode bytes to dest use msgpack
func MsgPackDecodeBytes(bytes []byte, dest interface{}) (err error) {
	if len(bytes) == 0 {
		return errEmptyBytes
	}
	dec := codec.NewDecoderBytes(bytes, msgpackHandle)
	return dec.Decode(dest)
}

// JSONEncodeBytes encode data to bytes use json,map keys are sorted
func JSONEncodeBytes(data interface{}) ([]byte, error) {
	return json.Marshal(data)
}

// JSONDecodeBytes decode bytes to dest use json
func JSONDecodeBytes(bytes []byte, dest interface{}) error {
	if len(bytes) == 0 {
		return errEmptyBytes
	}
	return json.Unmarshal(bytes, dest)
}
