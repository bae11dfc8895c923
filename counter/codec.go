package counter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/d0ngw/statcounter/cache"
)

// Codec encode and decode the counts of FileCounter
type Codec interface {
	Name() string
	Encode(counts map[string]int64) ([]byte, error)
	Decode(data []byte) (map[string]int64, error)
}

// 支持的编码
var (
	// JSONCodec a flat JSON object,key -> non-negative integer
	JSONCodec Codec = jsonCodec{}
	// MsgpackCodec a msgpack map,key -> non-negative integer
	MsgpackCodec Codec = msgpackCodec{}
)

// CodecByName find codec by name,"" is json
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", JSONCodec.Name():
		return JSONCodec, nil
	case MsgpackCodec.Name():
		return MsgpackCodec, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(counts map[string]int64) ([]byte, error) {
	if counts == nil {
		counts = map[string]int64{}
	}
	return cache.JSONEncodeBytes(counts)
}

func (jsonCodec) Decode(data []byte) (map[string]int64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty content")
	}
	if data[0] != '{' {
		return nil, errors.New("content is not a JSON object")
	}
	// 使用指针区分null
	values := map[string]*int64{}
	if err := cache.JSONDecodeBytes(data, &values); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(values))
	for k, v := range values {
		if v == nil {
			return nil, fmt.Errorf("null count of %q", k)
		}
		counts[k] = *v
	}
	return counts, checkCounts(counts)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Encode(counts map[string]int64) ([]byte, error) {
	if counts == nil {
		counts = map[string]int64{}
	}
	return cache.MsgPackEncodeBytes(counts)
}

func (msgpackCodec) Decode(data []byte) (map[string]int64, error) {
	counts := map[string]int64{}
	if err := cache.MsgPackDecodeBytes(data, &counts); err != nil {
		return nil, err
	}
	return counts, checkCounts(counts)
}

func checkCounts(counts map[string]int64) error {
	for k, v := range counts {
		if v < 0 {
			return fmt.Errorf("negative count %d of %q", v, k)
		}
	}
	return nil
}
