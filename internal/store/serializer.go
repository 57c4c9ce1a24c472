package store

import (
	"bytes"
	"compress/zlib"
	"io"
	"strings"

	"github.com/valyala/fastjson"
)

type SnapshotSerializer interface {
	Serialize(snapshot *Snapshot) ([]byte, error)
	Deserialize(value []byte) (*Snapshot, error)
}

func NewJsonSerializer() *JsonSerializer {
	return &JsonSerializer{
		parserPool: &fastjson.ParserPool{},
	}
}

type JsonSerializer struct {
	parserPool *fastjson.ParserPool
}

// Reasons for manual JSON serialization:
// 1. The Snapshot must be pure and must not contain tags.
// 2. Without tags it's impossible to apply omitempty during serialization.
// 3. Omitting entries is semantically meaningful here: an absent player name
//    is a distinct state from an empty one and must survive a round trip.
// Since the JSON structure in this case is very simple, it's very easy to write
// a manual serialization, achieving all constraints above.
func (s *JsonSerializer) Serialize(snapshot *Snapshot) ([]byte, error) {
	var builder strings.Builder
	// An uploaded skin is stored as a data url, so prepare for a payload
	// of megabytes to prevent additional allocations during serialization
	builder.Grow(128 + len(snapshot.CurrentSkin))
	builder.WriteString(`{`)
	comma := false
	if snapshot.CurrentSkin != "" {
		builder.WriteString(`"currentSkin":"`)
		builder.WriteString(snapshot.CurrentSkin)
		builder.WriteString(`"`)
		comma = true
	}

	if snapshot.CurrentPlayerName != "" {
		if comma {
			builder.WriteString(`,`)
		}

		builder.WriteString(`"currentPlayerName":"`)
		builder.WriteString(snapshot.CurrentPlayerName)
		builder.WriteString(`"`)
		comma = true
	}

	if snapshot.AnimationEnabled != "" {
		if comma {
			builder.WriteString(`,`)
		}

		builder.WriteString(`"animationEnabled":"`)
		builder.WriteString(snapshot.AnimationEnabled)
		builder.WriteString(`"`)
	}

	builder.WriteString("}")

	return []byte(builder.String()), nil
}

func (s *JsonSerializer) Deserialize(value []byte) (*Snapshot, error) {
	parser := s.parserPool.Get()
	defer s.parserPool.Put(parser)
	v, err := parser.ParseBytes(value)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		CurrentSkin:       string(v.GetStringBytes("currentSkin")),
		CurrentPlayerName: string(v.GetStringBytes("currentPlayerName")),
		AnimationEnabled:  string(v.GetStringBytes("animationEnabled")),
	}

	return snapshot, nil
}

func NewZlibEncoder(serializer SnapshotSerializer) *ZlibEncoder {
	return &ZlibEncoder{serializer}
}

type ZlibEncoder struct {
	serializer SnapshotSerializer
}

func (s *ZlibEncoder) Serialize(snapshot *Snapshot) ([]byte, error) {
	serialized, err := s.serializer.Serialize(snapshot)
	if err != nil {
		return nil, err
	}

	var buff bytes.Buffer
	writer := zlib.NewWriter(&buff)
	_, err = writer.Write(serialized)
	if err != nil {
		return nil, err
	}

	_ = writer.Close()

	return buff.Bytes(), nil
}

func (s *ZlibEncoder) Deserialize(value []byte) (*Snapshot, error) {
	buff := bytes.NewReader(value)
	reader, err := zlib.NewReader(buff)
	if err != nil {
		return nil, err
	}

	resultBuffer := new(bytes.Buffer)
	_, err = io.Copy(resultBuffer, reader)
	if err != nil {
		return nil, err
	}

	_ = reader.Close()

	return s.serializer.Deserialize(resultBuffer.Bytes())
}
