package transport

import (
	"encoding/json"
	"fmt"

	"github.com/accord-lang/accord/internal/actx"
	consumer "github.com/harlow/kinesis-consumer"
)

// KinesisSource is an inbound-only ingestion path: it has no Call or
// Cast of its own, since a Kinesis stream is a one-way feed. Instead
// it scans a stream and hands each decoded record to Handle, which a
// caller wires to a monitor's Cast entry point. Grounded on the
// teacher's go.mod, which pulls in github.com/harlow/kinesis-consumer
// alongside aws-sdk-go for stream-backed chans.
type KinesisSource struct {
	StreamName string
	consumer   *consumer.Consumer

	// Handle is invoked once per record with the JSON-decoded payload
	// (falling back to the raw bytes as a string on decode failure).
	// Handle errors abort the Run scan.
	Handle func(ctx *actx.Ctx, msg interface{}) error
}

// NewKinesisSource builds a KinesisSource over streamName using the
// library's default client configuration (shared AWS config/region).
func NewKinesisSource(streamName string, handle func(ctx *actx.Ctx, msg interface{}) error) (*KinesisSource, error) {
	c, err := consumer.New(streamName)
	if err != nil {
		return nil, fmt.Errorf("%w: kinesis consumer: %v", ErrUnavailable, err)
	}
	return &KinesisSource{StreamName: streamName, consumer: c, Handle: handle}, nil
}

// Run scans the stream until ctx is done or Handle returns an error.
func (k *KinesisSource) Run(ctx *actx.Ctx) error {
	ctx.Logdf("KinesisSource scanning stream %s", k.StreamName)
	return k.consumer.Scan(ctx, func(r *consumer.Record) error {
		var x interface{}
		if err := json.Unmarshal(r.Data, &x); err != nil {
			x = string(r.Data)
		}
		return k.Handle(ctx, x)
	})
}
