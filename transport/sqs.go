package transport

import (
	"encoding/json"
	"fmt"

	"github.com/accord-lang/accord/internal/actx"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
)

// SQSUpstream forwards calls/casts through a pair of SQS queues: Call
// sends an envelope to RequestQueueURL carrying a correlation id as a
// message attribute, then long-polls ReplyQueueURL (ReceiveMessage
// with WaitTimeSeconds) discarding replies for any other correlation
// id, until ctx is done; Cast is a bare SendMessage. Grounded on the
// teacher's go.mod, which already pulls in aws-sdk-go for its own
// queue-backed chans, generalized here to the request/reply shape
// monitors need.
type SQSUpstream struct {
	Client          *sqs.SQS
	RequestQueueURL string
	ReplyQueueURL   string

	// PollWaitSeconds bounds each ReceiveMessage long-poll; Call loops
	// polls until ctx is done, so this only controls granularity.
	PollWaitSeconds int64

	nextID uint64
}

const sqsCorrelationAttr = "AccordCorrelationId"

// NewSQSUpstream builds an SQSUpstream using the default credential
// chain and region resolution (AWS_REGION / shared config).
func NewSQSUpstream(requestQueueURL, replyQueueURL string) (*SQSUpstream, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: sqs session: %v", ErrUnavailable, err)
	}
	return &SQSUpstream{
		Client:          sqs.New(sess),
		RequestQueueURL: requestQueueURL,
		ReplyQueueURL:   replyQueueURL,
		PollWaitSeconds: 10,
	}, nil
}

func (s *SQSUpstream) correlationID() string {
	s.nextID++
	return fmt.Sprintf("accord-%d", s.nextID)
}

func (s *SQSUpstream) send(queueURL string, msg interface{}, correlationID string) error {
	bs, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling sqs message body: %w", err)
	}
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(bs)),
	}
	if correlationID != "" {
		input.MessageAttributes = map[string]*sqs.MessageAttributeValue{
			sqsCorrelationAttr: {
				DataType:    aws.String("String"),
				StringValue: aws.String(correlationID),
			},
		}
	}
	if _, err := s.Client.SendMessage(input); err != nil {
		return fmt.Errorf("%w: sqs SendMessage: %v", ErrUnavailable, err)
	}
	return nil
}

// Call implements Upstream.
func (s *SQSUpstream) Call(ctx *actx.Ctx, msg interface{}) (interface{}, error) {
	id := s.correlationID()
	if err := s.send(s.RequestQueueURL, msg, id); err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := s.Client.ReceiveMessageWithContext(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.ReplyQueueURL),
			MaxNumberOfMessages: aws.Int64(10),
			WaitTimeSeconds:     aws.Int64(s.PollWaitSeconds),
			MessageAttributeNames: []*string{
				aws.String(sqsCorrelationAttr),
			},
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: sqs ReceiveMessage: %v", ErrUnavailable, err)
		}

		for _, m := range out.Messages {
			attr := m.MessageAttributes[sqsCorrelationAttr]
			matches := attr != nil && attr.StringValue != nil && *attr.StringValue == id

			if matches {
				ctx.Logdf("SQSUpstream matched reply for correlation %s", id)
				_, _ = s.Client.DeleteMessage(&sqs.DeleteMessageInput{
					QueueUrl:      aws.String(s.ReplyQueueURL),
					ReceiptHandle: m.ReceiptHandle,
				})
				var x interface{}
				if m.Body != nil {
					if err := json.Unmarshal([]byte(*m.Body), &x); err != nil {
						x = *m.Body
					}
				}
				return x, nil
			}
		}
	}
}

// Cast implements Upstream.
func (s *SQSUpstream) Cast(ctx *actx.Ctx, msg interface{}) error {
	return s.send(s.RequestQueueURL, msg, "")
}
