// Package sqs provides a job queue on Amazon SQS.
// Messages become visible again when a consumer does not delete them
// before the visibility timeout, which gives at-least-once delivery.
package sqs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/mhsabu/Neugrove/internal/adapters/driven/queue"
	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// WaitTimeSeconds is the long-poll duration of one receive call.
const WaitTimeSeconds = 20

// API is the subset of the SQS client used by Queue.
type API interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Ensure Queue implements the interface.
var _ driven.JobQueue = (*Queue)(nil)

// Queue publishes and consumes jobs on one SQS queue URL.
type Queue struct {
	client            API
	queueURL          string
	visibilityTimeout int32
}

// New loads the default AWS configuration and creates a queue. Needs the
// queue URL, not the ARN.
func New(ctx context.Context, queueURL, region string, visibilityTimeout int32) (*Queue, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("%w: sqs queue url is required", domain.ErrInvalidInput)
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sqs queue: aws config: %w", err)
	}
	return NewWithClient(sqs.NewFromConfig(cfg), queueURL, visibilityTimeout), nil
}

// NewWithClient creates a queue around an existing client.
func NewWithClient(client API, queueURL string, visibilityTimeout int32) *Queue {
	return &Queue{client: client, queueURL: queueURL, visibilityTimeout: visibilityTimeout}
}

// Publish sends the job as one message.
func (q *Queue) Publish(ctx context.Context, job domain.Job) error {
	body, err := queue.Encode(job)
	if err != nil {
		return err
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"kind": {DataType: aws.String("String"), StringValue: aws.String(string(job.Kind))},
		},
	})
	if err != nil {
		return fmt.Errorf("sqs send: %w", err)
	}
	return nil
}

// Consume long-polls until a message arrives. The receipt is the SQS receipt handle.
func (q *Queue) Consume(ctx context.Context) (domain.Job, driven.Receipt, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Job{}, "", err
		}
		in := &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(q.queueURL),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     WaitTimeSeconds,
		}
		if q.visibilityTimeout > 0 {
			in.VisibilityTimeout = q.visibilityTimeout
		}
		out, err := q.client.ReceiveMessage(ctx, in)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Job{}, "", ctx.Err()
			}
			return domain.Job{}, "", fmt.Errorf("sqs receive: %w", err)
		}
		if len(out.Messages) == 0 {
			continue
		}

		msg := out.Messages[0]
		handle := aws.ToString(msg.ReceiptHandle)
		job, err := queue.Decode([]byte(aws.ToString(msg.Body)))
		if err != nil {
			logger.Warn("dropping undecodable sqs message %s: %v", aws.ToString(msg.MessageId), err)
			_ = q.Ack(ctx, driven.Receipt(handle))
			continue
		}
		return job, driven.Receipt(handle), nil
	}
}

// Ack deletes the message.
func (q *Queue) Ack(ctx context.Context, receipt driven.Receipt) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(string(receipt)),
	})
	if err != nil {
		return fmt.Errorf("sqs delete: %w", err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no connections to release.
func (q *Queue) Close() error {
	return nil
}
