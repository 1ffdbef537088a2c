// Package sqs sends messages to Amazon SQS queues addressed by name.
package sqs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// API is the part of *sqs.Client the sender uses.
type API interface {
	GetQueueUrl(ctx context.Context, in *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

var _ ports.MessageSender = (*Sender)(nil)

// Sender resolves each queue URL once and caches it.
type Sender struct {
	api API

	mu   sync.Mutex
	urls map[string]string
}

func NewSender(api API) *Sender {
	return &Sender{
		api:  api,
		urls: make(map[string]string),
	}
}

// NewClient loads the default AWS configuration for region. A non-empty
// endpoint overrides the service URL, which is how local emulators are reached.
func NewClient(ctx context.Context, region, endpoint string) (*sqs.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint = strings.TrimSpace(endpoint)
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// Send puts body on the queue named channel.
func (s *Sender) Send(ctx context.Context, channel string, body []byte) error {
	queueURL, err := s.queueURL(ctx, channel)
	if err != nil {
		return err
	}

	_, err = s.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("send message to %s: %w", channel, err)
	}
	return nil
}

func (s *Sender) queueURL(ctx context.Context, channel string) (string, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return "", errs.NewValueIsRequiredError("channel")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if url, ok := s.urls[channel]; ok {
		return url, nil
	}

	out, err := s.api.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(channel)})
	if err != nil {
		return "", fmt.Errorf("resolve queue %s: %w", channel, err)
	}
	url := aws.ToString(out.QueueUrl)
	if url == "" {
		return "", fmt.Errorf("resolve queue %s: empty url", channel)
	}

	s.urls[channel] = url
	return url, nil
}
