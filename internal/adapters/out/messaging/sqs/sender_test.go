package sqs_test

import (
	"context"
	"errors"
	"testing"

	sqssender "orderflow/internal/adapters/out/messaging/sqs"
	"orderflow/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSQS struct {
	mock.Mock
}

func (m *MockSQS) GetQueueUrl(
	ctx context.Context,
	in *sqs.GetQueueUrlInput,
	_ ...func(*sqs.Options),
) (*sqs.GetQueueUrlOutput, error) {
	args := m.Called(ctx, aws.ToString(in.QueueName))
	out, _ := args.Get(0).(*sqs.GetQueueUrlOutput)
	return out, args.Error(1)
}

func (m *MockSQS) SendMessage(
	ctx context.Context,
	in *sqs.SendMessageInput,
	_ ...func(*sqs.Options),
) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, aws.ToString(in.QueueUrl), aws.ToString(in.MessageBody))
	out, _ := args.Get(0).(*sqs.SendMessageOutput)
	return out, args.Error(1)
}

const queueURL = "http://localhost:4566/000000000000/order-events"

func TestSender_ResolvesQueueOnce(t *testing.T) {
	api := new(MockSQS)
	api.On("GetQueueUrl", mock.Anything, "order-events").
		Return(&sqs.GetQueueUrlOutput{QueueUrl: aws.String(queueURL)}, nil).Once()
	api.On("SendMessage", mock.Anything, queueURL, `{"n":1}`).Return(&sqs.SendMessageOutput{}, nil).Once()
	api.On("SendMessage", mock.Anything, queueURL, `{"n":2}`).Return(&sqs.SendMessageOutput{}, nil).Once()

	sender := sqssender.NewSender(api)

	require.NoError(t, sender.Send(context.Background(), "order-events", []byte(`{"n":1}`)))
	require.NoError(t, sender.Send(context.Background(), "order-events", []byte(`{"n":2}`)))

	api.AssertExpectations(t)
}

func TestSender_Errors(t *testing.T) {
	t.Run("unknown queue", func(t *testing.T) {
		api := new(MockSQS)
		api.On("GetQueueUrl", mock.Anything, "missing").Return(nil, errors.New("queue does not exist"))

		err := sqssender.NewSender(api).Send(context.Background(), "missing", []byte("x"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "resolve queue missing")
		api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("send failure is wrapped", func(t *testing.T) {
		api := new(MockSQS)
		boom := errors.New("throttled")
		api.On("GetQueueUrl", mock.Anything, "order-events").
			Return(&sqs.GetQueueUrlOutput{QueueUrl: aws.String(queueURL)}, nil)
		api.On("SendMessage", mock.Anything, queueURL, "x").Return(nil, boom)

		err := sqssender.NewSender(api).Send(context.Background(), "order-events", []byte("x"))

		assert.ErrorIs(t, err, boom)
	})

	t.Run("blank channel", func(t *testing.T) {
		err := sqssender.NewSender(new(MockSQS)).Send(context.Background(), " ", []byte("x"))

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
