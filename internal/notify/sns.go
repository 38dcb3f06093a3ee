package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal/models"
	log "github.com/sirupsen/logrus"
)

type Notifier interface {
	NotifyNextDay(ctx context.Context, day models.CalendarValue) error
}

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	client   snsPublisher
	topicARN string
}

func NewSNSNotifier(ctx context.Context, topicARN string) (*SNSNotifier, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}
	return &SNSNotifier{
		client:   sns.NewFromConfig(awsConfig),
		topicARN: topicARN,
	}, nil
}

func Message(day models.CalendarValue) string {
	return fmt.Sprintf("Tomorrow (%s) is a %s day",
		day.StartDate.Format("Monday 02/01/2006"),
		day.Value)
}

func (n *SNSNotifier) NotifyNextDay(ctx context.Context, day models.CalendarValue) error {
	input := &sns.PublishInput{
		Message:  aws.String(Message(day)),
		Subject:  aws.String(fmt.Sprintf("Tempo: %s day", day.Value)),
		TopicArn: aws.String(n.topicARN),
	}

	out, err := n.client.Publish(ctx, input)
	if err != nil {
		return errors.Wrapf(err, "failed to publish to %s", n.topicARN)
	}
	log.WithField("message_id", aws.ToString(out.MessageId)).Info("published next day color")
	return nil
}

// NopNotifier is used when no topic is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyNextDay(ctx context.Context, day models.CalendarValue) error {
	log.Debugf("no notification topic configured, skipping %s", day.Value)
	return nil
}
