// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// AlertPublisher posts JSON alerts to a single SNS topic.
type AlertPublisher struct {
	client   SNSService
	topicARN string
}

func NewAlertPublisher(client SNSService, topicARN string) *AlertPublisher {
	return &AlertPublisher{client: client, topicARN: topicARN}
}

func NewSNSAlertPublisher(ctx context.Context, region, topicARN string) (*AlertPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewAlertPublisher(sns.NewFromConfig(cfg), topicARN), nil
}

// Publish marshals payload and sends it with an "alertType" message
// attribute so subscribers can filter.
func (p *AlertPublisher) Publish(ctx context.Context, alertType, subject string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal alert: %w", err)
	}

	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"alertType": {DataType: aws.String("String"), StringValue: aws.String(alertType)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sns publish to %s: %w", p.topicARN, err)
	}
	return aws.ToString(out.MessageId), nil
}
