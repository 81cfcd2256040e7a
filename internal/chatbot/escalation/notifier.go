// internal/chatbot/escalation/notifier.go
package escalation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/common/metrics"
)

const notifyTimeout = 10 * time.Second

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	FromEmail    string
	SupportEmail string
	SNSEnabled   bool
	TopicARN     string
}

// Notifier alerts the support channel when a user question fell through the
// knowledge base. Both transports are optional and best-effort; a failure is
// logged and counted, never surfaced.
type Notifier struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
	wg        sync.WaitGroup
}

func NewNotifier(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log.WithFields(map[string]interface{}{"component": "escalation"}),
	}
}

// Enabled reports whether any transport is configured.
func (n *Notifier) Enabled() bool {
	return n.config.EmailEnabled || n.config.SNSEnabled
}

// NotifyUnanswered escalates an unanswered question in the background.
func (n *Notifier) NotifyUnanswered(userID, question string) {
	if !n.Enabled() {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		subject := buildSubject(userID)
		body := buildBody(userID, question)

		if n.config.EmailEnabled && n.sesClient != nil {
			if err := n.sendEmail(ctx, subject, body); err != nil {
				metrics.CollaboratorFailures.WithLabelValues("escalation_email").Inc()
				n.logger.Warn("failed to send escalation email", map[string]interface{}{
					"error": err,
				})
			}
		}

		if n.config.SNSEnabled && n.snsClient != nil {
			if err := n.publish(ctx, subject, body); err != nil {
				metrics.CollaboratorFailures.WithLabelValues("escalation_sns").Inc()
				n.logger.Warn("failed to publish escalation", map[string]interface{}{
					"error": err,
				})
			}
		}
	}()
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.config.SupportEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) publish(ctx context.Context, subject, body string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	return err
}

func buildSubject(userID string) string {
	if userID == "" {
		return "Question sans réponse (utilisateur anonyme)"
	}
	return fmt.Sprintf("Question sans réponse de %s", userID)
}

func buildBody(userID, question string) string {
	if userID == "" {
		userID = "anonyme"
	}
	return fmt.Sprintf("Utilisateur: %s\nQuestion: %s\nLe chatbot n'a pas trouvé de réponse dans la FAQ.", userID, question)
}

// Wait blocks until in-flight notifications finish. Called on shutdown and in tests.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
