package mail

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"

	"github.com/spec-kit/complaint-service/internal/config"
)

// SESMailer sends plain-text email through AWS SES.
type SESMailer struct {
	client *ses.SES
	from   string
}

// NewSESMailer builds the mailer from AWS configuration.
func NewSESMailer(awsCfg config.AWSConfig, notifyCfg config.NotificationConfig) *SESMailer {
	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(awsCfg.Region),
		Credentials: credentials.NewStaticCredentials(
			awsCfg.AccessKeyID, awsCfg.SecretAccessKey, "",
		),
	}))
	return &SESMailer{
		client: ses.New(sess),
		from:   notifyCfg.EmailFrom,
	}
}

// Send delivers one message to the given recipients.
func (m *SESMailer) Send(ctx context.Context, subject string, to []string, body string) error {
	_, err := m.client.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &ses.Destination{
			ToAddresses: aws.StringSlice(to),
		},
		Message: &ses.Message{
			Subject: &ses.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &ses.Body{
				Text: &ses.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	return err
}
