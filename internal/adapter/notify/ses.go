package notify

import (
	"context"
	"fmt"
	"strings"

	"estate-core/internal/domain/entity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESNotifier emails captured leads to the sales inbox.
type SESNotifier struct {
	client    *ses.Client
	sender    string
	recipient string
}

func NewSESNotifier(ctx context.Context, region, sender, recipient string) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESNotifier{client: ses.NewFromConfig(cfg), sender: sender, recipient: recipient}, nil
}

func NewSESNotifierFromClient(client *ses.Client, sender, recipient string) *SESNotifier {
	return &SESNotifier{client: client, sender: sender, recipient: recipient}
}

func (n *SESNotifier) NotifyLead(ctx context.Context, lead *entity.Lead) error {
	name := lead.Name
	if name == "" {
		name = "Unknown"
	}
	subject := fmt.Sprintf("New Lead: %s", name)

	var interests strings.Builder
	for _, property := range lead.InterestedProperties {
		interests.WriteString(fmt.Sprintf("<li>%s</li>", property))
	}
	body := fmt.Sprintf(`<h2>New Lead Captured</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Status:</strong> %s</p>
<p><strong>Interested Properties:</strong></p>
<ul>%s</ul>
<p><em>Created at:</em> %s</p>`,
		lead.Name, lead.Email, lead.Phone, lead.Status,
		interests.String(), lead.CreatedAt.Format("2006-01-02 15:04:05"))

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.sender),
		Destination: &types.Destination{ToAddresses: []string{n.recipient}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body:    &types.Body{Html: &types.Content{Data: aws.String(body)}},
		},
	})
	return err
}
