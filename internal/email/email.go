// Package email sends team invitations through AWS SES.
package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the subset of the SES v2 client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Invitation describes a single team invitation e-mail.
type Invitation struct {
	To         string
	TeamName   string
	SenderName string
	Link       string
}

// Sender delivers invitations.
type Sender interface {
	SendInvite(ctx context.Context, inv Invitation) error
}

// SESSender sends invitations from a fixed address.
type SESSender struct {
	Client SESAPI
	From   string
}

func (s *SESSender) SendInvite(ctx context.Context, inv Invitation) error {
	subject := fmt.Sprintf("%s invited you to join %s", inv.SenderName, inv.TeamName)
	body := fmt.Sprintf("%s invited you to join the %s team.\n\nJoin here: %s\n", inv.SenderName, inv.TeamName, inv.Link)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.From),
		Destination: &types.Destination{
			ToAddresses: []string{inv.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := s.Client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send invitation to %s: %w", inv.To, err)
	}
	return nil
}
