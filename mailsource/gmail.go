package mailsource

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/masa23/jobmaild/config"
	"github.com/masa23/jobmaild/mailparser"
)

const gmailUser = "me"

// Keyword pre-query layered in front of the subject pre-filter. It cuts
// billable list calls down, it does not replace the rule stages.
var gmailSearchKeywords = []string{
	"job application", "application received", "interview", "position",
	"thank you for applying", "application status",
	"application submitted", "offer letter",
	"technical interview", "phone screen",
}

type GmailSource struct {
	srv     *gmail.Service
	maxList int64
}

func NewGmailSource(ctx context.Context, conf config.Gmail, maxMessages int) (*GmailSource, error) {
	b, err := os.ReadFile(conf.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read client secret: %v", ErrNoCredentials, err)
	}
	oauthConf, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}

	tok, err := tokenFromFile(conf.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("%w: load token: %v", ErrNoCredentials, err)
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConf.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	if maxMessages <= 0 {
		maxMessages = 100
	}
	return &GmailSource{srv: srv, maxList: int64(maxMessages)}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func (s *GmailSource) List(ctx context.Context, since time.Time) ([]MessageRef, error) {
	resp, err := s.srv.Users.Messages.List(gmailUser).
		Q(buildGmailQuery(since)).
		MaxResults(s.maxList).
		Context(ctx).Do()
	if err != nil {
		if isAuthError(err) {
			return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
		}
		return nil, fmt.Errorf("list messages: %w", err)
	}

	refs := make([]MessageRef, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		refs = append(refs, MessageRef{ID: m.Id})
	}
	return refs, nil
}

func buildGmailQuery(since time.Time) string {
	quoted := make([]string, 0, len(gmailSearchKeywords))
	for _, k := range gmailSearchKeywords {
		quoted = append(quoted, `"`+k+`"`)
	}
	return fmt.Sprintf("(%s) after:%s", strings.Join(quoted, " OR "), since.Format("2006/01/02"))
}

func (s *GmailSource) Fetch(ctx context.Context, ref MessageRef) (*RawMessage, error) {
	msg, err := s.srv.Users.Messages.Get(gmailUser, ref.ID).Format("full").Context(ctx).Do()
	if err != nil {
		if isAuthError(err) {
			return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
		}
		return nil, fmt.Errorf("get message %s: %w", ref.ID, err)
	}

	raw := &RawMessage{
		ID:     msg.Id,
		SentAt: time.UnixMilli(msg.InternalDate),
	}

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				raw.Subject = decodeOrRaw(h.Value)
			case "From":
				raw.Sender = decodeOrRaw(h.Value)
			}
		}
		raw.BodyText = NormalizeBody(plainTextBody(msg.Payload))
	}

	return raw, nil
}

func decodeOrRaw(value string) string {
	decoded, err := mailparser.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// plainTextBody walks the MIME tree for the first text/plain part.
func plainTextBody(payload *gmail.MessagePart) string {
	if strings.HasPrefix(payload.MimeType, "text/plain") && payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data)
		}
	}
	for _, part := range payload.Parts {
		if body := plainTextBody(part); body != "" {
			return body
		}
	}
	return ""
}

func isAuthError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401 || apiErr.Code == 403
	}
	return false
}
