package mailsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/masa23/jobmaild/config"
	"github.com/masa23/jobmaild/mailparser"
)

// IMAPSource feeds candidate messages from a generic IMAP mailbox for
// providers without a REST API. IMAP SEARCH has no body-keyword
// pre-query worth using here, so the rule stages see more candidates
// than with the Gmail backend.
type IMAPSource struct {
	conf        config.IMAP
	maxMessages int
	client      *imapclient.Client
}

func NewIMAPSource(conf config.IMAP, maxMessages int) *IMAPSource {
	if maxMessages <= 0 {
		maxMessages = 100
	}
	return &IMAPSource{conf: conf, maxMessages: maxMessages}
}

func (s *IMAPSource) connect() (*imapclient.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	if s.conf.Email == "" || s.conf.Password == "" {
		return nil, ErrNoCredentials
	}

	var c *imapclient.Client
	var err error
	if s.conf.UseTLS {
		c, err = imapclient.DialTLS(s.conf.Host, nil)
	} else {
		c, err = imapclient.DialInsecure(s.conf.Host, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", s.conf.Host, err)
	}

	if err := c.Login(s.conf.Email, s.conf.Password).Wait(); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: login: %v", ErrNoCredentials, err)
	}
	if _, err := c.Select("INBOX", &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		c.Close()
		return nil, fmt.Errorf("select INBOX: %w", err)
	}

	s.client = c
	return c, nil
}

func (s *IMAPSource) Close() error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Logout().Wait(); err != nil {
		log.Printf("imap logout: %v", err)
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *IMAPSource) List(_ context.Context, since time.Time) ([]MessageRef, error) {
	c, err := s.connect()
	if err != nil {
		return nil, err
	}

	data, err := c.UIDSearch(&imap.SearchCriteria{Since: since}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search since %s: %w", since.Format("2006-01-02"), err)
	}

	uids := data.AllUIDs()
	// newest first, capped like the Gmail backend
	refs := make([]MessageRef, 0, s.maxMessages)
	for i := len(uids) - 1; i >= 0 && len(refs) < s.maxMessages; i-- {
		refs = append(refs, MessageRef{ID: strconv.FormatUint(uint64(uids[i]), 10)})
	}
	return refs, nil
}

func (s *IMAPSource) Fetch(_ context.Context, ref MessageRef) (*RawMessage, error) {
	c, err := s.connect()
	if err != nil {
		return nil, err
	}

	uid, err := strconv.ParseUint(ref.ID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid uid %q: %w", ref.ID, err)
	}

	section := &imap.FetchItemBodySection{}
	msgs, err := c.Fetch(imap.UIDSetNum(imap.UID(uid)), &imap.FetchOptions{
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetch uid %d: %w", uid, err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("uid %d not found", uid)
	}

	buf := msgs[0]
	raw := &RawMessage{ID: ref.ID, SentAt: buf.InternalDate}

	if env := buf.Envelope; env != nil {
		raw.Subject = decodeOrRaw(env.Subject)
		if len(env.From) > 0 {
			raw.Sender = formatAddress(env.From[0])
		}
		if !env.Date.IsZero() {
			raw.SentAt = env.Date
		}
	}

	raw.BodyText = NormalizeBody(textBody(buf.FindBodySection(section)))
	return raw, nil
}

func formatAddress(a imap.Address) string {
	name, err := mailparser.DecodeHeader(a.Name)
	if err != nil || name == "" {
		name = a.Name
	}
	if name == "" {
		return a.Addr()
	}
	return fmt.Sprintf("%s <%s>", name, a.Addr())
}

// textBody extracts the first text/plain part of a raw RFC822 message.
func textBody(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return ""
		}
		if err != nil {
			return ""
		}
		if h, ok := p.Header.(*mail.InlineHeader); ok {
			ct, _, _ := h.ContentType()
			if strings.HasPrefix(ct, "text/plain") {
				b, err := io.ReadAll(p.Body)
				if err != nil {
					return ""
				}
				return string(b)
			}
		}
	}
}
