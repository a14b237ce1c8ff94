package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// MailAttachment is a single downloaded attachment from a mailbox message
type MailAttachment struct {
	Filename string
	Data     []byte
}

// MailClient lists audio attachments from a mailbox. The recording
// fetcher depends on this interface so polling can be tested without
// a live mail server.
type MailClient interface {
	// FetchAttachmentsSince returns audio attachments from messages
	// received at or after the given instant. A zero time means all
	// messages in the folder.
	FetchAttachmentsSince(ctx context.Context, since time.Time) ([]MailAttachment, error)
}

// IMAPMailClient implements MailClient over IMAP with TLS. A fresh
// connection is dialed per poll cycle; recording mailboxes see a few
// messages per hour, keeping a connection alive is not worth the
// reconnect handling.
type IMAPMailClient struct {
	addr     string // host:port
	username string
	password string
	folder   string
}

func NewIMAPMailClient(addr, username, password, folder string) MailClient {
	if folder == "" {
		folder = "INBOX"
	}
	return &IMAPMailClient{
		addr:     addr,
		username: username,
		password: password,
		folder:   folder,
	}
}

var audioExtensions = map[string]struct{}{
	".mp3": {},
	".wav": {},
	".ogg": {},
	".m4a": {},
}

func isAudioFilename(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := audioExtensions[strings.ToLower(name[idx:])]
	return ok
}

// FetchAttachmentsSince connects to the mailbox, searches messages since
// the given date and extracts audio attachments from their MIME bodies.
func (c *IMAPMailClient) FetchAttachmentsSince(ctx context.Context, since time.Time) ([]MailAttachment, error) {
	conn, err := client.DialTLS(c.addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mail server %s: %w", c.addr, err)
	}
	defer conn.Logout()

	if err := conn.Login(c.username, c.password); err != nil {
		return nil, fmt.Errorf("failed to login to mailbox: %w", err)
	}

	if _, err := conn.Select(c.folder, true); err != nil {
		return nil, fmt.Errorf("failed to select folder %s: %w", c.folder, err)
	}

	criteria := imap.NewSearchCriteria()
	if !since.IsZero() {
		// IMAP SINCE has day granularity; the fetcher dedupes by
		// filename so over-fetching the current day is harmless.
		criteria.Since = since
	}

	seqNums, err := conn.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search mailbox: %w", err)
	}
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums...)

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 16)
	fetchErr := make(chan error, 1)
	go func() {
		fetchErr <- conn.Fetch(seqSet, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	var attachments []MailAttachment
	for msg := range messages {
		select {
		case <-ctx.Done():
			return attachments, ctx.Err()
		default:
		}

		body := msg.GetBody(section)
		if body == nil {
			continue
		}

		parts, err := extractAudioAttachments(body)
		if err != nil {
			// Malformed message, skip it and keep the cycle going
			continue
		}
		attachments = append(attachments, parts...)
	}

	if err := <-fetchErr; err != nil {
		return attachments, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return attachments, nil
}

// extractAudioAttachments walks a MIME message body and collects audio
// attachment parts.
func extractAudioAttachments(body io.Reader) ([]MailAttachment, error) {
	mr, err := mail.CreateReader(body)
	if err != nil {
		return nil, err
	}

	var attachments []MailAttachment
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return attachments, err
		}

		header, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}

		filename, err := header.Filename()
		if err != nil || filename == "" {
			continue
		}
		if !isAudioFilename(filename) {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			return attachments, err
		}

		attachments = append(attachments, MailAttachment{
			Filename: filename,
			Data:     data,
		})
	}

	return attachments, nil
}
