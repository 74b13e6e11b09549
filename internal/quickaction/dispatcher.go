// Package quickaction runs one-shot actions on a card: open an external channel for
// the client, then record the interaction. Opening and recording fail independently.
package quickaction

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	"github.com/pkg/browser"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/types"
)

// Kind is the closed set of quick actions
type Kind int

const (
	KindWhatsApp Kind = iota + 1
)

func (k Kind) String() string {
	switch k {
	case KindWhatsApp:
		return "whatsapp"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// brazilCode is prefixed to national numbers (area code + subscriber)
const brazilCode = "55"

// WhatsAppBase is the deep link origin
const WhatsAppBase = "https://wa.me/"

// Context is the data an action runs with
type Context struct {
	Card     models.Card
	SellerID types.SellerID
	Message  string
}

// Opener hands a URL to the operating system
type Opener interface {
	Open(link string) error
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(link string) error

func (f OpenerFunc) Open(link string) error { return f(link) }

// BrowserOpener opens links with the system browser
var BrowserOpener Opener = OpenerFunc(browser.OpenURL)

// Auditor records interactions
type Auditor interface {
	RecordInteraction(ctx context.Context, in models.Interaction) error
}

// Dispatcher runs quick actions
type Dispatcher struct {
	opener   Opener
	auditor  Auditor
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil opener uses the system browser; a nil
// notifier discards notifications.
func NewDispatcher(opener Opener, auditor Auditor, notifier notify.Notifier, logger *slog.Logger) *Dispatcher {
	if opener == nil {
		opener = BrowserOpener
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{opener: opener, auditor: auditor, notifier: notifier, logger: logger}
}

// Dispatch runs the action. It returns a *ValidationError when nothing was done and
// an *AuditError when the action ran but was not recorded.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, qc Context) error {
	switch kind {
	case KindWhatsApp:
		return d.whatsApp(ctx, qc)
	}
	return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

func (d *Dispatcher) whatsApp(ctx context.Context, qc Context) error {
	digits := NormalizePhone(qc.Card.Phone)
	if digits == "" {
		err := &ValidationError{Field: "phone", Reason: "client has no phone number"}
		d.notifier.Notify(notify.LevelError, fmt.Sprintf("%s: no phone number", displayName(qc.Card)))
		return err
	}

	link := WhatsAppLink(digits, qc.Message)
	if err := d.opener.Open(link); err != nil {
		d.notifier.Notify(notify.LevelError, "Could not open WhatsApp: "+err.Error())
		return fmt.Errorf("failed to open %s: %w", link, err)
	}
	d.logger.Debug("whatsapp opened", "card", qc.Card.ID, "link", link)

	if d.auditor == nil {
		d.notifier.Notify(notify.LevelSuccess, "WhatsApp opened for "+displayName(qc.Card))
		return nil
	}

	in := models.Interaction{
		ClientID:      qc.Card.ClientID,
		SellerID:      sellerOf(qc),
		OpportunityID: qc.Card.ID,
		Type:          models.InteractionContact,
		Channel:       models.ChannelWhatsApp,
		Result:        models.ResultPending,
		Description:   describe(qc),
	}
	if err := d.auditor.RecordInteraction(ctx, in); err != nil {
		d.logger.Warn("interaction not recorded", "card", qc.Card.ID, "error", err)
		d.notifier.Notify(notify.LevelSuccess, "WhatsApp opened for "+displayName(qc.Card))
		d.notifier.Notify(notify.LevelWarning, "Interaction was not recorded")
		return &AuditError{Err: err}
	}
	d.notifier.Notify(notify.LevelSuccess, "WhatsApp opened and interaction recorded")
	return nil
}

// NormalizePhone keeps only the digits of a phone number and adds the Brazilian
// country code to national numbers
func NormalizePhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
	if len(digits) == 10 || len(digits) == 11 {
		digits = brazilCode + digits
	}
	return digits
}

// WhatsAppLink builds the wa.me deep link for a normalized number
func WhatsAppLink(digits, message string) string {
	link := WhatsAppBase + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

// sellerOf returns the acting seller, falling back to the card's owner when the
// board is not scoped to one seller
func sellerOf(qc Context) types.SellerID {
	if qc.SellerID > 0 {
		return qc.SellerID
	}
	if v, ok := qc.Card.Extra["ven_codigo"].(float64); ok {
		return types.SellerID(v)
	}
	return 0
}

func describe(qc Context) string {
	if qc.Message == "" {
		return "WhatsApp contact from pipeline"
	}
	return "WhatsApp: " + qc.Message
}

func displayName(card models.Card) string {
	switch {
	case card.ClientName != "":
		return card.ClientName
	case card.Title != "":
		return card.Title
	}
	return "card " + card.ID.String()
}
