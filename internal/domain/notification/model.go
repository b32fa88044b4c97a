package notification

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"revive/internal/domain/member"
)

// Reminder kinds.
const (
	KindExpiry  = "expiry"
	KindPayment = "payment"
)

// DefaultCountryCode is prefixed to bare 10-digit phone numbers for
// WhatsApp dispatch.
const DefaultCountryCode = "91"

// waBase is the fixed messaging-link base.
const waBase = "https://wa.me/"

// Message is a rendered outbound reminder.
type Message struct {
	Kind    string
	Subject string
	Body    string
}

// BuildExpiryReminder renders the renewal reminder for a membership that is
// expiring soon.
// PRE: m has a name, plan and end date
// POST: Returns the message with the computed days-remaining interpolated
func BuildExpiryReminder(m member.Member, now time.Time) Message {
	days := member.DaysRemaining(m.EndDate, now)
	body := fmt.Sprintf(`Hi %s! 👋

Your gym membership is expiring soon!

⏰ Days remaining: %d days
📅 Expiry date: %s
🏋️‍♂️ Membership type: %s

Please renew your membership to continue enjoying our services. Visit us or call for renewal options.

Thank you! 💪
- Revive Fitness`, m.Name, days, FormatDate(m.EndDate), m.MembershipType)

	return Message{
		Kind:    KindExpiry,
		Subject: "Your Revive Fitness membership is expiring soon",
		Body:    body,
	}
}

// BuildPaymentReminder renders the payment-due reminder for an unpaid
// membership.
// PRE: m has a name, plan and end date
// POST: Returns the message
func BuildPaymentReminder(m member.Member) Message {
	body := fmt.Sprintf(`Hi %s! 👋

We noticed your gym membership payment is pending.

📋 Membership details:
🏋️‍♂️ Type: %s
📅 End date: %s
💳 Status: Payment Due

Please complete your payment to continue using our facilities without interruption.

Contact us for payment options or visit the gym reception.

Thank you! 🙏
- Revive Fitness`, m.Name, m.MembershipType, FormatDate(m.EndDate))

	return Message{
		Kind:    KindPayment,
		Subject: "Revive Fitness membership payment pending",
		Body:    body,
	}
}

// FormatDate renders a date the way members see it, e.g. "15 January 2024".
func FormatDate(d member.Date) string {
	if d.IsZero() {
		return ""
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2 January 2006")
}

// NormalizePhone strips non-digit characters and prefixes the default
// country code when the result is a bare 10-digit local number. A heuristic
// carried over as-is, not a numbering-plan validation.
// POST: Returns digits only; empty input yields empty output
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 && !strings.HasPrefix(digits, DefaultCountryCode) {
		digits = DefaultCountryCode + digits
	}
	return digits
}

// DispatchLink composes the wa.me link for a message. Opening the link is
// the host environment's responsibility.
// PRE: m has a phone number
// POST: Returns the link, or "" when the member has no phone
func DispatchLink(m member.Member, msg Message) string {
	phone := NormalizePhone(m.Phone)
	if phone == "" {
		return ""
	}
	return waBase + phone + "?text=" + encodeBody(msg.Body)
}

// encodeBody percent-encodes the message body for the link query. Spaces
// must be %20, not '+': WhatsApp renders '+' literally.
func encodeBody(body string) string {
	return strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
}
