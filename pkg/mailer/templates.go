package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const DEFAULT_APP_URL = "https://leli.rentals"

var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f5f5f5;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f5f5f5; padding: 40px 20px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 12px; overflow: hidden;">
          <tr>
            <td style="background-color: {{.Color}}; padding: 40px 30px; text-align: center;">
              <h1 style="margin: 0; color: #ffffff; font-size: 28px;">{{.Title}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 40px 30px;">
              <p style="margin: 0 0 20px; font-size: 18px; color: #333333;">Hi {{.Name}},</p>
              {{.Body}}
              {{if .CTA}}
              <table width="100%" cellpadding="0" cellspacing="0">
                <tr>
                  <td align="center" style="padding: 20px 0;">
                    <a href="{{.CTALink}}"
                       style="display: inline-block; background-color: {{.Color}}; color: #ffffff; text-decoration: none; padding: 16px 40px; border-radius: 8px; font-size: 16px; font-weight: bold;">
                      {{.CTA}}
                    </a>
                  </td>
                </tr>
              </table>
              {{end}}
              <p style="margin: 30px 0 0; font-size: 14px; color: #999999; text-align: center;">
                Need help? Contact us at <a href="mailto:{{.SupportEmail}}" style="color: #667eea;">{{.SupportEmail}}</a>
              </p>
            </td>
          </tr>
          <tr>
            <td style="background-color: #f8f9fa; padding: 20px 30px; text-align: center;">
              <p style="margin: 0; font-size: 12px; color: #999999;">© {{.Year}} Leli Rentals. All rights reserved.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

type layoutData struct {
	Title        string
	Name         string
	Color        string
	Body         template.HTML
	CTA          string
	CTALink      string
	SupportEmail string
	Year         int
}

func renderLayout(data layoutData) (string, error) {
	data.SupportEmail = SUPPORT_EMAIL
	data.Year = time.Now().Year()
	if data.Color == "" {
		data.Color = "#667eea"
	}

	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func paragraphs(texts ...string) template.HTML {
	var buf bytes.Buffer
	for _, text := range texts {
		fmt.Fprintf(&buf, `<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #666666;">%s</p>`, template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

func WelcomeEmail(to, name string) (Email, error) {
	html, err := renderLayout(layoutData{
		Title: "Welcome to Leli Rentals! 🎉",
		Name:  name,
		Body: paragraphs(
			"Welcome to Leli Rentals! We're thrilled to have you join our community of renters and owners.",
			"Your account is now active, and you're ready to explore thousands of rental items or start listing your own!",
		),
		CTA:     "Complete Your Profile",
		CTALink: DEFAULT_APP_URL + "/get-started",
	})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "🎉 Welcome to Leli Rentals!", HTML: html}, nil
}

type VerificationStatus string

const (
	VERIFICATION_STATUS_SUBMITTED VerificationStatus = "submitted"
	VERIFICATION_STATUS_APPROVED  VerificationStatus = "approved"
	VERIFICATION_STATUS_REJECTED  VerificationStatus = "rejected"
)

func VerificationStatusEmail(to, name string, status VerificationStatus, rejectionReason string) (Email, error) {
	var data layoutData
	switch status {
	case VERIFICATION_STATUS_APPROVED:
		data = layoutData{
			Title: "ID Verification Approved! 🎉",
			Color: "#10b981",
			Body: paragraphs(
				"Congratulations! Your identity has been verified successfully.",
				"You now have access to all premium features including listing items and renting.",
			),
			CTA:     "Explore Features",
			CTALink: DEFAULT_APP_URL + "/dashboard",
		}
	case VERIFICATION_STATUS_REJECTED:
		if rejectionReason == "" {
			rejectionReason = "Information unclear"
		}
		data = layoutData{
			Title:   "ID Verification - Action Required ⚠️",
			Color:   "#ef4444",
			Body:    paragraphs("We couldn't verify your documents. Reason: " + rejectionReason),
			CTA:     "Resubmit Documents",
			CTALink: DEFAULT_APP_URL + "/verification",
		}
	default:
		data = layoutData{
			Title: "ID Verification Received ✓",
			Color: "#f59e0b",
			Body: paragraphs(
				"We've received your verification documents and they're currently under review.",
				"Review time is typically 24-48 hours.",
			),
			CTA:     "View Status",
			CTALink: DEFAULT_APP_URL + "/dashboard",
		}
	}

	data.Name = name
	html, err := renderLayout(data)
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: data.Title, HTML: html}, nil
}

type BookingDetails struct {
	BookingID string
	ItemName  string
	StartDate string
	EndDate   string
	Total     string
}

func BookingConfirmationEmail(to, name string, booking BookingDetails) (Email, error) {
	html, err := renderLayout(layoutData{
		Title: "Booking Confirmed ✓",
		Name:  name,
		Color: "#10b981",
		Body: paragraphs(
			fmt.Sprintf("Your booking for %s is confirmed from %s to %s.", booking.ItemName, booking.StartDate, booking.EndDate),
			fmt.Sprintf("Booking reference: %s. Total: %s.", booking.BookingID, booking.Total),
			"The owner has been notified and will have the item ready for you.",
		),
		CTA:     "View Booking",
		CTALink: DEFAULT_APP_URL + "/bookings/" + booking.BookingID,
	})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Booking Confirmed: " + booking.ItemName, HTML: html}, nil
}

type PaymentDetails struct {
	Amount    string
	Reference string
	Method    string
	Date      string
}

func PaymentReceiptEmail(to, name string, payment PaymentDetails) (Email, error) {
	html, err := renderLayout(layoutData{
		Title: "Payment Receipt",
		Name:  name,
		Color: "#10b981",
		Body: paragraphs(
			fmt.Sprintf("We've received your payment of %s via %s on %s.", payment.Amount, payment.Method, payment.Date),
			fmt.Sprintf("Reference: %s. Keep this receipt for your records.", payment.Reference),
		),
		CTA:     "Billing History",
		CTALink: DEFAULT_APP_URL + "/billing",
	})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Payment Receipt - " + payment.Amount, HTML: html}, nil
}

type TicketDetails struct {
	ID      string
	Subject string
}

func SupportTicketEmail(to, name string, ticket TicketDetails) (Email, error) {
	html, err := renderLayout(layoutData{
		Title: "Support Ticket Received",
		Name:  name,
		Body: paragraphs(
			fmt.Sprintf("We've received your support request \"%s\" and created ticket #%s.", ticket.Subject, ticket.ID),
			"Our team responds within 24 hours. Reply to this email to add details to your ticket.",
		),
	})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: fmt.Sprintf("Support Ticket #%s - %s", ticket.ID, ticket.Subject), HTML: html}, nil
}

func SuspensionWarningEmail(to, name string, daysRemaining int) (Email, error) {
	day := "days"
	if daysRemaining == 1 {
		day = "day"
	}
	html, err := renderLayout(layoutData{
		Title: "Action Required: Verify Your Account ⚠️",
		Name:  name,
		Color: "#f59e0b",
		Body: paragraphs(
			fmt.Sprintf("Your account verification deadline is in %d %s.", daysRemaining, day),
			"Complete your ID verification before the deadline to keep your account active. Unverified accounts are suspended automatically.",
		),
		CTA:     "Verify Now",
		CTALink: DEFAULT_APP_URL + "/verification",
	})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: fmt.Sprintf("⚠️ %d %s left to verify your Leli Rentals account", daysRemaining, day), HTML: html}, nil
}

func SuspensionNoticeEmail(to, name string) (Email, error) {
	html, err := renderLayout(layoutData{
		Title: "Account Suspended",
		Name:  name,
		Color: "#ef4444",
		Body: paragraphs(
			"Your account has been suspended because the verification deadline passed without completed ID verification.",
			"You can restore access at any time by completing verification. Your listings and bookings are preserved.",
		),
		CTA:     "Complete Verification",
		CTALink: DEFAULT_APP_URL + "/verification",
	})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Your Leli Rentals account has been suspended", HTML: html}, nil
}
