package assistant

import (
	"strings"

	"github.com/samber/lo"
)

type FAQEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
	Category Intent   `json:"category"`
}

// faqMatchThreshold is the minimum weighted score to accept a match; one
// keyword hit (weight 2) is enough on its own.
const faqMatchThreshold = 2

var faqDatabase = map[Intent][]FAQEntry{
	INTENT_BOOKING: {
		{
			Question: "How do I book an item?",
			Answer:   "To book an item: 1) Browse our listings, 2) Select your dates, 3) Review pricing, 4) Complete payment, 5) Receive confirmation. You'll get instant booking confirmation via email and SMS.",
			Keywords: []string{"book", "reserve", "rent", "hire", "booking process"},
			Category: INTENT_BOOKING,
		},
		{
			Question: "What payment methods do you accept?",
			Answer:   "We accept all major credit cards (Visa, MasterCard, American Express), PayPal, Apple Pay, Google Pay, and mobile money (M-Pesa, Airtel Money). All payments are processed securely.",
			Keywords: []string{"payment", "pay", "credit card", "paypal", "mobile money", "mpesa"},
			Category: INTENT_BOOKING,
		},
		{
			Question: "Can I cancel my booking?",
			Answer:   "Yes! Most listings offer flexible cancellation. You can cancel up to 24 hours before your rental period for a full refund. Check the specific cancellation policy for each listing.",
			Keywords: []string{"cancel", "cancellation", "refund", "cancel booking"},
			Category: INTENT_BOOKING,
		},
		{
			Question: "What if the item is damaged?",
			Answer:   "All rentals are covered by our comprehensive insurance. Report any damage immediately through the app. We'll handle the insurance claim process for you.",
			Keywords: []string{"damage", "broken", "insurance", "claim", "problem"},
			Category: INTENT_BOOKING,
		},
	},
	INTENT_LISTING: {
		{
			Question: "How do I list my item?",
			Answer:   "To list: 1) Create your account, 2) Click 'List Your Item', 3) Upload 5+ photos, 4) Add description and pricing, 5) Set availability, 6) Submit for review. We'll verify within 24 hours.",
			Keywords: []string{"list", "create listing", "add item", "sell", "rent out"},
			Category: INTENT_LISTING,
		},
		{
			Question: "What can I list on Leli Rentals?",
			Answer:   "You can list vehicles, electronics, equipment, sports gear, fashion items, home goods, and more. Items must be in good condition and legally owned by you.",
			Keywords: []string{"what can I list", "items", "categories", "allowed items"},
			Category: INTENT_LISTING,
		},
		{
			Question: "How much can I earn?",
			Answer:   "Earnings depend on your item's value and demand. Popular items can earn 20-50% of their value per rental. We take a 10% commission on successful bookings.",
			Keywords: []string{"earn", "money", "income", "commission", "fees"},
			Category: INTENT_LISTING,
		},
		{
			Question: "How do I set my pricing?",
			Answer:   "Research similar items on our platform, consider your item's value and condition, and set competitive daily rates. You can adjust pricing anytime based on demand.",
			Keywords: []string{"pricing", "price", "rates", "cost", "how much to charge"},
			Category: INTENT_LISTING,
		},
	},
	INTENT_ACCOUNT: {
		{
			Question: "How do I verify my account?",
			Answer:   "To verify: 1) Complete your profile, 2) Upload government ID, 3) Verify phone number, 4) Add payment method. Verified users get priority in bookings and can access premium features.",
			Keywords: []string{"verify", "verification", "verified", "account verification", "ID"},
			Category: INTENT_ACCOUNT,
		},
		{
			Question: "How do I update my profile?",
			Answer:   "Go to your profile settings, update your information, upload a profile photo, and save changes. Keep your contact information current for better booking success.",
			Keywords: []string{"update profile", "edit profile", "change information", "profile settings"},
			Category: INTENT_ACCOUNT,
		},
		{
			Question: "How do I change my password?",
			Answer:   "Go to Account Settings > Security > Change Password. Enter your current password and create a new secure password. We'll send a confirmation email.",
			Keywords: []string{"change password", "reset password", "password", "security"},
			Category: INTENT_ACCOUNT,
		},
		{
			Question: "How do I delete my account?",
			Answer:   "Contact our support team to delete your account. We'll cancel any active bookings and process final payments. Account deletion is permanent.",
			Keywords: []string{"delete account", "close account", "remove account", "deactivate"},
			Category: INTENT_ACCOUNT,
		},
	},
	INTENT_BILLING: {
		{
			Question: "When do I get paid?",
			Answer:   "Payments are processed 24 hours after the rental period ends. You'll receive your earnings (minus our 10% commission) via your preferred payment method.",
			Keywords: []string{"payment", "paid", "earnings", "when do I get paid", "payout"},
			Category: INTENT_BILLING,
		},
		{
			Question: "How do I update my payment method?",
			Answer:   "Go to Account Settings > Billing & Payments > Payment Methods. Add, edit, or remove payment methods. All changes are secure and encrypted.",
			Keywords: []string{"payment method", "update payment", "credit card", "billing"},
			Category: INTENT_BILLING,
		},
		{
			Question: "What are your fees?",
			Answer:   "We charge a 10% commission on successful bookings. There are no listing fees, no monthly fees, and no hidden charges. You only pay when you earn.",
			Keywords: []string{"fees", "commission", "charges", "cost", "pricing"},
			Category: INTENT_BILLING,
		},
		{
			Question: "How do I get a refund?",
			Answer:   "Refunds are processed automatically for cancellations within the policy period. Contact support for special circumstances. Refunds take 3-5 business days.",
			Keywords: []string{"refund", "money back", "cancel", "refund policy"},
			Category: INTENT_BILLING,
		},
	},
	INTENT_SUPPORT: {
		{
			Question: "How do I contact support?",
			Answer:   "You can reach us via: 1) In-app chat (24/7), 2) Email: lelirentalsmail@gmail.com, 3) Phone: +254112081866, 4) WhatsApp: +254112081866",
			Keywords: []string{"contact", "support", "help", "phone", "email", "chat"},
			Category: INTENT_SUPPORT,
		},
		{
			Question: "What if I have a problem with my rental?",
			Answer:   "Contact us immediately! We have 24/7 support for urgent issues. For non-urgent matters, use the in-app messaging system or email support.",
			Keywords: []string{"problem", "issue", "help", "urgent", "emergency", "support"},
			Category: INTENT_SUPPORT,
		},
		{
			Question: "How do I report a user?",
			Answer:   "Use the 'Report User' button on their profile or contact support with details. We take all reports seriously and investigate promptly.",
			Keywords: []string{"report", "user", "problem user", "inappropriate", "safety"},
			Category: INTENT_SUPPORT,
		},
		{
			Question: "Is my data secure?",
			Answer:   "Yes! We use bank-level encryption, secure payment processing, and comply with international data protection standards. Your privacy is our priority.",
			Keywords: []string{"security", "privacy", "data", "safe", "encryption", "protection"},
			Category: INTENT_SUPPORT,
		},
	},
}

// MatchFAQ returns the best entry for the intent's table, scoring each
// entry by 2 per matched keyword plus 1 per question word longer than
// three characters found in the text. Ties keep the earlier entry. Scores
// below the threshold return no match so the caller falls back to the
// intent template.
func MatchFAQ(text string, intent Intent) (FAQEntry, bool) {
	entries, ok := faqDatabase[intent]
	if !ok {
		return FAQEntry{}, false
	}

	lower := strings.ToLower(text)
	var best FAQEntry
	bestScore := 0
	for _, entry := range entries {
		score := scoreEntry(lower, entry)
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}
	if bestScore < faqMatchThreshold {
		return FAQEntry{}, false
	}
	return best, true
}

func scoreEntry(lower string, entry FAQEntry) int {
	keywordHits := lo.CountBy(entry.Keywords, func(keyword string) bool {
		return strings.Contains(lower, strings.ToLower(keyword))
	})
	questionHits := lo.CountBy(strings.Fields(strings.ToLower(entry.Question)), func(word string) bool {
		return len(word) > 3 && strings.Contains(lower, word)
	})
	return 2*keywordHits + questionHits
}

// FAQsForIntent exposes the static table, used by the actions endpoint.
func FAQsForIntent(intent Intent) []FAQEntry {
	return faqDatabase[intent]
}
