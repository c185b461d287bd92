package assistant

import (
	"sort"

	"github.com/leli-rentals/leli-assist/pkg/types"
)

const (
	CATEGORY_ESCALATION = "escalation"
	CATEGORY_ERROR      = "error"
	CATEGORY_CACHED     = "cached"
)

const (
	ESCALATION_CONFIDENCE = 0.95
	FAQ_CONFIDENCE        = 0.95
	FALLBACK_CONFIDENCE   = 0.3
	CACHED_CONFIDENCE     = 0.8
)

const handoffMessage = "I understand this is an important matter that needs personal attention. I'm connecting you with our human support team who can provide more detailed assistance. A specialist will be with you shortly."

const fallbackMessage = "I'm sorry, I'm having trouble processing your request right now. Let me connect you with our human support team who can help you better."

type intentTemplate struct {
	message      string
	quickReplies []string
	actions      []string
}

var intentTemplates = map[Intent]intentTemplate{
	INTENT_BOOKING: {
		message:      "I'd be happy to help you find and book the perfect rental item! What type of item are you looking for?",
		quickReplies: []string{"Vehicles", "Electronics", "Equipment", "Sports gear"},
		actions:      []string{"Browse categories", "View popular items", "Search by location"},
	},
	INTENT_LISTING: {
		message:      "Great! Listing your item on Leli Rentals is easy and can earn you extra income. Let's get started with creating your listing.",
		quickReplies: []string{"Create listing now", "Learn about fees", "See listing tips"},
		actions:      []string{"Start listing", "Upload photos", "Set pricing"},
	},
	INTENT_ACCOUNT: {
		message:      "I can help you manage your Leli Rentals account. What would you like to do?",
		quickReplies: []string{"Update profile", "Verify account", "Change password"},
		actions:      []string{"View profile", "Account settings", "Security options"},
	},
	INTENT_BILLING: {
		message:      "I understand you have a billing question. Let me help you with payments and transactions.",
		quickReplies: []string{"Payment methods", "Refund status", "Billing history"},
		actions:      []string{"View payments", "Update payment method", "Contact billing support"},
	},
	INTENT_SUPPORT: {
		message:      "I'm here to help! What can I assist you with today?",
		quickReplies: []string{"General help", "Technical issues", "Contact human support"},
		actions:      []string{"Browse FAQ", "Search help articles", "Live chat"},
	},
	INTENT_GENERAL: {
		message:      "Hello! I'm Leli's AI assistant, here to help you with rentals, bookings, and account management. How can I assist you today?",
		quickReplies: []string{"Book an item", "List my item", "Account help", "General questions"},
		actions:      []string{"Explore rentals", "View my bookings", "Account dashboard"},
	},
}

var suggestedActions = map[Intent][]string{
	INTENT_BOOKING: {"Browse categories", "View popular items", "Search by location", "Check availability"},
	INTENT_LISTING: {"Start listing", "Upload photos", "Set pricing", "View listing tips"},
	INTENT_ACCOUNT: {"View profile", "Account settings", "Security options", "Verification status"},
	INTENT_BILLING: {"View payments", "Update payment method", "Billing history", "Refund status"},
	INTENT_SUPPORT: {"Browse FAQ", "Search help articles", "Contact support", "Report issue"},
	INTENT_GENERAL: {"Explore rentals", "View my bookings", "Account dashboard", "Get started"},
}

var quickReplies = map[Intent][]string{
	INTENT_BOOKING: {"Vehicles", "Electronics", "Equipment", "Sports gear", "💬 Chat on WhatsApp"},
	INTENT_LISTING: {"Create listing now", "Learn about fees", "See listing tips", "What can I list?"},
	INTENT_ACCOUNT: {"Update profile", "Verify account", "Change password", "Account settings"},
	INTENT_BILLING: {"Payment methods", "Refund status", "Billing history", "When do I get paid?"},
	INTENT_SUPPORT: {"General help", "Technical issues", "Contact human support", "Report user"},
	INTENT_GENERAL: {"Book an item", "List my item", "Account help", "General questions", "💬 Chat on WhatsApp"},
}

// Compose runs the response decision table: escalation handoff first, then
// a verbatim FAQ answer, then the per-intent canned template.
func Compose(text string, c Classification, escalate bool) types.AssistantResponse {
	if escalate {
		return EscalationResponse()
	}

	if entry, ok := MatchFAQ(text, c.Intent); ok {
		return types.AssistantResponse{
			Message:          entry.Answer,
			Confidence:       FAQ_CONFIDENCE,
			Category:         string(c.Intent),
			SuggestedActions: SuggestedActionsForIntent(c.Intent),
			QuickReplies:     QuickRepliesForIntent(c.Intent),
		}
	}

	tpl, ok := intentTemplates[c.Intent]
	if !ok {
		tpl = intentTemplates[INTENT_GENERAL]
	}
	return types.AssistantResponse{
		Message:          tpl.message,
		Confidence:       c.Confidence,
		Category:         string(c.Intent),
		SuggestedActions: tpl.actions,
		QuickReplies:     tpl.quickReplies,
	}
}

func EscalationResponse() types.AssistantResponse {
	return types.AssistantResponse{
		Message:          handoffMessage,
		Confidence:       ESCALATION_CONFIDENCE,
		Category:         CATEGORY_ESCALATION,
		SuggestedActions: []string{"Wait for human support", "Prepare relevant details"},
		QuickReplies:     []string{"Continue waiting", "Cancel escalation"},
		ShouldEscalate:   true,
	}
}

// FallbackResponse is the degraded reply when a turn fails internally; the
// assistant never surfaces an empty or error bubble.
func FallbackResponse() types.AssistantResponse {
	return types.AssistantResponse{
		Message:          fallbackMessage,
		Confidence:       FALLBACK_CONFIDENCE,
		Category:         CATEGORY_ERROR,
		SuggestedActions: []string{"Contact human support", "Try again later"},
		QuickReplies:     []string{"Connect to human", "Try different question"},
		ShouldEscalate:   true,
	}
}

func SuggestedActionsForIntent(intent Intent) []string {
	if actions, ok := suggestedActions[intent]; ok {
		return actions
	}
	return suggestedActions[INTENT_GENERAL]
}

func QuickRepliesForIntent(intent Intent) []string {
	if replies, ok := quickReplies[intent]; ok {
		return replies
	}
	return quickReplies[INTENT_GENERAL]
}

type QuickAction struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Action   string `json:"action"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
}

var quickActions = []QuickAction{
	{ID: "book_item", Label: "Find & Book Items", Icon: "🔍", Action: "Help me find and book an item", Category: "booking", Priority: 1},
	{ID: "list_item", Label: "List My Item", Icon: "📦", Action: "I want to list an item for rent", Category: "listing", Priority: 2},
	{ID: "manage_bookings", Label: "My Bookings", Icon: "📋", Action: "Show me my bookings", Category: "account", Priority: 3},
	{ID: "pricing_help", Label: "Pricing Help", Icon: "💰", Action: "Help me with pricing my item", Category: "listing", Priority: 4},
	{ID: "verification", Label: "Account Verification", Icon: "✓", Action: "Help me verify my account", Category: "account", Priority: 5},
	{ID: "payment_help", Label: "Payment Issues", Icon: "💳", Action: "I need help with payments", Category: "support", Priority: 6},
	{ID: "account_help", Label: "Account Help", Icon: "👤", Action: "Help with my account", Category: "account", Priority: 7},
	{ID: "live_support", Label: "Talk to Human", Icon: "💬", Action: "I need to speak with a support agent", Category: "support", Priority: 8},
}

func QuickActions() []QuickAction {
	out := make([]QuickAction, len(quickActions))
	copy(out, quickActions)
	return out
}

// PersonalizedQuickActions bumps the bookings and listing shortcuts to the
// front for users who already have bookings or listings.
func PersonalizedQuickActions(ctx types.SessionContext) []QuickAction {
	actions := QuickActions()
	for i := range actions {
		if actions[i].ID == "manage_bookings" && len(ctx.UserBookings) > 0 {
			actions[i].Priority = 1
		}
		if actions[i].ID == "list_item" && len(ctx.UserListings) > 0 {
			actions[i].Priority = 1
		}
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority < actions[j].Priority
	})
	return actions
}
