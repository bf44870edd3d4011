package application

import (
	"fmt"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

// ButtonLabels are the keyboard texts the classifier recognizes as presses.
type ButtonLabels map[string]domain.Button

func DefaultButtonLabels() ButtonLabels {
	return ButtonLabels{
		"✅ New chat":      domain.ButtonNewChat,
		"👤 Profile":       domain.ButtonProfile,
		"🪙 Buy credits":   domain.ButtonBuyCredits,
		"🔄 New persona":   domain.ButtonNewPersona,
		"❌ End chat":      domain.ButtonEndChat,
	}
}

// ByButton inverts the label table for transports that draw keyboards.
func (l ButtonLabels) ByButton() map[domain.Button]string {
	inverted := make(map[domain.Button]string, len(l))
	for label, button := range l {
		inverted[button] = label
	}
	return inverted
}

const (
	msgWelcome            = "Welcome! Start a new chat with one of our AI personas, or check your profile."
	msgNotSubscribed      = "To use the bot, join the channel below and then tap refresh."
	msgStillNotSubscribed = "You are not subscribed yet."
	msgSubscribed         = "Subscription confirmed!"
	msgCityRequired       = "Select your city from the profile before starting a chat."
	msgCityPrompt         = "Type the name of your city."
	msgCityInvalid        = "Please enter a valid city name (2 to 50 characters)."
	msgCityUnknown        = "City not recognized. Try again with an Italian city name."
	msgNotInChat          = "No chat is running. Start a new chat from the menu."
	msgEndChatFirst       = "End the current chat before changing your city."
	msgNoCredits          = "You don't have enough credits to continue the conversation. Buy credits to keep chatting."
	msgRetryLater         = "Something went wrong. Please try again later."
	msgNoPersonas         = "No personas are available right now. Please try again later."
	msgUnknownCommand     = "Unknown command."
	msgPermissionDenied   = "You are not allowed to use this command."
	msgRechargeUsage      = "Usage: /recharge <amount> <code>"
	msgInfoUsage          = "Usage: /info <code>"
	msgInvalidAmount      = "The amount must be a non-negative whole number."
	msgNotifyFailed       = "Credits set, but the user could not be notified."
	msgPricing            = "💰 Credit packs\n\n" +
		"• 20 credits: 10 messages\n" +
		"• 50 credits: 25 messages\n" +
		"• 100 credits: 50 messages\n\n" +
		"Contact an operator with your user code to top up."
)

func personaCard(persona domain.Persona, city string) string {
	return fmt.Sprintf("👤 %s (AI persona)\n📍 %s", persona.Name, city)
}

func personaLine(persona domain.Persona, text string) string {
	return fmt.Sprintf("💬 %s: %s", persona.Name, text)
}

func profileText(record domain.AccountRecord, policy domain.QuotaPolicy) string {
	return fmt.Sprintf(
		"👤 Your profile\n\n🔢 Code: %s\n🪙 Credits: %d\n🆓 Free messages left: %d\n📍 City: %s",
		record.PublicCode, record.CreditBalance, record.FreeUsesLeft(policy.FreeLimit), cityLabel(record),
	)
}

func citySavedText(record domain.AccountRecord) string {
	return fmt.Sprintf("📍 City set to %s.", record.City)
}

func accountInfoText(record domain.AccountRecord) string {
	return fmt.Sprintf("🔢 Code: %s\n🪙 Credits: %d\n📍 City: %s", record.PublicCode, record.CreditBalance, cityLabel(record))
}

func rechargeText(result RechargeResult) string {
	return fmt.Sprintf(
		"✅ Credits of %s set to %d.\nPrevious credits: %d",
		result.Account.PublicCode, result.Account.CreditBalance, result.PreviousBalance,
	)
}

func accountNotFoundText(code domain.PublicCode) string {
	return fmt.Sprintf("No user with code %s.", code)
}

func creditsSetNotice(amount int64) string {
	return fmt.Sprintf("✅ Your credits have been set to %d.", amount)
}

func cityLabel(record domain.AccountRecord) string {
	if !record.HasCity() {
		return "not selected"
	}
	return record.City
}
