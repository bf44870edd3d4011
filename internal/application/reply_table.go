package application

const personaPlaceholder = "{persona}"

// KeywordRule maps a lower-case keyword to its candidate replies. Replies may
// contain {persona}, replaced with the persona name.
type KeywordRule struct {
	Keyword string
	Replies []string
}

// ReplyTable is the local content behind the fallback tiers. Keyword order
// breaks ties between matches of equal length.
type ReplyTable struct {
	Keywords        []KeywordRule
	Short           []string
	Long            []string
	Markers         []string
	ShortInputLimit int
}

func DefaultReplyTable() ReplyTable {
	return ReplyTable{
		Keywords: []KeywordRule{
			{Keyword: "ciao", Replies: []string{
				"Ciao! 😊 Nice to meet you, what brings you here today?",
				"Hey there! ✨ I'm {persona}, happy to chat.",
				"Ciao ciao! 🙂 How is your day going?",
			}},
			{Keyword: "hello", Replies: []string{
				"Hello! 😊 I'm {persona}. What would you like to talk about?",
				"Hi! ✨ Good to see you here.",
			}},
			{Keyword: "grazie", Replies: []string{
				"You're welcome! 😊",
				"Anytime! 🙂 What else is on your mind?",
			}},
			{Keyword: "thanks", Replies: []string{
				"You're welcome! 😊",
				"Happy to help! ✨",
			}},
			{Keyword: "bene", Replies: []string{
				"Glad to hear it! 😊 Anything fun planned?",
				"That's great! ✨ Tell me more.",
			}},
			{Keyword: "come va", Replies: []string{
				"All good here, thanks for asking! 😊 And you?",
				"Pretty great! 🙂 I've been looking forward to a chat.",
				"Going well! ✨ What about your day?",
			}},
			{Keyword: "come stai", Replies: []string{
				"I'm doing well, thank you! 😊 How are you?",
				"Very well! 🙂 Even better now that we're talking.",
				"Great, thanks! ✨ What's new with you?",
			}},
			{Keyword: "how are you", Replies: []string{
				"I'm doing well, thanks for asking! 😊 How about you?",
				"Great! ✨ What's new with you?",
			}},
			{Keyword: "cosa fai", Replies: []string{
				"Just chatting with you! 😊 What are you up to?",
				"Not much, I was hoping someone would say hi. 🙂",
			}},
			{Keyword: "bello", Replies: []string{
				"That's kind of you! 😊",
				"Thank you! ✨ You're sweet.",
			}},
			{Keyword: "come ti chiami", Replies: []string{
				"I'm {persona}! 😊 And you?",
				"My name is {persona}. ✨ Nice to meet you!",
			}},
			{Keyword: "your name", Replies: []string{
				"I'm {persona}! 😊 What's yours?",
				"{persona}, nice to meet you! ✨",
			}},
			{Keyword: "nome", Replies: []string{
				"My name is {persona}! 🙂 What should I call you?",
				"I'm {persona}. ✨ Tell me yours?",
			}},
			{Keyword: "faresti", Replies: []string{
				"Hmm, I'd probably grab a coffee and keep chatting. ☕ You?",
				"Something relaxing, I think. 🙂 What would you pick?",
			}},
		},
		Short: []string{
			"Tell me more! 😊",
			"Oh really? 🙂",
			"Interesting! ✨ Go on.",
			"And then? 😄",
		},
		Long: []string{
			"I like how you put that! 😊 Keep going.",
			"That's interesting! ✨ Tell me more.",
			"I'm curious now. 🙂 What happened next?",
			"You've got my attention! 😄",
			"Thanks for sharing that with me. 💬",
		},
		Markers:         []string{"😊", "✨", "🙂", "😄", "💬"},
		ShortInputLimit: 10,
	}
}

func (t ReplyTable) withDefaults() ReplyTable {
	defaults := DefaultReplyTable()
	if len(t.Short) == 0 {
		t.Short = defaults.Short
	}
	if len(t.Long) == 0 {
		t.Long = defaults.Long
	}
	if len(t.Markers) == 0 {
		t.Markers = defaults.Markers
	}
	if t.ShortInputLimit <= 0 {
		t.ShortInputLimit = defaults.ShortInputLimit
	}

	return t
}
