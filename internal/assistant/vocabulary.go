package assistant

// Phrase lists are lowercase. Vietnamese phrases carry diacritics as typed.
var (
	greetingPhrases = []string{
		"hello", "hi", "hey", "howdy", "greetings",
		"good morning", "good afternoon", "good evening",
		"xin chào", "chào", "alo",
	}

	thanksPhrases = []string{
		"thank you", "thanks", "thank", "thx",
		"cảm ơn", "cám ơn",
	}

	followUpPhrases = []string{
		"anything else", "tell me more", "more info", "other", "next",
		"còn gì nữa", "kể thêm", "thêm thông tin",
	}

	// domainKeywords gate topic matching for ambient chat. Topic keys are
	// appended at router construction.
	domainKeywords = []string{
		"da nang", "danang", "đà nẵng",
		"place", "visit", "travel", "trip", "tour", "attraction", "sight",
		"beach", "bridge", "mountain", "market", "pagoda", "buddha", "temple",
		"tradition", "culture", "festival", "food", "cuisine", "dish", "eat", "craft",
		"surrounding", "nearby", "around",
		"weather", "season", "best time", "when to go",
		"overview", "about", "tell me", "recommend", "where", "what",
		"địa điểm", "du lịch", "truyền thống", "ẩm thực", "lễ hội", "thời tiết",
	}
)
