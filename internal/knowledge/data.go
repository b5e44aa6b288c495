package knowledge

// Message keys used by the assistant.
const (
	MsgSelectPlacePrompt      = "select_place_prompt"
	MsgSelectPlacePlaceholder = "select_place_placeholder"
	MsgLocationField          = "location_field"
	MsgRatingField            = "rating_field"
	MsgReviewsText            = "reviews_text"
	MsgViewOnMaps             = "view_on_maps"
	MsgGeneralIntro           = "general_intro"
	MsgDefaultMention         = "default_mention"
	MsgGeneralTopics          = "general_topics"
	MsgUseMenuHint            = "use_danang_command_hint"
	MsgAskNoQuery             = "ask_command_no_query"
	MsgAskNoInfo              = "ask_command_no_info"
	MsgGenericError           = "generic_error"
	MsgHelp                   = "help_message"
	MsgOtherPlaces            = "other_related_places_surroundings"
	MsgAskTraditionsVisiting  = "ask_about_traditions_visiting"
	MsgOtherTraditions        = "other_related_traditions"
	MsgAskPlacesVisiting      = "ask_about_places_surroundings_visiting"
	MsgAskAfterVisiting       = "ask_about_places_traditions_surroundings_after_visiting"
	MsgAskAfterOverview       = "ask_about_details_after_overview"
	MsgFollowUpFail           = "generic_follow_up_fail"
	MsgNoLastTopic            = "no_last_topic_follow_up"
	MsgLanguageCurrent        = "language_current"
	MsgLanguageSet            = "language_set"
	MsgLanguageUnsupported    = "language_unsupported"
	MsgThanks1                = "thanks_reply_1"
	MsgThanks2                = "thanks_reply_2"
	MsgThanks3                = "thanks_reply_3"
)

func tr(en, vi string) Translations {
	return Translations{"en": en, "vi": vi}
}

// Default returns the built-in Da Nang knowledge base.
func Default() *KnowledgeBase {
	kb, err := New(defaultEntries(), defaultMessages())
	if err != nil {
		panic("knowledge: built-in dataset is invalid: " + err.Error())
	}
	return kb
}

func defaultEntries() []Entry {
	return []Entry{
		{
			Category: CategoryOverview,
			Key:      "overview",
			Title:    tr("Da Nang", "Đà Nẵng"),
			Text: tr(
				"Da Nang is the fourth largest city in Vietnam, located on the coast of the East Sea at the mouth of the Han River."+
					" It is a major port city in Central Vietnam and one of five centrally-governed municipalities."+
					" Da Nang is situated almost equidistant from Hanoi and Ho Chi Minh City and serves as the hub for three UNESCO World Heritage sites:"+
					" the Complex of Hue Monuments, Hoi An Ancient Town, and My Son Sanctuary.",
				"Đà Nẵng là thành phố lớn thứ 4 ở Việt Nam, nằm trên bờ Biển Đông có cửa sông Hàn."+
					" Đây là một trong những thành phố cảng có vị trí chiến lược của miền Trung Việt Nam và là một trong 5 thành phố trực thuộc Trung ương."+
					" Đà Nẵng nằm ở trung độ đất nước, trên trục giao thông Bắc – Nam và là trung tâm của 3 di sản văn hóa thế giới:"+
					" Cố đô Huế, phố cổ Hội An và thánh địa Mỹ Sơn.",
			),
		},

		// places
		{
			Category: CategoryPlaces,
			Key:      "marble_mountains",
			Title:    tr("Marble Mountains", "Ngũ Hành Sơn"),
			Tagline:  tr("Five limestone hills with caves and temples", "Năm ngọn núi đá vôi với hang động và chùa chiền"),
			Text: tr(
				"The Marble Mountains (Ngu Hanh Son) are five limestone hills named after the five elements. They feature caves, temples, and panoramic views of Da Nang.",
				"Ngũ Hành Sơn (hay Núi Non Nước) là quần thể gồm 5 ngọn núi đá vôi được đặt tên theo ngũ hành. Nơi đây có nhiều hang động, chùa chiền và tầm nhìn toàn cảnh Đà Nẵng.",
			),
		},
		{
			Category: CategoryPlaces,
			Key:      "dragon_bridge",
			Title:    tr("Dragon Bridge", "Cầu Rồng"),
			Tagline:  tr("Modern architectural marvel", "Kỳ quan kiến trúc hiện đại"),
			Text: tr(
				"The Dragon Bridge is a modern architectural marvel that spans the Han River. It breathes fire and water every weekend night.",
				"Cầu Rồng là một biểu tượng kiến trúc hiện đại bắc qua sông Hàn. Cầu phun lửa và phun nước vào các tối cuối tuần.",
			),
		},
		{
			Category: CategoryPlaces,
			Key:      "my_khe_beach",
			Title:    tr("My Khe Beach", "Biển Mỹ Khê"),
			Tagline:  tr("One of Vietnam's most beautiful beaches", "Một trong những bãi biển đẹp nhất Việt Nam"),
			Text: tr(
				"My Khe Beach is known as one of the most beautiful beaches in Vietnam, famous for its white sand and clear water.",
				"Biển Mỹ Khê được mệnh danh là một trong những bãi biển đẹp nhất Việt Nam, nổi tiếng với bờ cát trắng mịn và làn nước trong xanh.",
			),
		},
		{
			Category: CategoryPlaces,
			Key:      "lady_buddha",
			Title:    tr("Lady Buddha", "Tượng Phật Bà Quan Âm"),
			Tagline:  tr("Tallest Buddha statue in Vietnam", "Tượng Phật cao nhất Việt Nam"),
			Text: tr(
				"The Lady Buddha statue at Linh Ung Pagoda is the tallest Buddha statue in Vietnam, standing at 67 meters.",
				"Tượng Phật Bà Quan Âm tại Chùa Linh Ứng là tượng Phật cao nhất Việt Nam, cao 67 mét.",
			),
		},
		{
			Category: CategoryPlaces,
			Key:      "han_market",
			Title:    tr("Han Market", "Chợ Hàn"),
			Tagline:  tr("Traditional market in Da Nang", "Chợ truyền thống ở Đà Nẵng"),
			Text: tr(
				"Han Market is a traditional market offering local food, souvenirs, and a glimpse into daily life in Da Nang.",
				"Chợ Hàn là một khu chợ truyền thống bày bán các món ăn địa phương, quà lưu niệm và mang đến cái nhìn về đời sống hàng ngày tại Đà Nẵng.",
			),
		},

		// traditions
		{
			Category: CategoryTraditions,
			Key:      "festivals",
			Title:    tr("Festivals", "Lễ hội"),
			Text: tr(
				"Da Nang hosts several festivals including the International Fireworks Festival and the Quan The Am Festival.",
				"Đà Nẵng tổ chức nhiều lễ hội như Lễ hội Pháo hoa Quốc tế và Lễ hội Quán Thế Âm.",
			),
		},
		{
			Category: CategoryTraditions,
			Key:      "cuisine",
			Title:    tr("Cuisine", "Ẩm thực"),
			Text: tr(
				"Famous local dishes include Mi Quang (turmeric noodles), Banh Xeo (savory pancakes), and fresh seafood.",
				"Các món ăn địa phương nổi tiếng gồm Mì Quảng, Bánh Xèo và hải sản tươi sống.",
			),
		},
		{
			Category: CategoryTraditions,
			Key:      "crafts",
			Title:    tr("Traditional Crafts", "Nghề thủ công truyền thống"),
			Text: tr(
				"Traditional crafts include stone carving in Non Nuoc village and fishing net making.",
				"Các nghề thủ công truyền thống gồm điêu khắc đá Non Nước và làm lưới đánh cá.",
			),
		},

		// surroundings
		{
			Category: CategorySurroundings,
			Key:      "hoi_an",
			Title:    tr("Hoi An Ancient Town", "Phố cổ Hội An"),
			Tagline:  tr("Lantern-lit UNESCO old town", "Phố cổ đèn lồng, di sản UNESCO"),
			Text: tr(
				"Hoi An Ancient Town is a UNESCO World Heritage site known for its well-preserved architecture, custom tailoring, and lantern-lit streets. It's about 30 km south of Da Nang.",
				"Phố cổ Hội An là Di sản Văn hóa Thế giới được UNESCO công nhận, nổi tiếng với kiến trúc cổ kính được bảo tồn tốt, nghề may đo truyền thống và những con phố đèn lồng lung linh. Nơi đây cách Đà Nẵng khoảng 30 km về phía Nam.",
			),
		},
		{
			Category: CategorySurroundings,
			Key:      "hue",
			Title:    tr("Hue", "Huế"),
			Tagline:  tr("Former imperial capital", "Cố đô triều Nguyễn"),
			Text: tr(
				"Hue is the former imperial capital of Vietnam, located about 100 km north of Da Nang. It's famous for its historic citadel, palaces, and tombs.",
				"Huế là cố đô xưa của Việt Nam, cách Đà Nẵng khoảng 100 km về phía Bắc. Huế nổi tiếng với Kinh thành, cung điện và lăng tẩm mang đậm dấu ấn lịch sử.",
			),
		},
		{
			Category: CategorySurroundings,
			Key:      "my_son",
			Title:    tr("My Son Sanctuary", "Thánh địa Mỹ Sơn"),
			Tagline:  tr("Ancient Cham temple complex", "Quần thể đền tháp Chăm Pa"),
			Text: tr(
				"My Son Sanctuary is a complex of ancient Hindu temples constructed by the Champa Kingdom. It's a UNESCO World Heritage site located about 70 km southwest of Da Nang.",
				"Thánh địa Mỹ Sơn là một quần thể kiến trúc đền thờ Ấn Độ giáo cổ xưa của Vương quốc Chăm Pa. Đây là Di sản Văn hóa Thế giới được UNESCO công nhận, nằm cách Đà Nẵng khoảng 70 km về phía Tây Nam.",
			),
		},

		{
			Category: CategoryVisitingInfo,
			Key:      "best_time_to_visit",
			Title:    tr("Best Time to Visit", "Thời điểm tốt nhất để du lịch"),
			Text: tr(
				"The best time to visit Da Nang is generally from March to May and September to October. The weather is pleasant, with less rain and comfortable temperatures. The summer months (June to August) are hot and humid but popular for beach activities. The rainy season is typically from November to February.",
				"Thời điểm tốt nhất để du lịch Đà Nẵng thường là từ tháng 3 đến tháng 5 và từ tháng 9 đến tháng 10. Thời tiết lúc này dễ chịu, ít mưa và nhiệt độ thoải mái. Các tháng mùa hè (tháng 6 đến tháng 8) nóng và ẩm nhưng thích hợp cho các hoạt động biển. Mùa mưa thường kéo dài từ tháng 11 đến tháng 2.",
			),
		},
	}
}

func defaultMessages() map[string]Translations {
	return map[string]Translations{
		MsgSelectPlacePrompt: tr(
			"Please select a place in Da Nang to learn more about it:",
			"Vui lòng chọn một địa điểm ở Đà Nẵng để tìm hiểu thêm:",
		),
		MsgSelectPlacePlaceholder: tr("Choose a place in Da Nang...", "Chọn một địa điểm ở Đà Nẵng..."),
		MsgLocationField:          tr("Location", "Vị trí"),
		MsgRatingField:            tr("Rating", "Đánh giá"),
		MsgReviewsText:            tr("reviews", "đánh giá"),
		MsgViewOnMaps:             tr("View on Google Maps", "Xem trên Google Maps"),
		MsgGeneralIntro: tr(
			"Hello {mention}! I can help you explore Da Nang.",
			"Xin chào {mention}! Tôi có thể giúp bạn khám phá Đà Nẵng.",
		),
		MsgDefaultMention: tr("there", "bạn"),
		MsgGeneralTopics: tr(
			"You can ask me about:\n• Places to visit\n• Local traditions\n• Best time to visit\n• Surrounding attractions",
			"Bạn có thể hỏi tôi về:\n• Các địa điểm tham quan\n• Truyền thống địa phương\n• Thời điểm tốt nhất để thăm\n• Các điểm tham quan lân cận",
		),
		MsgUseMenuHint: tr(
			"Or use `{command}` to see a menu of popular places!",
			"Hoặc sử dụng `{command}` để xem menu các địa điểm phổ biến!",
		),
		MsgAskNoQuery: tr(
			`Please provide a question about Da Nang. For example: "Tell me about Dragon Bridge"`,
			`Vui lòng đặt câu hỏi về Đà Nẵng. Ví dụ: "Kể cho tôi nghe về Cầu Rồng"`,
		),
		MsgAskNoInfo: tr(
			"I couldn't find specific information about that. Try using {command} to see available places!",
			"Tôi không tìm thấy thông tin cụ thể về điều đó. Hãy thử sử dụng {command} để xem các địa điểm có sẵn!",
		),
		MsgGenericError: tr(
			"Sorry, something went wrong. Please try again later.",
			"Xin lỗi, đã xảy ra lỗi. Vui lòng thử lại sau.",
		),
		MsgHelp: tr(
			"Here are the available commands:\n\n{command_danang} - Show the interactive place selection menu\n{command_askdanang} - Ask a question about Da Nang\n{command_language} - Set your preferred language (English or Vietnamese)",
			"Đây là các lệnh có sẵn:\n\n{command_danang} - Hiển thị menu chọn địa điểm tương tác\n{command_askdanang} - Đặt câu hỏi về Đà Nẵng\n{command_language} - Đặt ngôn ngữ ưa thích của bạn (Tiếng Anh hoặc Tiếng Việt)",
		),
		MsgOtherPlaces: tr(
			"Other places you might be interested in: {items}",
			"Các địa điểm khác bạn có thể quan tâm: {items}",
		),
		MsgAskTraditionsVisiting: tr(
			"Would you like to know about local traditions or the best time to visit?",
			"Bạn có muốn biết về truyền thống địa phương hoặc thời điểm tốt nhất để thăm không?",
		),
		MsgOtherTraditions: tr(
			"Other traditions you might be interested in: {items}",
			"Các truyền thống khác bạn có thể quan tâm: {items}",
		),
		MsgAskPlacesVisiting: tr(
			"Would you like to know about other places, surrounding attractions, or the best time to visit?",
			"Bạn có muốn biết về các địa điểm khác, các điểm tham quan lân cận hoặc thời điểm tốt nhất để thăm không?",
		),
		MsgAskAfterVisiting: tr(
			"Would you like to know about specific places, traditions, or surrounding attractions?",
			"Bạn có muốn biết về các địa điểm cụ thể, truyền thống hoặc các điểm tham quan lân cận không?",
		),
		MsgAskAfterOverview: tr(
			"Would you like to know about specific places, traditions, surrounding attractions, or the best time to visit?",
			"Bạn có muốn biết về các địa điểm cụ thể, truyền thống, các điểm tham quan lân cận hoặc thời điểm tốt nhất để thăm không?",
		),
		MsgFollowUpFail: tr(
			"I'm not sure what else to tell you about that. Try asking about something else!",
			"Tôi không chắc chắn còn điều gì khác để nói về điều đó. Hãy thử hỏi về điều khác!",
		),
		MsgNoLastTopic: tr(
			"I'm not sure what you'd like to know more about. Try asking about a specific place or topic!",
			"Tôi không chắc chắn bạn muốn biết thêm về điều gì. Hãy thử hỏi về một địa điểm hoặc chủ đề cụ thể!",
		),
		MsgLanguageCurrent: tr(
			"Your current language is {language}. Use `{command} en` or `{command} vi` to change it.",
			"Ngôn ngữ hiện tại của bạn là {language}. Dùng `{command} en` hoặc `{command} vi` để thay đổi.",
		),
		MsgLanguageSet: tr(
			"Your language has been set to {language}.",
			"Ngôn ngữ của bạn đã được đặt thành {language}.",
		),
		MsgLanguageUnsupported: tr(
			"Unsupported language \"{code}\". Valid codes: {codes}.",
			"Ngôn ngữ \"{code}\" không được hỗ trợ. Mã hợp lệ: {codes}.",
		),
		MsgThanks1: tr("You're welcome! Enjoy exploring Da Nang!", "Không có gì! Chúc bạn khám phá Đà Nẵng vui vẻ!"),
		MsgThanks2: tr("Happy to help! Let me know if you have more questions.", "Rất vui được giúp bạn! Hãy hỏi thêm nếu bạn cần nhé."),
		MsgThanks3: tr("Anytime! Have a great trip to Da Nang!", "Luôn sẵn lòng! Chúc bạn có chuyến đi Đà Nẵng thật tuyệt!"),
	}
}
