package catalog

import (
	"time"

	"github.com/tokhel/ink/internal/entities"
)

// placeholderNovels is the seeded fallback data set served when the store is
// unreachable, and the payload of the seed command. Keeping the public site
// rendering something sensible is preferred over surfacing a store outage.
var placeholderNovels = []entities.Novel{
	{
		ID:          "1",
		Title:       "الظل والمفتاح",
		Description: "في مدينة نسجت خيوطها من الأسرار، يبحث صانع أقفال عن مفتاح لا يفتح بابًا، بل قدرًا. مغامرة ملحمية عن الاختيار والخسارة.",
		Quote:       "بعض الأبواب يجب أن تبقى مغلقة، ليس لحماية ما خلفها، بل لحماية من يجرؤ على فتحها.",
		CoverImage:  "https://placehold.co/400x600/a7b7c7/f0f0f0",
		PdfURL:      "#",
		ReleaseDate: time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC),
		IsFeatured:  true,
	},
	{
		ID:          "2",
		Title:       "صدى الرمال",
		Description: "رحلة عالم آثار شاب في صحراء الربع الخالي تقوده إلى اكتشاف مدينة مفقودة وحقيقة مدفونة منذ آلاف السنين.",
		Quote:       "الماضي لا يموت، بل يهمس في حبات الرمل، منتظرًا من يستمع.",
		CoverImage:  "https://placehold.co/400x600/e6c9a8/333333",
		PdfURL:      "#",
		ReleaseDate: time.Date(2023, time.March, 20, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          "3",
		Title:       "شفرة الأوريغامي",
		Description: "مبرمجة عبقرية تكتشف رسائل مشفرة في فن طي الورق، مما يورطها في مؤامرة دولية تتجاوز عالم التكنولوجيا.",
		Quote:       "في كل طيّة حكاية، وفي كل شكل سرّ.",
		CoverImage:  "https://placehold.co/400x600/cccccc/333333",
		PdfURL:      "#",
		ReleaseDate: time.Date(2022, time.September, 5, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          "4",
		Title:       "مذكرات بائع الأحلام",
		Description: "رجل غامض يبيع أحلامًا مخصصة في متجر صغير، لكنه يجد نفسه متورطًا في كوابيس أحد زبائنه.",
		Quote:       "أخطر ما في الحلم، هو أن تستيقظ منه.",
		CoverImage:  "https://placehold.co/400x600/A7B7C7/f0f0f0",
		PdfURL:      "#",
		ReleaseDate: time.Date(2021, time.June, 11, 0, 0, 0, 0, time.UTC),
	},
}

// PlaceholderNovels returns a copy of the fallback data set.
func PlaceholderNovels() []entities.Novel {
	out := make([]entities.Novel, len(placeholderNovels))
	copy(out, placeholderNovels)
	return out
}
