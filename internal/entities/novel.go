package entities

import (
	"fmt"
	"time"
)

// arabicMonths maps time.Month (1-based) to the month names used on the
// public site.
var arabicMonths = [12]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// Novel is a catalog record for a published or upcoming literary work.
// The JSON field names are the persisted wire shape and must stay stable.
type Novel struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id" firestore:"-"`
	Title       string    `gorm:"size:512;not null" json:"title" firestore:"title"`
	Quote       string    `gorm:"size:1024;not null" json:"quote" firestore:"quote"`
	Description string    `gorm:"type:text;not null" json:"description" firestore:"description"`
	CoverImage  string    `gorm:"size:2048" json:"coverImage" firestore:"coverImage"`
	PdfURL      string    `gorm:"size:2048" json:"pdfUrl" firestore:"pdfUrl"`
	ReleaseDate time.Time `json:"releaseDate" firestore:"releaseDate"`
	IsFeatured  bool      `gorm:"index" json:"isFeatured" firestore:"isFeatured"`
}

// DisplayReleaseDate formats the release date the way the site renders it,
// e.g. "15 أكتوبر 2024".
func (n Novel) DisplayReleaseDate() string {
	if n.ReleaseDate.IsZero() {
		return ""
	}
	d := n.ReleaseDate
	return fmt.Sprintf("%d %s %d", d.Day(), arabicMonths[d.Month()-1], d.Year())
}
