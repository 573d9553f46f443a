package i18n

// DefaultLocale is used when a user has no locale set.
const DefaultLocale = "pt-BR"

// Language represents a row in the languages table.
type Language struct {
	ID   int64
	Code string
	Name string
}
