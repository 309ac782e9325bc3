package config

const (
	// MaxUploadBytes is the maximum size of a single uploaded file.
	// 50 MiB matches what the claim form promises users; anything larger
	// is rejected client-side before a request is made and again server-side.
	MaxUploadBytes = 50 << 20

	// MaxDocumentNameLength is the maximum length for document file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxDocumentNameLength = 255

	// MaxDescriptionLength is the maximum length for free-text document
	// descriptions.
	MaxDescriptionLength = 2000

	// MaxCategoryLength is the maximum length for category names and codes.
	MaxCategoryLength = 100
)
